// Package registry holds the in-memory activity registry: a fixed set of
// activities whose participant lists change through Signup and Unregister.
package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/activities/internal/domain/model"
)

// Registry maps activity names to activities. The set of names is fixed at
// construction; only participant lists change afterwards.
//
// The mutex keeps the map and slices memory-safe under concurrent handlers.
// Each call is atomic on its own; nothing orders calls from different clients.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*model.Activity
	order      []string
}

// Stats summarizes the registry for monitoring.
type Stats struct {
	Activities        int
	TotalParticipants int
	Participants      map[string]int
	SpotsLeft         map[string]int
}

// New builds a registry from seed activities. It fails on an empty seed,
// duplicate names or an activity violating its own invariants.
func New(seed []model.Activity) (*Registry, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: no activities", ErrInvalid)
	}
	r := &Registry{
		activities: make(map[string]*model.Activity, len(seed)),
		order:      make([]string, 0, len(seed)),
	}
	for _, a := range seed {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		if _, dup := r.activities[a.Name]; dup {
			return nil, fmt.Errorf("%w: activity %q defined twice", ErrInvalid, a.Name)
		}
		c := a.Clone()
		r.activities[a.Name] = &c
		r.order = append(r.order, a.Name)
	}
	return r, nil
}

// NewDefault builds a registry from DefaultActivities.
func NewDefault() *Registry {
	r, err := New(DefaultActivities())
	if err != nil {
		panic(fmt.Sprintf("registry: invalid built-in activities: %v", err))
	}
	return r
}

// List returns a snapshot of every activity keyed by name.
func (r *Registry) List(_ context.Context) map[string]model.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = a.Clone()
	}
	return out
}

// Names returns activity names in seed order.
func (r *Registry) Names(_ context.Context) []string {
	return slices.Clone(r.order)
}

// Get returns a snapshot of one activity.
func (r *Registry) Get(_ context.Context, name string) (model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	return a.Clone(), nil
}

// Signup appends email to the activity's participants.
// Capacity is not enforced.
func (r *Registry) Signup(_ context.Context, name, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return "", ErrActivityNotFound
	}
	if a.Has(email) {
		return "", ErrAlreadySignedUp
	}
	a.Participants = append(a.Participants, email)
	return fmt.Sprintf("Signed up %s for %s", email, name), nil
}

// Unregister removes email from the activity's participants, keeping the
// order of the remaining entries.
func (r *Registry) Unregister(_ context.Context, name, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return "", ErrActivityNotFound
	}
	i := a.IndexOf(email)
	if i < 0 {
		return "", ErrNotSignedUp
	}
	a.Participants = slices.Delete(a.Participants, i, i+1)
	return fmt.Sprintf("Unregistered %s from %s", email, name), nil
}

// Count returns the number of activities.
func (r *Registry) Count(_ context.Context) int {
	return len(r.order)
}

// Stats returns participant totals per activity.
func (r *Registry) Stats(_ context.Context) Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		Activities:   len(r.activities),
		Participants: make(map[string]int, len(r.activities)),
		SpotsLeft:    make(map[string]int, len(r.activities)),
	}
	for name, a := range r.activities {
		n := len(a.Participants)
		s.Participants[name] = n
		s.SpotsLeft[name] = a.SpotsLeft()
		s.TotalParticipants += n
	}
	return s
}
