// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Activity is an extracurricular offering and the emails signed up for it.
// Participants keep sign-up order and never contain the same email twice.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int // informational only, never enforced
	Participants    []string
}

// ActivityView is the JSON shape of a single activity in listings.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Clone returns a deep copy so callers cannot mutate registry-owned slices.
func (a Activity) Clone() Activity {
	c := a
	c.Participants = slices.Clone(a.Participants)
	if c.Participants == nil {
		c.Participants = []string{}
	}
	return c
}

// IndexOf returns the position of email in the participant list or -1.
// Matching is exact and case-sensitive.
func (a Activity) IndexOf(email string) int {
	return slices.Index(a.Participants, email)
}

// Has reports whether email is signed up.
func (a Activity) Has(email string) bool {
	return a.IndexOf(email) >= 0
}

// SpotsLeft is capacity minus participants. It goes negative when the
// activity is oversubscribed.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// View converts the activity to its listing representation.
func (a Activity) View() ActivityView {
	c := a.Clone()
	return ActivityView{
		Description:     c.Description,
		Schedule:        c.Schedule,
		MaxParticipants: c.MaxParticipants,
		Participants:    c.Participants,
	}
}

// Validate checks the structural invariants of a seeded activity.
func (a Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("activity name must not be empty")
	}
	if a.MaxParticipants < 0 {
		return fmt.Errorf("activity %q: max_participants must not be negative", a.Name)
	}
	seen := make(map[string]struct{}, len(a.Participants))
	for _, p := range a.Participants {
		if p == "" {
			return fmt.Errorf("activity %q: empty participant email", a.Name)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("activity %q: participant %q listed twice", a.Name, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
