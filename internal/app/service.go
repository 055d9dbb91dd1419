// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/internal/domain/registry"
	"github.com/okian/activities/pkg/logger"
	"github.com/okian/activities/pkg/metrics"
)

const defaultGaugeInterval = 10 * time.Second

// Service owns the activity registry for the lifetime of the process and
// adds logging and metrics around every registry operation.
type Service struct {
	mu sync.RWMutex

	registry      *registry.Registry
	gaugeInterval time.Duration

	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry injects the registry the service operates on.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithGaugeInterval sets how often registry gauges are refreshed after Start.
func WithGaugeInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.gaugeInterval = d
		}
	}
}

// New constructs a Service. Without WithRegistry it uses the built-in activities.
func New(opts ...Option) *Service {
	s := &Service{
		gaugeInterval: defaultGaugeInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = registry.NewDefault()
	}
	return s
}

// Start publishes the initial gauges and refreshes them until Stop or ctx ends.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runningLocked() {
		return nil
	}
	if s.started {
		// refresher exited with its context
		close(s.stopCh)
		s.started = false
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.RefreshGauges(ctx)
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.refreshLoop(ctx, s.stopCh, s.doneCh)

	s.started = true
	s.logger.Info(ctx, "activities service started",
		logger.Int("activities", s.registry.Count(ctx)),
		logger.Duration("gauge_interval", s.gaugeInterval),
	)
	return nil
}

// Stop halts the gauge refresher. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.started = false
	s.logger.Info(context.Background(), "activities service stopped")
}

// runningLocked reports whether the gauge refresher is alive. s.mu must be held.
func (s *Service) runningLocked() bool {
	if !s.started {
		return false
	}
	select {
	case <-s.doneCh:
		return false
	default:
		return true
	}
}

func (s *Service) refreshLoop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.gaugeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.RefreshGauges(ctx)
		}
	}
}

// RefreshGauges publishes per-activity participant counts and totals.
func (s *Service) RefreshGauges(ctx context.Context) {
	st := s.registry.Stats(ctx)
	for name, n := range st.Participants {
		metrics.UpdateParticipants(name, n)
	}
	metrics.UpdateActivities(st.Activities)
	metrics.UpdateTotalParticipants(st.TotalParticipants)
}

// List returns every activity keyed by name.
func (s *Service) List(ctx context.Context) map[string]model.Activity {
	return s.registry.List(ctx)
}

// Get returns one activity.
func (s *Service) Get(ctx context.Context, name string) (model.Activity, error) {
	return s.registry.Get(ctx, name)
}

// Signup registers email for the named activity.
func (s *Service) Signup(ctx context.Context, name, email string) (string, error) {
	msg, err := s.registry.Signup(ctx, name, email)
	if err != nil {
		s.reject(ctx, "signup", name, email, err)
		return "", err
	}
	metrics.RecordSignup(name)
	s.publishActivity(ctx, name)
	s.log().Info(ctx, "participant signed up",
		logger.String("activity", name),
		logger.String("email", email),
	)
	return msg, nil
}

// Unregister removes email from the named activity.
func (s *Service) Unregister(ctx context.Context, name, email string) (string, error) {
	msg, err := s.registry.Unregister(ctx, name, email)
	if err != nil {
		s.reject(ctx, "unregister", name, email, err)
		return "", err
	}
	metrics.RecordUnregistration(name)
	s.publishActivity(ctx, name)
	s.log().Info(ctx, "participant unregistered",
		logger.String("activity", name),
		logger.String("email", email),
	)
	return msg, nil
}

func (s *Service) publishActivity(ctx context.Context, name string) {
	st := s.registry.Stats(ctx)
	metrics.UpdateParticipants(name, st.Participants[name])
	metrics.UpdateTotalParticipants(st.TotalParticipants)
}

func (s *Service) reject(ctx context.Context, op, name, email string, err error) {
	reason := "unknown"
	switch {
	case errors.Is(err, registry.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, registry.ErrConflict):
		reason = "conflict"
	}
	metrics.RecordRejection(op, reason)
	s.log().Debug(ctx, "registry operation rejected",
		logger.String("operation", op),
		logger.String("activity", name),
		logger.String("email", email),
		logger.String("reason", reason),
		logger.Error(err),
	)
}

// log returns the configured logger, falling back to the global one for
// services that were never started.
func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

// Count returns the number of activities.
func (s *Service) Count(ctx context.Context) int {
	return s.registry.Count(ctx)
}

// GetStats returns registry statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.runningLocked()
	s.mu.RUnlock()

	st := s.registry.Stats(context.Background())
	return map[string]interface{}{
		"started":            started,
		"activities":         st.Activities,
		"total_participants": st.TotalParticipants,
		"participants":       st.Participants,
		"spots_left":         st.SpotsLeft,
	}
}
