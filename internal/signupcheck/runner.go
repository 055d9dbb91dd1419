package signupcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/okian/activities/pkg/logger"
)

const duplicateDetail = "Student already signed up"

// Run executes one full check: sign up every generated email concurrently,
// verify the listing, probe a duplicate sign-up, unregister everyone and
// verify the listing is back to where it started.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Users <= 0 {
		return nil, fmt.Errorf("users must be positive, got %d", cfg.Users)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	log := logger.Get().Named("signupcheck")
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting sign-up check",
		logger.String("url", cfg.BaseURL),
		logger.Int("users", cfg.Users),
		logger.Int("workers", cfg.Workers))

	initial, err := client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial listing failed: %w", err)
	}
	if len(initial) == 0 {
		return nil, ErrNoActivities
	}
	stats.Activities = len(initial)

	assignments := generateAssignments(initial, cfg.Users)

	// Step 1: concurrent sign-ups
	accepted, failed := runPool(ctx, cfg, assignments, func(ctx context.Context, a Assignment) outcome {
		res, err := client.Signup(ctx, a.Activity, a.Email)
		return logOutcome(ctx, log, cfg.Verbose, "signup", a, res, err)
	})
	stats.SignupsAccepted = len(accepted)
	stats.SignupsRejected = len(assignments) - len(accepted) - failed
	stats.RequestsFailed += failed

	// Step 2: every accepted email is listed exactly once
	afterSignup, err := client.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("listing after sign-up failed: %w", err)
	}
	if err := verifySignedUp(initial, afterSignup, accepted); err != nil {
		return stats, fmt.Errorf("sign-up verification failed: %w", err)
	}
	log.Info(ctx, "sign-ups verified", logger.Int("accepted", stats.SignupsAccepted))

	// Step 3: a repeated sign-up is refused
	if len(accepted) > 0 {
		if err := probeDuplicate(ctx, client, accepted[0]); err != nil {
			return stats, fmt.Errorf("duplicate probe failed: %w", err)
		}
		log.Info(ctx, "duplicate sign-up rejected")
	}

	// Step 4: concurrent unregisters
	removed, failed := runPool(ctx, cfg, accepted, func(ctx context.Context, a Assignment) outcome {
		res, err := client.Unregister(ctx, a.Activity, a.Email)
		return logOutcome(ctx, log, cfg.Verbose, "unregister", a, res, err)
	})
	stats.Unregistered = len(removed)
	stats.UnregisterFails = len(accepted) - len(removed)
	stats.RequestsFailed += failed

	// Step 5: listing matches the starting point
	final, err := client.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("final listing failed: %w", err)
	}
	if err := verifyRestored(initial, final, assignments); err != nil {
		return stats, fmt.Errorf("restore verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	printSummary(ctx, log, stats)

	if stats.UnregisterFails > 0 {
		return stats, fmt.Errorf("%w: %d unregisters failed", ErrVerification, stats.UnregisterFails)
	}
	return stats, nil
}

// outcome classifies one request.
type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeRejected         // server answered with a non-200 status
	outcomeFailed           // transport or decode error
)

// runPool fans work out to cfg.Workers goroutines. It returns the
// assignments the server accepted, in input order, and the number of
// requests that failed without a usable response.
func runPool(ctx context.Context, cfg *Config, work []Assignment, fn func(context.Context, Assignment) outcome) ([]Assignment, int) {
	results := make([]outcome, len(work))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = fn(ctx, work[idx])
			}
		}()
	}

	for i := range work {
		select {
		case jobs <- i:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	out := make([]Assignment, 0, len(work))
	failed := 0
	for i, a := range work {
		switch results[i] {
		case outcomeAccepted:
			out = append(out, a)
		case outcomeFailed:
			failed++
		}
	}
	return out, failed
}

func logOutcome(ctx context.Context, log logger.Logger, verbose bool, op string, a Assignment, res Result, err error) outcome {
	fields := []logger.Field{
		logger.String("op", op),
		logger.String("activity", a.Activity),
		logger.String("email", a.Email),
	}
	if err != nil {
		log.Error(ctx, "request failed", append(fields, logger.Error(err))...)
		return outcomeFailed
	}
	fields = append(fields, logger.Int("status", res.Status))
	if res.Status != http.StatusOK {
		log.Warn(ctx, "request rejected", append(fields, logger.String("detail", res.Detail))...)
		return outcomeRejected
	}
	if verbose {
		log.Debug(ctx, "request accepted", append(fields, logger.String("message", res.Message))...)
	}
	return outcomeAccepted
}

func probeDuplicate(ctx context.Context, client *Client, a Assignment) error {
	res, err := client.Signup(ctx, a.Activity, a.Email)
	if err != nil {
		return err
	}
	if res.Status != http.StatusBadRequest || res.Detail != duplicateDetail {
		return errors.Join(ErrUnexpectedStatus,
			fmt.Errorf("repeat sign-up of %s returned %d %q", a.Email, res.Status, res.Detail))
	}
	return nil
}

func printSummary(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "sign-up check finished",
		logger.Int("activities", stats.Activities),
		logger.Int("signups_accepted", stats.SignupsAccepted),
		logger.Int("signups_rejected", stats.SignupsRejected),
		logger.Int("unregistered", stats.Unregistered),
		logger.Int("unregister_failures", stats.UnregisterFails),
		logger.Int("requests_failed", stats.RequestsFailed),
		logger.Duration("duration", stats.Duration))
}
