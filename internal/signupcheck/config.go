// Package signupcheck drives a running activities server through concurrent
// sign-up and unregister rounds and verifies the listing afterwards.
package signupcheck

import "time"

// Config holds settings for one check run.
type Config struct {
	BaseURL string        // Base URL of the service
	Users   int           // Number of generated emails to sign up
	Workers int           // Number of concurrent HTTP workers
	Timeout time.Duration // Per-request timeout
	Verbose bool          // Log every request outcome
}

// Assignment pairs a generated email with the activity it signs up for.
type Assignment struct {
	Activity string
	Email    string
}

// Stats summarizes a run.
type Stats struct {
	Activities      int
	SignupsAccepted int
	SignupsRejected int
	Unregistered    int
	UnregisterFails int
	RequestsFailed  int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
