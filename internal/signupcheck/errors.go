package signupcheck

import "errors"

// Sentinel kinds for check failures.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrVerification     = errors.New("verification failed")
	ErrNoActivities     = errors.New("server lists no activities")
)
