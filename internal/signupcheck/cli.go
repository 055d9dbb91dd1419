package signupcheck

import "os"

// ShowHelp prints usage information for the sign-up check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Activities Sign-up Check
========================

Drives a running activities server through concurrent sign-ups and
unregisters, then verifies the listing is consistent.

Usage:
  go run ./cmd/signup-check [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -users int
        Number of generated emails to sign up (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -format string
        Log format, text or json (default "text")
  -verbose
        Log every accepted request
  -help
        Show this help message

Examples:
  go run ./cmd/signup-check
  go run ./cmd/signup-check -users 1000 -workers 32 -url http://localhost:9000

Generated emails use the signup-check.invalid domain and are removed again
before the tool exits successfully.
`)
}
