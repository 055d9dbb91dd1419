package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/activities/internal/signupcheck"
	"github.com/okian/activities/pkg/logger"
)

// Default configuration constants.
const (
	defaultUsers        = 100
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultCheckTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8000", "Base URL of the service")
		users   = flag.Int("users", defaultUsers, "Number of generated emails to sign up")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		format  = flag.String("format", logger.FormatText, "Log format (text or json)")
		verbose = flag.Bool("verbose", false, "Log every accepted request")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		signupcheck.ShowHelp()
		return
	}

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultCheckTimeout)
	defer cancel()

	cfg := &signupcheck.Config{
		BaseURL: *baseURL,
		Users:   *users,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if _, err := signupcheck.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Check failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
