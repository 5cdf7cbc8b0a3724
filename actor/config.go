package actor

import "time"

// Config holds the knobs that size the worker pool and the default
// mailbox. It follows the teacher's utils.Config shape: a flat,
// JSON-tagged struct with a DefaultConfig() constructor and a
// FastConfig() variant sized for tests.
type Config struct {
	// Concurrency
	PoolWorkers int `json:"poolWorkers"` // max concurrent event-reaction executions

	// Mailbox
	DefaultMailboxCapacity int `json:"defaultMailboxCapacity"` // initial backing array capacity

	// Shutdown
	ShutdownPollPeriod time.Duration `json:"shutdownPollPeriod"` // poll interval while draining live actors
	ShutdownTimeout    time.Duration `json:"shutdownTimeout"`    // Pool.Shutdown gives up waiting after this
}

// DefaultConfig returns sane production defaults.
func DefaultConfig() Config {
	return Config{
		PoolWorkers:            64,
		DefaultMailboxCapacity: 8,
		ShutdownPollPeriod:     50 * time.Millisecond,
		ShutdownTimeout:        5 * time.Second,
	}
}

// FastConfig returns a configuration tuned for quick, deterministic
// tests: a small pool and a short shutdown timeout.
func FastConfig() Config {
	cfg := DefaultConfig()
	cfg.PoolWorkers = 4
	cfg.ShutdownPollPeriod = 2 * time.Millisecond
	cfg.ShutdownTimeout = 500 * time.Millisecond
	return cfg
}
