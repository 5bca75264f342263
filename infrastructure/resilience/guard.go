// Package resilience guards external tool calls using fortify circuit breakers.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
)

// ErrToolTripped indicates a tool is skipped after repeated failures.
var ErrToolTripped = errors.New("tool circuit open")

// GuardConfig configures the per-tool circuit breakers.
type GuardConfig struct {
	// Threshold is the number of consecutive failures before a tool is skipped.
	Threshold int

	// Cooldown is how long a tripped tool stays skipped.
	Cooldown time.Duration

	// Trips reports whether err counts toward the threshold. Nil counts
	// every error.
	Trips func(err error) bool
}

// DefaultGuardConfig trips on the first failure. Nothing is retried.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Threshold: 1,
		Cooldown:  30 * time.Second,
	}
}

// Guard holds one circuit breaker per external tool.
type Guard struct {
	config   GuardConfig
	mu       sync.RWMutex
	breakers map[string]circuitbreaker.CircuitBreaker[[]byte]
}

// NewGuard creates a guard.
func NewGuard(config GuardConfig) *Guard {
	if config.Threshold <= 0 {
		config.Threshold = 1
	}
	if config.Cooldown <= 0 {
		config.Cooldown = DefaultGuardConfig().Cooldown
	}
	return &Guard{
		config:   config,
		breakers: make(map[string]circuitbreaker.CircuitBreaker[[]byte]),
	}
}

// Run executes fn under the breaker for tool. When the breaker is open fn
// is not called and the error wraps ErrToolTripped.
func (g *Guard) Run(ctx context.Context, tool string, fn func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	breaker := g.breaker(tool)
	if breaker.State().String() == "open" {
		return nil, fmt.Errorf("%w: %s", ErrToolTripped, tool)
	}
	return breaker.Execute(ctx, fn)
}

// State returns the breaker state for a tool, or "unknown" before first use.
func (g *Guard) State(tool string) string {
	g.mu.RLock()
	breaker, exists := g.breakers[tool]
	g.mu.RUnlock()

	if !exists {
		return "unknown"
	}
	return breaker.State().String()
}

func (g *Guard) breaker(tool string) circuitbreaker.CircuitBreaker[[]byte] {
	g.mu.RLock()
	breaker, exists := g.breakers[tool]
	g.mu.RUnlock()

	if exists {
		return breaker
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if breaker, exists = g.breakers[tool]; exists {
		return breaker
	}

	threshold := g.config.Threshold
	trips := g.config.Trips
	breaker = circuitbreaker.New[[]byte](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    g.config.Cooldown,
		Timeout:     g.config.Cooldown,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- threshold is positive
		},
		IsSuccessful: func(err error) bool {
			return err == nil || (trips != nil && !trips(err))
		},
	})
	g.breakers[tool] = breaker
	return breaker
}
