// Package adapter holds what the remote-service adapters share: the error
// kind every failure collapses to, and the circuit breaker settings.
//
// Adapters wrap opaque remote services behind a fixed success/failure
// contract. Callers never see transport details: any network, decode or
// provider problem is ErrUnavailable, which the dispatcher converts into a
// canned reply. The breaker stops a dead provider from stalling every
// catch-all exchange behind a full network timeout.
package adapter

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrUnavailable is the single failure kind adapters surface.
var ErrUnavailable = errors.New("remote service unavailable")

// NewBreaker returns the circuit breaker used by all adapters: trip after
// five consecutive failures, probe again after thirty seconds.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("adapter breaker state change", "adapter", name, "from", from.String(), "to", to.String())
		},
	})
}
