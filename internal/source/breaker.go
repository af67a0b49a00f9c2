package source

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/rshade/cvdesk/internal/record"
	"github.com/rshade/cvdesk/internal/view"
)

// BreakerSettings configures WithCircuitBreaker.
type BreakerSettings struct {
	// Name labels the breaker in logs.
	Name string
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before letting one trial request through.
	OpenTimeout time.Duration
	Logger      *zerolog.Logger
}

// DefaultBreakerSettings returns the settings used when the breaker is enabled
// without further configuration.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:        "cv-source",
		MaxFailures: 3,
		OpenTimeout: 30 * time.Second,
	}
}

// WithCircuitBreaker wraps f so that after MaxFailures consecutive failures
// further calls fail fast with a FetchError{Op: "breaker"} until OpenTimeout
// elapses. Cancelled fetches are not counted as failures.
func WithCircuitBreaker(f view.Fetcher, s BreakerSettings) view.Fetcher {
	def := DefaultBreakerSettings()
	if s.Name == "" {
		s.Name = def.Name
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = def.MaxFailures
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = def.OpenTimeout
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if s.Logger == nil {
				return
			}
			s.Logger.Warn().
				Str("component", "source").
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return func(ctx context.Context) ([]record.Record, error) {
		out, err := cb.Execute(func() (interface{}, error) {
			return f(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, &FetchError{Op: "breaker", URL: s.Name, Err: err}
			}
			return nil, err
		}
		records, _ := out.([]record.Record)
		return records, nil
	}
}

// CircuitBreaker adapts WithCircuitBreaker for view.WithMiddleware.
func CircuitBreaker(s BreakerSettings) view.Middleware {
	return func(next view.Fetcher) view.Fetcher {
		return WithCircuitBreaker(next, s)
	}
}
