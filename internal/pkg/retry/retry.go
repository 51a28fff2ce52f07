package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 1
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 5 * time.Second
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"1"`
	Delay    time.Duration `env:"DELAY" envDefault:"500ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"5s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.LastErrorOnly(true),
	}
}

// Do runs fn under the config. Errors rejected by retryable are returned immediately.
func Do[T any](ctx context.Context, rc *RetryConfig, retryable func(error) bool, fn func() (T, error)) (T, error) {
	opts := append(rc.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(retryable),
	)
	return retry.DoWithData(fn, opts...)
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}
