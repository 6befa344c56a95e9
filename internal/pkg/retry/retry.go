package retry

import (
	"context"
	"errors"
	"time"

	pkghttp "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/pkg/http"
	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 1
	defaultMaxDelay = 2 * time.Second
	defaultDelay    = 100 * time.Millisecond
)

type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"1"`
	Delay    time.Duration `env:"DELAY" envDefault:"100ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	attempts := rc.Attempts
	if attempts == 0 {
		attempts = defaultAttempts
	}

	return []retry.Option{
		retry.Attempts(attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
	}
}

// Do runs fn with the configured policy, stopping when ctx is done.
func Do(ctx context.Context, rc *RetryConfig, fn func() error) error {
	opts := append(rc.ToRetryOptions(), retry.Context(ctx))
	return retry.Do(fn, opts...)
}

// IsTransient reports whether err is worth another attempt.
// Network failures and 5xx/429 responses are; everything else is not.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == 429
	}

	return false
}
