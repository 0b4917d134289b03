package query

import "time"

const (
	DefaultRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
)

// Options configure a query. The zero value never retries and never refetches on events.
type Options struct {
	// Retry is the number of extra attempts after a failed fetch
	Retry int
	// RetryDelay is the base of the exponential delay between attempts
	RetryDelay time.Duration
	// ShouldRetry filters which errors are retried. Nil retries every error.
	ShouldRetry func(error) bool

	RefetchOnMount     bool
	RefetchOnFocus     bool
	RefetchOnReconnect bool
}

func (o Options) retryDelay(attempt int) time.Duration {
	base := o.RetryDelay
	if base <= 0 {
		base = DefaultRetryDelay
	}
	d := base << attempt
	if d <= 0 || d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}

func (o Options) shouldRetry(err error) bool {
	if o.ShouldRetry == nil {
		return true
	}
	return o.ShouldRetry(err)
}
