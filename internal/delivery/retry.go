package delivery

import (
	"errors"
	"net/http"
	"time"

	twclient "github.com/twilio/twilio-go/client"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Second
)

// withRetry runs op up to maxAttempts times with a fixed sleep between
// tries. A non-retryable error stops the loop immediately.
func withRetry[T any](maxAttempts int, delay time.Duration, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
		}
		v, err := op()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return zero, lastErr
}

// retryable reports whether an error is worth another attempt. Twilio REST
// errors retry only on rate limiting and server faults; a malformed request
// (bad recipient and the like) will not get better on retry. Transport
// errors retry.
func retryable(err error) bool {
	var restErr *twclient.TwilioRestError
	if errors.As(err, &restErr) {
		return restErr.Status == http.StatusTooManyRequests || restErr.Status >= 500
	}
	return true
}
