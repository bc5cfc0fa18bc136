package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// RequestError is a typed backend failure. StatusCode is zero when the
// failure never reached an HTTP status (transport errors, malformed
// responses).
type RequestError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// statusOverloaded is the overload status some providers return instead of
// 429 or 503.
const statusOverloaded = 529

// IsRetryable reports whether err is a transient failure worth retrying:
// a rate-limit or overload status, or a transient network error. Everything
// else, including cancellation, is permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, statusOverloaded:
			return true
		}
	}

	// Timeouts cover request deadlines too: url.Error and
	// context.DeadlineExceeded both report Timeout().
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	// Errors that crossed a provider SDK may arrive stringly.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "connection reset")
}
