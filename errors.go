package askimage

import (
	"errors"
	"fmt"
)

// Admission sentinels. The message of each one is the user-facing rejection
// reason surfaced by the caller.
var (
	ErrMinuteRequestLimit = errors.New("per-minute request limit exceeded")
	ErrDailyRequestLimit  = errors.New("daily request limit exceeded")
	ErrMinuteTokenLimit   = errors.New("per-minute token limit exceeded")
	ErrDailyTokenLimit    = errors.New("daily token limit exceeded")
	ErrPerRequestLimit    = errors.New("request exceeds per-request token limit")
)

// Provider sentinels, mapped from upstream HTTP responses by the adapters.
var (
	ErrRateLimited         = errors.New("askimage: rate limited by provider")
	ErrAuthFailed          = errors.New("askimage: authentication failed")
	ErrInvalidRequest      = errors.New("askimage: invalid request")
	ErrProviderUnavailable = errors.New("askimage: provider unavailable")
)

// LimitError is an admission rejection. It wraps one of the admission
// sentinels together with the counter state that triggered it. A rejection
// is an expected outcome, not a fault: the caller surfaces Reason and skips
// the provider call for this attempt.
type LimitError struct {
	Err       error
	Estimated int64 // estimated tokens for the rejected request
	Used      int64 // counter value at the time of the check
	Limit     int64 // configured cap for that counter
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("askimage: %v (used %d, limit %d, estimated %d)",
		e.Err, e.Used, e.Limit, e.Estimated)
}

func (e *LimitError) Unwrap() error {
	return e.Err
}

// Reason returns the user-facing rejection reason for err, or "" if err is
// not an admission rejection.
func Reason(err error) string {
	var le *LimitError
	if errors.As(err, &le) {
		return le.Err.Error()
	}
	return ""
}

// IsLimit returns true if err is an admission rejection.
func IsLimit(err error) bool {
	var le *LimitError
	return errors.As(err, &le)
}
