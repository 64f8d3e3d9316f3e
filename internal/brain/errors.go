package brain

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Reason tags why a completion failed, so callers can pick the right
// user-facing fallback without parsing error strings.
type Reason string

const (
	ReasonMissingCredential Reason = "missing_credential"
	ReasonTimeout           Reason = "timeout"
	ReasonUpstreamStatus    Reason = "upstream_status"
	ReasonMalformed         Reason = "malformed_response"
	ReasonNetwork           Reason = "network"
)

// Error is the tagged failure surface of every adapter. Adapters never
// return any other error type from Complete or DescribeImage.
type Error struct {
	Reason Reason
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("brain %s: %s", e.Reason, e.Detail)
}

func newError(reason Reason, format string, args ...any) *Error {
	return &Error{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// classifyTransport maps generic transport failures onto tagged reasons.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(ReasonTimeout, "request deadline exceeded")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(ReasonTimeout, "%v", err)
	}
	return newError(ReasonNetwork, "%v", err)
}
