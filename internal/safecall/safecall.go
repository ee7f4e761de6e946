// Package safecall runs a network operation once and folds any failure into an Outcome
// carrying a user-facing message. Nothing raised by the operation escapes Run.
package safecall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// Cause classifies why an operation failed.
type Cause int

const (
	CauseNone Cause = iota
	CauseHTTP
	CauseConnectivity
	CauseUnknown
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseHTTP:
		return "http"
	case CauseConnectivity:
		return "connectivity"
	default:
		return "unknown"
	}
}

// ConnectivityMessage is shown whenever the server could not be reached.
const ConnectivityMessage = "No internet connection or server unavailable"

// StatusError is implemented by errors that carry an HTTP status.
type StatusError interface {
	error
	StatusCode() int
	StatusReason() string
}

// Outcome is either a success holding Value or a failure holding Message and Cause.
type Outcome[T any] struct {
	Value   T
	Err     error
	Message string
	Cause   Cause
}

func (o Outcome[T]) OK() bool { return o.Cause == CauseNone }

func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failure classifies err into a failed Outcome.
func Failure[T any](err error) Outcome[T] {
	cause, msg := Classify(err)
	return Outcome[T]{Err: err, Message: msg, Cause: cause}
}

// Run executes op exactly once. Panics are recovered and reported as unknown failures.
func Run[T any](ctx context.Context, op func(context.Context) (T, error)) (out Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = Failure[T](fmt.Errorf("panic: %v", r))
		}
	}()

	v, err := op(ctx)
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// Classify maps an error to its cause and user-facing message.
func Classify(err error) (Cause, string) {
	if err == nil {
		return CauseNone, ""
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return CauseHTTP, fmt.Sprintf("HTTP error %d: %s", statusErr.StatusCode(), statusErr.StatusReason())
	}
	if isConnectivity(err) {
		return CauseConnectivity, ConnectivityMessage
	}
	return CauseUnknown, "Error: " + err.Error()
}

func isConnectivity(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	// *url.Error and *net.OpError both satisfy net.Error.
	var netErr net.Error
	return errors.As(err, &netErr)
}
