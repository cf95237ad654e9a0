package domain

import (
	"anduber-forms-backend/pkg/email"
	"anduber-forms-backend/pkg/validation"
	"context"
)

// FieldError is a single {field, message} validation failure.
type FieldError = validation.FieldError

// OutcomeKind enumerates every way a submission can end.
type OutcomeKind int

const (
	OutcomeDelivered OutcomeKind = iota
	OutcomeSilentlyDropped
	OutcomeRejected
	OutcomeDispatchFailed
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeSilentlyDropped:
		return "dropped"
	case OutcomeRejected:
		return "rejected"
	case OutcomeDispatchFailed:
		return "dispatch_failed"
	case OutcomeFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of running a submission through the pipeline.
// Only the fields relevant to Kind are set.
type Outcome struct {
	Kind     OutcomeKind
	Reason   string               // SilentlyDropped
	Errors   []FieldError         // Rejected
	Dispatch email.DispatchResult // Delivered, DispatchFailed
	Err      error                // Failed
}

func Delivered(res email.DispatchResult) Outcome {
	return Outcome{Kind: OutcomeDelivered, Dispatch: res}
}

// SilentlyDropped answers a bot as if it had succeeded.
func SilentlyDropped(reason string) Outcome {
	return Outcome{Kind: OutcomeSilentlyDropped, Reason: reason}
}

func Rejected(errs []FieldError) Outcome {
	return Outcome{Kind: OutcomeRejected, Errors: errs}
}

func DispatchFailed(res email.DispatchResult) Outcome {
	return Outcome{Kind: OutcomeDispatchFailed, Dispatch: res}
}

func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: err}
}

// SubmissionMeta carries request context the pipeline logs with.
type SubmissionMeta struct {
	ClientID  string
	RequestID string
	UserAgent string
}

// Notifier delivers composed notifications.
type Notifier interface {
	IsConfigured() bool
	Send(ctx context.Context, msg email.Message) email.DispatchResult
}
