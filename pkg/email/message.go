package email

import "errors"

var (
	// ErrNotConfigured is reported when no provider credentials are set.
	ErrNotConfigured = errors.New("email service not configured")
	// ErrEmptyResponse is reported when a provider accepts a request but returns no id.
	ErrEmptyResponse = errors.New("email provider returned no message id")
)

// Message is a fully composed notification. HTML is already escaped.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// DispatchResult reports the outcome of a send. Failures are values, never
// panics or returned errors.
type DispatchResult struct {
	Success       bool
	ID            string
	Error         string
	Attempts      int
	NotConfigured bool
}

func failed(err error, attempts int) DispatchResult {
	return DispatchResult{
		Error:         err.Error(),
		Attempts:      attempts,
		NotConfigured: errors.Is(err, ErrNotConfigured),
	}
}
