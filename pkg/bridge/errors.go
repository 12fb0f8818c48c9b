package bridge

import "errors"

// Failure taxonomy for update processing. Stale and unauthorized updates are
// handled outcomes, not failures; they never surface as errors.
var (
	// ErrMalformedUpdate marks an update whose message lacks required
	// fields (sender, timestamp). Logged and dropped, never echoed to chat.
	ErrMalformedUpdate = errors.New("malformed update")

	// ErrBackend marks a failed completion call. The placeholder message
	// is left in place; no error text is sent to the chat.
	ErrBackend = errors.New("completion backend failure")

	// ErrDelivery marks a send or edit that failed for any reason other
	// than the retriable formatting rejection.
	ErrDelivery = errors.New("message delivery failure")
)
