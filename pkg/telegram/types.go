package telegram

// FormatMode selects how the chat platform interprets an outbound message
// body. There are exactly two modes: plain text, or Telegram's strict
// MarkdownV2 entity parser.
type FormatMode int

const (
	FormatNone FormatMode = iota
	FormatMarkdown
)

// SendRequest is an outbound "send message" call.
type SendRequest struct {
	ChatID int64
	Text   string
	Format FormatMode
}

// EditRequest is an outbound "edit message text" call. MessageID must come
// from a send performed earlier in the same request's lifecycle.
type EditRequest struct {
	ChatID    int64
	MessageID int
	Text      string
	Format    FormatMode
}

// DeliveryOutcome is the normalized result of a send or edit call.
// RequiresPlainFallback is set only when Telegram rejected the request
// because the escaped markup could not be parsed; every other failure mode
// leaves both flags false.
type DeliveryOutcome struct {
	Succeeded             bool
	MessageID             int
	RequiresPlainFallback bool
}
