package bridge

import (
	"fmt"
	"time"

	"github.com/mymmrac/telego"
)

// InboundUpdate is the normalized view of one webhook delivery, constructed
// once per call from untrusted JSON and immutable afterwards.
type InboundUpdate struct {
	ChatID   int64
	SenderID int64
	Text     string
	SentAt   time.Time
}

// extractInbound pulls the relay-relevant fields out of a decoded update.
// ok is false for update kinds the relay ignores (no message, or a message
// that carries no text). A text message missing its chat, sender, or
// timestamp is malformed rather than ignorable.
func extractInbound(update telego.Update) (inbound InboundUpdate, ok bool, err error) {
	msg := update.Message
	if msg == nil {
		return InboundUpdate{}, false, nil
	}
	if msg.Text == "" {
		return InboundUpdate{}, false, nil
	}
	if msg.Chat.ID == 0 {
		return InboundUpdate{}, false, fmt.Errorf("%w: message.chat.id missing", ErrMalformedUpdate)
	}
	if msg.From == nil {
		return InboundUpdate{}, false, fmt.Errorf("%w: message.from missing", ErrMalformedUpdate)
	}
	if msg.Date == 0 {
		return InboundUpdate{}, false, fmt.Errorf("%w: message.date missing", ErrMalformedUpdate)
	}

	return InboundUpdate{
		ChatID:   msg.Chat.ID,
		SenderID: msg.From.ID,
		Text:     msg.Text,
		SentAt:   time.Unix(msg.Date, 0),
	}, true, nil
}
