package telegram

import (
	"errors"
	"strings"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"
)

// Substring Telegram puts in the error description when MarkdownV2 entities
// in the message body cannot be parsed.
const parseEntitiesMarker = "can't parse entities"

// ClassifyDelivery turns a Telegram API call result into a DeliveryOutcome.
// A Bad Request whose description reports an entity-parsing failure is the
// single retriable case; it flags RequiresPlainFallback so the caller can
// resend the text without formatting. Any other error is a hard failure.
func ClassifyDelivery(msg *telego.Message, err error) DeliveryOutcome {
	if err == nil {
		outcome := DeliveryOutcome{Succeeded: true}
		if msg != nil {
			outcome.MessageID = msg.MessageID
		}
		return outcome
	}

	var apiErr *telegoapi.Error
	if errors.As(err, &apiErr) &&
		apiErr.ErrorCode == 400 &&
		strings.Contains(apiErr.Description, parseEntitiesMarker) {
		return DeliveryOutcome{RequiresPlainFallback: true}
	}

	return DeliveryOutcome{}
}
