// Package bridge orchestrates the message lifecycle: decode an inbound
// webhook update, classify it, and drive the placeholder/edit/fallback
// sequence against the chat platform.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mymmrac/telego"

	"github.com/tgbridge/tgbridge/pkg/commands"
	"github.com/tgbridge/tgbridge/pkg/logger"
	"github.com/tgbridge/tgbridge/pkg/markdown"
	"github.com/tgbridge/tgbridge/pkg/telegram"
	"github.com/tgbridge/tgbridge/pkg/utils"
)

const (
	placeholderText  = "Processing your request..."
	accessDeniedText = "Access denied"
)

// Messenger is the outbound surface of the chat platform.
type Messenger interface {
	SendMessage(ctx context.Context, req telegram.SendRequest) (telegram.DeliveryOutcome, error)
	EditMessageText(ctx context.Context, req telegram.EditRequest) (telegram.DeliveryOutcome, error)
}

// Completer is the text-completion backend.
type Completer interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// CommandInterpreter handles slash-commands; an empty result means
// "send nothing".
type CommandInterpreter interface {
	Handle(chatID int64, text string) string
}

type Dispatcher struct {
	messenger Messenger
	completer Completer
	commands  CommandInterpreter
	adminID   int64
	staleness time.Duration
	now       func() time.Time
}

func NewDispatcher(messenger Messenger, completer Completer, interp CommandInterpreter, adminID int64, staleness time.Duration) *Dispatcher {
	if staleness <= 0 {
		staleness = 3 * time.Minute
	}
	return &Dispatcher{
		messenger: messenger,
		completer: completer,
		commands:  interp,
		adminID:   adminID,
		staleness: staleness,
		now:       time.Now,
	}
}

// HandleUpdate processes one raw webhook body. It only side-effects (sends
// and edits chat messages); the returned error classifies failures for the
// caller's logs and is never surfaced to the chat. Update kinds the relay
// does not handle are ignored without error.
func (d *Dispatcher) HandleUpdate(ctx context.Context, raw []byte) error {
	var update telego.Update
	if err := json.Unmarshal(raw, &update); err != nil {
		logger.ErrorCF("dispatcher", "Failed to decode update body", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %w", ErrMalformedUpdate, err)
	}

	inbound, ok, err := extractInbound(update)
	if err != nil {
		logger.ErrorCF("dispatcher", "Dropping malformed update", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	if !ok {
		logger.DebugC("dispatcher", "Ignoring non-text update")
		return nil
	}

	fields := map[string]interface{}{
		"correlation_id": uuid.NewString(),
		"chat_id":        inbound.ChatID,
		"sender_id":      inbound.SenderID,
		"preview":        utils.Truncate(inbound.Text, 50),
	}

	// Backlogged webhook replays produce confusing late answers; drop
	// anything older than the staleness window.
	if age := d.now().Sub(inbound.SentAt); age > d.staleness {
		fields["age"] = age.String()
		logger.InfoCF("dispatcher", "Dropping stale update", fields)
		return nil
	}

	if commands.IsCommand(inbound.Text) {
		return d.handleCommand(ctx, inbound, fields)
	}

	if inbound.SenderID != d.adminID {
		logger.WarnCF("dispatcher", "Unauthorized access attempt", fields)
		if _, err := d.messenger.SendMessage(ctx, telegram.SendRequest{
			ChatID: inbound.ChatID,
			Text:   accessDeniedText,
			Format: telegram.FormatNone,
		}); err != nil {
			logger.ErrorCF("dispatcher", "Failed to send denial message", withError(fields, err))
		}
		return nil
	}

	return d.handlePrompt(ctx, inbound, fields)
}

func (d *Dispatcher) handleCommand(ctx context.Context, inbound InboundUpdate, fields map[string]interface{}) error {
	response := d.commands.Handle(inbound.ChatID, inbound.Text)
	if response == "" {
		return nil
	}

	outcome, err := d.messenger.SendMessage(ctx, telegram.SendRequest{
		ChatID: inbound.ChatID,
		Text:   response,
		Format: telegram.FormatNone,
	})
	if !outcome.Succeeded {
		logger.ErrorCF("dispatcher", "Failed to send command response", withError(fields, err))
		return fmt.Errorf("%w: command response send", ErrDelivery)
	}
	return nil
}

func (d *Dispatcher) handlePrompt(ctx context.Context, inbound InboundUpdate, fields map[string]interface{}) error {
	logger.InfoCF("dispatcher", "Processing prompt", fields)

	placeholder, err := d.messenger.SendMessage(ctx, telegram.SendRequest{
		ChatID: inbound.ChatID,
		Text:   placeholderText,
		Format: telegram.FormatNone,
	})
	if !placeholder.Succeeded {
		// A chat that cannot receive replies gets no completion call.
		logger.ErrorCF("dispatcher", "Failed to send placeholder", withError(fields, err))
		return fmt.Errorf("%w: placeholder send", ErrDelivery)
	}

	reply, err := d.completer.Ask(ctx, inbound.Text)
	if err != nil {
		// The placeholder stays as-is; no error text goes to the chat.
		logger.ErrorCF("dispatcher", "Completion call failed", withError(fields, err))
		return fmt.Errorf("%w: %w", ErrBackend, err)
	}

	converted := markdown.Convert(reply)
	outcome, err := d.messenger.EditMessageText(ctx, telegram.EditRequest{
		ChatID:    inbound.ChatID,
		MessageID: placeholder.MessageID,
		Text:      converted,
		Format:    telegram.FormatMarkdown,
	})
	if outcome.Succeeded {
		logger.InfoCF("dispatcher", "Reply delivered", fields)
		return nil
	}

	if outcome.RequiresPlainFallback {
		logger.WarnCF("dispatcher", "Formatting rejected, retrying as plain text", fields)
		fallback, err := d.messenger.EditMessageText(ctx, telegram.EditRequest{
			ChatID:    inbound.ChatID,
			MessageID: placeholder.MessageID,
			Text:      reply,
			Format:    telegram.FormatNone,
		})
		if !fallback.Succeeded {
			logger.ErrorCF("dispatcher", "Plain-text fallback failed", withError(fields, err))
			return fmt.Errorf("%w: plain fallback edit", ErrDelivery)
		}
		logger.InfoCF("dispatcher", "Reply delivered without formatting", fields)
		return nil
	}

	logger.ErrorCF("dispatcher", "Failed to edit placeholder", withError(fields, err))
	return fmt.Errorf("%w: reply edit", ErrDelivery)
}

func withError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	if err != nil {
		out["error"] = err.Error()
	}
	return out
}
