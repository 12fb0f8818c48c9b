// Package commands recognizes slash-commands in inbound chat text and maps
// them to canned responses. It is stateless and makes no network calls;
// unauthenticated users only ever see these responses.
package commands

import (
	"fmt"
	"strings"

	"github.com/tgbridge/tgbridge/pkg/logger"
)

type Interpreter struct {
	adminUsername string
}

func NewInterpreter(adminUsername string) *Interpreter {
	return &Interpreter{adminUsername: adminUsername}
}

// IsCommand reports whether text should be routed to the interpreter.
func IsCommand(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return strings.HasPrefix(text, "/")
}

// Handle dispatches a slash-command and returns the response text. An empty
// result means "send nothing". Internal failures never escape: they are
// logged and collapse to an empty result.
func (i *Interpreter) Handle(chatID int64, text string) (response string) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCF("commands", "Command handler failure", map[string]interface{}{
				"chat_id": chatID,
				"text":    text,
				"error":   fmt.Sprintf("%v", r),
			})
			response = ""
		}
	}()

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return ""
	}
	name := strings.ToLower(parts[0])

	logger.InfoCF("commands", "Executing command", map[string]interface{}{
		"command": name,
		"chat_id": chatID,
	})

	switch name {
	case "/start", "/help":
		return i.startResponse()
	case "/id":
		return fmt.Sprintf("chat_id=%d", chatID)
	default:
		return "Unknown command"
	}
}

func (i *Interpreter) startResponse() string {
	handle := strings.TrimPrefix(i.adminUsername, "@")
	return fmt.Sprintf("Please contact @%s for access", handle)
}
