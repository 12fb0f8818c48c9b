package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/tgbridge/tgbridge/pkg/logger"
)

// WebhookPath is the inbound update endpoint served by the gateway.
const WebhookPath = "/webhook"

// RegisterWebhook points the bot's webhook at publicURL + WebhookPath.
func (c *Client) RegisterWebhook(ctx context.Context, publicURL string) error {
	webhookURL := strings.TrimRight(publicURL, "/") + WebhookPath

	if err := c.bot.SetWebhook(ctx, &telego.SetWebhookParams{URL: webhookURL}); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	logger.InfoCF("telegram", "Webhook registered", map[string]interface{}{
		"url": webhookURL,
	})
	return nil
}
