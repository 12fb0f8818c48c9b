// Package telegram wraps the Telegram Bot API for the relay: typed send and
// edit requests, delivery-outcome classification, and webhook registration.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/tgbridge/tgbridge/pkg/config"
)

type Client struct {
	bot *telego.Bot
}

func NewClient(cfg config.TelegramConfig) (*Client, error) {
	var opts []telego.BotOption

	if cfg.Proxy != "" {
		proxyURL, parseErr := url.Parse(cfg.Proxy)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.Proxy, parseErr)
		}
		opts = append(opts, telego.WithHTTPClient(&http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyURL(proxyURL),
			},
		}))
	}

	bot, err := telego.NewBot(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Client{bot: bot}, nil
}

func (c *Client) Bot() *telego.Bot {
	return c.bot
}

// SendMessage sends a new message and classifies the result. The returned
// error carries the underlying failure for logging; the outcome is what
// callers branch on.
func (c *Client) SendMessage(ctx context.Context, req SendRequest) (DeliveryOutcome, error) {
	params := tu.Message(tu.ID(req.ChatID), req.Text)
	params.ParseMode = parseMode(req.Format)

	msg, err := c.bot.SendMessage(ctx, params)
	return ClassifyDelivery(msg, err), err
}

// EditMessageText edits a previously sent message and classifies the result.
func (c *Client) EditMessageText(ctx context.Context, req EditRequest) (DeliveryOutcome, error) {
	params := tu.EditMessageText(tu.ID(req.ChatID), req.MessageID, req.Text)
	params.ParseMode = parseMode(req.Format)

	msg, err := c.bot.EditMessageText(ctx, params)
	return ClassifyDelivery(msg, err), err
}

func parseMode(mode FormatMode) string {
	if mode == FormatMarkdown {
		return telego.ModeMarkdownV2
	}
	return ""
}
