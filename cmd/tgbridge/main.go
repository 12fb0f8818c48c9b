package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tgbridge/tgbridge/pkg/bridge"
	"github.com/tgbridge/tgbridge/pkg/commands"
	"github.com/tgbridge/tgbridge/pkg/completion"
	"github.com/tgbridge/tgbridge/pkg/config"
	"github.com/tgbridge/tgbridge/pkg/gateway"
	"github.com/tgbridge/tgbridge/pkg/logger"
	"github.com/tgbridge/tgbridge/pkg/telegram"
	"github.com/tgbridge/tgbridge/pkg/tunnel"
)

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".tgbridge", "config.json")
}

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		logger.SetLevel(logger.DEBUG)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.FatalCF("main", "Failed to load config", map[string]interface{}{
			"path":  *configPath,
			"error": err.Error(),
		})
	}

	if cfg.Logging.FileEnabled {
		if err := logger.EnableFileLogging(cfg.LogFilePath()); err != nil {
			logger.WarnCF("main", "File logging unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	if cfg.Telegram.Token == "" {
		logger.FatalC("main", "Telegram token is not configured")
	}
	if cfg.Telegram.AdminID == 0 {
		logger.WarnC("main", "No admin_id configured; every prompt will be denied")
	}

	tg, err := telegram.NewClient(cfg.Telegram)
	if err != nil {
		logger.FatalCF("main", "Failed to create telegram client", map[string]interface{}{
			"error": err.Error(),
		})
	}

	completer := completion.NewClient(cfg.OpenAI, cfg.CompletionTimeout())
	interpreter := commands.NewInterpreter(cfg.Telegram.AdminUsername)
	dispatcher := bridge.NewDispatcher(tg, completer, interpreter, cfg.Telegram.AdminID, cfg.StalenessWindow())
	server := gateway.NewServer(cfg.Gateway, dispatcher)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.AutoWebhook {
		lt := &tunnel.LocalTunnel{}
		publicURL, err := lt.AcquirePublicURL(ctx, cfg.Gateway.Port)
		if err != nil {
			logger.FatalCF("main", "Failed to open tunnel", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer lt.Close()

		if err := tg.RegisterWebhook(ctx, publicURL); err != nil {
			logger.FatalCF("main", "Failed to register webhook", map[string]interface{}{
				"url":   publicURL,
				"error": err.Error(),
			})
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.InfoC("main", "Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorCF("main", "Gateway shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	case err := <-errCh:
		if err != nil {
			logger.FatalCF("main", "Gateway failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
