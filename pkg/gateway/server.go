// Package gateway hosts the inbound webhook endpoint. It always answers 200
// so the chat platform never builds a retry backlog, regardless of what the
// dispatcher made of the payload.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tgbridge/tgbridge/pkg/config"
	"github.com/tgbridge/tgbridge/pkg/logger"
	"github.com/tgbridge/tgbridge/pkg/telegram"
)

const maxBodyBytes = 1 << 20 // 1 MB

// UpdateHandler processes one raw webhook body.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, raw []byte) error
}

type Server struct {
	httpServer *http.Server
	handler    UpdateHandler
}

func NewServer(cfg config.GatewayConfig, handler UpdateHandler) *Server {
	s := &Server{handler: handler}

	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodPost+" "+telegram.WebhookPath, s.handleWebhook)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: mux,
	}
	return s
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks serving webhook calls until Shutdown is called.
func (s *Server) Start() error {
	logger.InfoCF("gateway", "Listening for webhook updates", map[string]interface{}{
		"addr": s.httpServer.Addr,
		"path": telegram.WebhookPath,
	})

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("gateway server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		logger.ErrorCF("gateway", "Failed to read webhook body", map[string]interface{}{
			"error": err.Error(),
		})
		w.WriteHeader(http.StatusOK)
		return
	}

	// Errors are logged by the dispatcher; the platform still gets a 200.
	_ = s.handler.HandleUpdate(r.Context(), body)

	w.WriteHeader(http.StatusOK)
}
