package gateway

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tgbridge/tgbridge/pkg/config"
	"github.com/tgbridge/tgbridge/pkg/telegram"
)

type fakeHandler struct {
	bodies [][]byte
	err    error
}

func (h *fakeHandler) HandleUpdate(_ context.Context, raw []byte) error {
	h.bodies = append(h.bodies, raw)
	return h.err
}

func serveWebhook(t *testing.T, handler *fakeHandler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	s := NewServer(config.GatewayConfig{Host: "127.0.0.1", Port: 0}, handler)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleWebhook_PassesBodyAndAnswers200(t *testing.T) {
	handler := &fakeHandler{}

	rec := serveWebhook(t, handler, http.MethodPost, telegram.WebhookPath, `{"update_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if len(handler.bodies) != 1 || string(handler.bodies[0]) != `{"update_id":1}` {
		t.Fatalf("bodies=%q", handler.bodies)
	}
}

func TestHandleWebhook_Answers200OnHandlerError(t *testing.T) {
	handler := &fakeHandler{err: errors.New("dispatch failed")}

	rec := serveWebhook(t, handler, http.MethodPost, telegram.WebhookPath, `{"update_id":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200 despite handler error", rec.Code)
	}
}

func TestHandleWebhook_RejectsOtherMethods(t *testing.T) {
	handler := &fakeHandler{}

	rec := serveWebhook(t, handler, http.MethodGet, telegram.WebhookPath, "")
	if rec.Code == http.StatusOK {
		t.Fatalf("status=%d, GET must not reach the handler", rec.Code)
	}
	if len(handler.bodies) != 0 {
		t.Fatal("handler called for GET request")
	}
}

func TestHandleWebhook_UnknownPath(t *testing.T) {
	handler := &fakeHandler{}

	rec := serveWebhook(t, handler, http.MethodPost, "/other", "{}")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want 404", rec.Code)
	}
}

func TestHandleWebhook_BodyLimit(t *testing.T) {
	handler := &fakeHandler{}
	oversized := bytes.Repeat([]byte("a"), maxBodyBytes+1024)

	rec := serveWebhook(t, handler, http.MethodPost, telegram.WebhookPath, string(oversized))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if len(handler.bodies) != 1 || len(handler.bodies[0]) != maxBodyBytes {
		t.Fatalf("body length=%d want %d", len(handler.bodies[0]), maxBodyBytes)
	}
}

func TestAddr(t *testing.T) {
	s := NewServer(config.GatewayConfig{Host: "0.0.0.0", Port: 18790}, &fakeHandler{})
	if s.Addr() != "0.0.0.0:18790" {
		t.Fatalf("Addr()=%q", s.Addr())
	}
}
