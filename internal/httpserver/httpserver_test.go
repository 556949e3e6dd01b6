package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"todoflow/internal/middleware"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

type stubHandler struct {
	calls int
}

func (s *stubHandler) HandleWebhook(c *gin.Context) {
	s.calls++
	c.Status(http.StatusOK)
}

func (s *stubHandler) Drain() {}

func newTestServer(t *testing.T, secret string) (*HTTPServer, *stubHandler) {
	t.Helper()
	stub := &stubHandler{}
	srv, err := New(&mockLogger{}, Config{
		Port:            8080,
		Mode:            gin.TestMode,
		Environment:     "test",
		Middleware:      middleware.New(&mockLogger{}, secret, 0, 0),
		TelegramHandler: stub,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.mapHandlers(); err != nil {
		t.Fatalf("mapHandlers: %v", err)
	}
	return srv, stub
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, Config{Port: 8080, Mode: gin.TestMode}); err == nil {
		t.Error("expected an error without a logger")
	}
	if _, err := New(&mockLogger{}, Config{Mode: gin.TestMode}); err == nil {
		t.Error("expected an error without a port")
	}
	if _, err := New(&mockLogger{}, Config{Port: 8080}); err == nil {
		t.Error("expected an error without a mode")
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, "")

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.gin.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
			continue
		}

		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: invalid JSON body: %v", path, err)
		}
	}
}

func TestWebhookRouteGuarded(t *testing.T) {
	srv, stub := newTestServer(t, "hunter2")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", nil)
	srv.gin.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 without the secret header, got %d", w.Code)
	}
	if stub.calls != 0 {
		t.Errorf("handler should not run on rejected requests, got %d calls", stub.calls)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/webhook/telegram", nil)
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "hunter2")
	srv.gin.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with the secret header, got %d", w.Code)
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 handler call, got %d", stub.calls)
	}
}
