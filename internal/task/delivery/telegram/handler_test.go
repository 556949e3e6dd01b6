package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"todoflow/internal/model"
	"todoflow/internal/task"
	pkgTelegram "todoflow/pkg/telegram"
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

type mockUseCase struct {
	mu sync.Mutex

	textOut task.ProcessOutput

	lastScope   model.Scope
	lastText    task.ProcessTextInput
	lastImage   task.ProcessImageInput
	lastConfirm task.ConfirmInput

	textCalls    int
	imageCalls   int
	confirmCalls int
}

func (m *mockUseCase) ProcessText(ctx context.Context, sc model.Scope, input task.ProcessTextInput) (task.ProcessOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textCalls++
	m.lastScope = sc
	m.lastText = input
	return m.textOut, nil
}

func (m *mockUseCase) ProcessImage(ctx context.Context, sc model.Scope, input task.ProcessImageInput) (task.ProcessOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageCalls++
	m.lastScope = sc
	m.lastImage = input
	return task.ProcessOutput{Reply: "image handled"}, nil
}

func (m *mockUseCase) ConfirmDecomposition(ctx context.Context, sc model.Scope, input task.ConfirmInput) (task.ProcessOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmCalls++
	m.lastScope = sc
	m.lastConfirm = input
	return task.ProcessOutput{Reply: "confirmed " + string(input.Choice)}, nil
}

// fakeTelegram records every Bot API call made by the handler.
type fakeTelegram struct {
	mu sync.Mutex

	sent     []pkgTelegram.SendMessageRequest
	edits    []pkgTelegram.EditMessageTextRequest
	answered []string
}

func (f *fakeTelegram) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var req pkgTelegram.SendMessageRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.sent = append(f.sent, req)
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":777,"chat":{"id":100}}}`))

		case strings.HasSuffix(r.URL.Path, "/editMessageText"):
			var req pkgTelegram.EditMessageTextRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.edits = append(f.edits, req)
			_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))

		case strings.HasSuffix(r.URL.Path, "/answerCallbackQuery"):
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.answered = append(f.answered, req["callback_query_id"])
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))

		case strings.HasSuffix(r.URL.Path, "/getFile"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"file_id":"photo-1","file_path":"photos/file_1.jpg"}}`))

		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
		}
	}
}

func newTestHandler(t *testing.T, uc *mockUseCase) (*handler, *fakeTelegram) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := &fakeTelegram{}
	api := httptest.NewServer(fake.handler())
	t.Cleanup(api.Close)
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	t.Cleanup(files.Close)

	bot := pkgTelegram.NewBot("test-token")
	bot.SetAPIURL(api.URL)
	bot.SetFileAPIURL(files.URL)

	return New(&mockLogger{}, uc, bot, Options{ProcessTimeout: 5 * time.Second}), fake
}

func postUpdate(t *testing.T, h *handler, update interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(update)
	if err != nil {
		t.Fatalf("failed to marshal update: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")

	h.HandleWebhook(c)
	h.Drain()
	return w
}

func textUpdate(text string) pkgTelegram.Update {
	return pkgTelegram.Update{
		UpdateID: 1,
		Message: &pkgTelegram.Message{
			MessageID: 10,
			From:      &pkgTelegram.User{ID: 42},
			Chat:      &pkgTelegram.Chat{ID: 100},
			Text:      text,
		},
	}
}

func TestWebhookTextMessage(t *testing.T) {
	uc := &mockUseCase{textOut: task.ProcessOutput{Reply: "✅ Created \"x\""}}
	h, fake := newTestHandler(t, uc)

	w := postUpdate(t, h, textUpdate("create x"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if uc.textCalls != 1 || uc.lastText.Text != "create x" {
		t.Errorf("unexpected use case input: %+v", uc.lastText)
	}
	if uc.lastScope.UserID != "42" || uc.lastScope.ChatID != 100 {
		t.Errorf("unexpected scope: %+v", uc.lastScope)
	}
	if len(fake.sent) != 1 || fake.sent[0].Text != "✅ Created \"x\"" || fake.sent[0].ChatID != 100 {
		t.Errorf("unexpected outgoing message: %+v", fake.sent)
	}
}

func TestWebhookDecompositionKeyboardRoundTrip(t *testing.T) {
	dec := &model.DecompositionResult{
		Original: model.ActionDraft{Action: model.ActionCreate, Title: "big plan"},
		Subtasks: []model.SubtaskDraft{
			{Title: "step 1", DueDate: "2026-03-12", Priority: 1},
			{Title: "step 2", DueDate: "2026-03-14", Priority: 3},
		},
	}
	uc := &mockUseCase{textOut: task.ProcessOutput{Pending: dec}}
	h, fake := newTestHandler(t, uc)

	postUpdate(t, h, textUpdate("plan something big"))

	if len(fake.sent) != 1 {
		t.Fatalf("expected one keyboard message, got %d", len(fake.sent))
	}
	offer := fake.sent[0]
	if !strings.Contains(offer.Text, "🔴 1. step 1 (📅 2026-03-12)") {
		t.Errorf("expected plan summary in message, got %q", offer.Text)
	}
	if !strings.Contains(offer.Text, "🟡 2. step 2 (📅 2026-03-14)") {
		t.Errorf("expected priority markers per subtask, got %q", offer.Text)
	}
	if offer.ReplyMarkup == nil || len(offer.ReplyMarkup.InlineKeyboard) != 2 {
		t.Fatalf("expected a two-row keyboard, got %+v", offer.ReplyMarkup)
	}

	// Press "create all" and check the plan reaches the use case intact.
	allData := offer.ReplyMarkup.InlineKeyboard[0][0].CallbackData
	postUpdate(t, h, pkgTelegram.Update{
		UpdateID: 2,
		CallbackQuery: &pkgTelegram.CallbackQuery{
			ID:      "cb-1",
			From:    &pkgTelegram.User{ID: 42},
			Message: &pkgTelegram.Message{MessageID: 777, Chat: &pkgTelegram.Chat{ID: 100}},
			Data:    allData,
		},
	})

	if uc.confirmCalls != 1 || uc.lastConfirm.Choice != task.ConfirmAll {
		t.Fatalf("unexpected confirm input: %+v", uc.lastConfirm)
	}
	if len(uc.lastConfirm.Decomposition.Subtasks) != 2 {
		t.Errorf("expected the stored plan passed through, got %+v", uc.lastConfirm.Decomposition)
	}
	if len(fake.answered) != 1 || fake.answered[0] != "cb-1" {
		t.Errorf("expected the callback acknowledged, got %v", fake.answered)
	}
	if len(fake.edits) != 1 || fake.edits[0].Text != "confirmed all" || fake.edits[0].MessageID != 777 {
		t.Errorf("expected the offer message edited, got %+v", fake.edits)
	}
}

func TestWebhookCallbackSessionSingleUse(t *testing.T) {
	dec := &model.DecompositionResult{Subtasks: []model.SubtaskDraft{{Title: "a"}, {Title: "b"}}}
	uc := &mockUseCase{textOut: task.ProcessOutput{Pending: dec}}
	h, fake := newTestHandler(t, uc)

	postUpdate(t, h, textUpdate("plan"))
	data := fake.sent[0].ReplyMarkup.InlineKeyboard[1][0].CallbackData

	callback := pkgTelegram.Update{
		CallbackQuery: &pkgTelegram.CallbackQuery{
			ID:      "cb-1",
			Message: &pkgTelegram.Message{MessageID: 777, Chat: &pkgTelegram.Chat{ID: 100}},
			Data:    data,
		},
	}
	postUpdate(t, h, callback)
	postUpdate(t, h, callback)

	if uc.confirmCalls != 1 {
		t.Errorf("expected exactly one confirmation, got %d", uc.confirmCalls)
	}
	if len(fake.edits) != 2 || fake.edits[1].Text != replySessionStale {
		t.Errorf("expected the second press to report a stale session, got %+v", fake.edits)
	}
}

func TestWebhookStaleCallback(t *testing.T) {
	uc := &mockUseCase{}
	h, fake := newTestHandler(t, uc)

	postUpdate(t, h, pkgTelegram.Update{
		CallbackQuery: &pkgTelegram.CallbackQuery{
			ID:      "cb-9",
			Message: &pkgTelegram.Message{MessageID: 5, Chat: &pkgTelegram.Chat{ID: 100}},
			Data:    "dec:all:long-gone",
		},
	})

	if uc.confirmCalls != 0 {
		t.Error("expected no confirmation for an unknown session")
	}
	if len(fake.edits) != 1 || fake.edits[0].Text != replySessionStale {
		t.Errorf("expected a stale-session edit, got %+v", fake.edits)
	}
}

func TestWebhookPhotoMessage(t *testing.T) {
	uc := &mockUseCase{}
	h, fake := newTestHandler(t, uc)

	postUpdate(t, h, pkgTelegram.Update{
		UpdateID: 3,
		Message: &pkgTelegram.Message{
			MessageID: 11,
			From:      &pkgTelegram.User{ID: 42},
			Chat:      &pkgTelegram.Chat{ID: 100},
			Caption:   "from the whiteboard",
			Photo: []pkgTelegram.PhotoSize{
				{FileID: "small", Width: 90},
				{FileID: "photo-1", Width: 800},
			},
		},
	})

	if uc.imageCalls != 1 {
		t.Fatalf("expected one image call, got %d", uc.imageCalls)
	}
	if uc.lastImage.Caption != "from the whiteboard" || uc.lastImage.MIMEType != "image/jpeg" {
		t.Errorf("unexpected image input: %+v", uc.lastImage)
	}
	if len(uc.lastImage.ImageData) != 3 {
		t.Errorf("expected downloaded bytes passed through, got %d bytes", len(uc.lastImage.ImageData))
	}
	if len(fake.sent) != 1 || fake.sent[0].Text != "image handled" {
		t.Errorf("unexpected reply: %+v", fake.sent)
	}
}

func TestWebhookEmptyMessagePrompts(t *testing.T) {
	uc := &mockUseCase{}
	h, fake := newTestHandler(t, uc)

	postUpdate(t, h, pkgTelegram.Update{
		UpdateID: 4,
		Message:  &pkgTelegram.Message{MessageID: 12, Chat: &pkgTelegram.Chat{ID: 100}},
	})

	if uc.textCalls != 0 && uc.imageCalls != 0 {
		t.Error("expected no processing for an empty message")
	}
	if len(fake.sent) != 1 || fake.sent[0].Text != replyEmptyMessage {
		t.Errorf("expected the usage prompt, got %+v", fake.sent)
	}
}

func TestWebhookMalformedPayloadStillAccepted(t *testing.T) {
	uc := &mockUseCase{}
	h, _ := newTestHandler(t, uc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.HandleWebhook(c)
	h.Drain()

	if w.Code != http.StatusOK {
		t.Fatalf("telegram retries non-200 responses; expected 200, got %d", w.Code)
	}
	if uc.textCalls != 0 {
		t.Error("expected no processing of a malformed update")
	}
}
