package usecase

import (
	"context"
	"testing"
	"time"

	"todoflow/internal/intent"
	"todoflow/pkg/llmprovider"
	"todoflow/pkg/timecalc"
)

// Mock logger for testing
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

// scripted outcome of one mock generation call
type callResult struct {
	resp *llmprovider.Response
	err  error
}

// mockCaller replays scripted results in order and records every request.
type mockCaller struct {
	results  []callResult
	requests []*llmprovider.Request
}

func (m *mockCaller) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	m.requests = append(m.requests, req)
	if len(m.results) == 0 {
		return nil, llmprovider.ErrAllProvidersFailed
	}
	next := m.results[0]
	m.results = m.results[1:]
	return next.resp, next.err
}

// toolResponse builds a response whose content is one function call.
func toolResponse(name string, args map[string]interface{}) *llmprovider.Response {
	return &llmprovider.Response{
		Content: llmprovider.Message{
			Role: "assistant",
			Parts: []llmprovider.Part{
				{FunctionCall: &llmprovider.FunctionCall{Name: name, Args: args}},
			},
		},
		Usage: &llmprovider.Usage{},
	}
}

// textResponse builds a prose-only response.
func textResponse(text string) *llmprovider.Response {
	return &llmprovider.Response{
		Content: llmprovider.Message{
			Role:  "assistant",
			Parts: []llmprovider.Part{{Text: text}},
		},
		Usage: &llmprovider.Usage{},
	}
}

// newTestEngine wires an engine with a UTC calculator, a pinned clock, and
// fast retries.
func newTestEngine(t *testing.T, caller *mockCaller, now time.Time) *implUseCase {
	t.Helper()
	calc, err := timecalc.New("UTC")
	if err != nil {
		t.Fatalf("failed to build calculator: %v", err)
	}
	uc := New(&mockLogger{}, caller, calc, intent.Config{
		RetryBackoff: time.Millisecond,
	})
	uc.nowFn = func() time.Time { return now }
	return uc
}

func intPtr(v int) *int { return &v }
