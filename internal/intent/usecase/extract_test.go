package usecase

import (
	"context"
	"testing"
	"time"

	"todoflow/internal/model"
	"todoflow/pkg/llmprovider"
)

func TestExtractRelativeTimesBecomeAbsolute(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":              "CREATE",
			"title":               "Call the dentist",
			"due_in_days":         1,
			"reminder_in_days":    1,
			"reminder_in_hours":   15,
			"reminder_in_minutes": 0,
			"confidence":          0.92,
			"reasoning":           "explicit tomorrow with a named time",
		})},
	}}
	uc := newTestEngine(t, caller, now)

	draft := uc.extract(context.Background(), "remind me to call the dentist tomorrow at 3pm", now)

	if draft.Action != model.ActionCreate {
		t.Errorf("expected CREATE, got %s", draft.Action)
	}
	if draft.DueDate != "2026-03-11" {
		t.Errorf("expected due date 2026-03-11, got %q", draft.DueDate)
	}
	if draft.ReminderDate != "2026-03-11" || draft.ReminderTime != "15:00" {
		t.Errorf("expected reminder 2026-03-11 15:00, got %q %q",
			draft.ReminderDate, draft.ReminderTime)
	}
	if len(caller.requests) != 1 {
		t.Fatalf("expected exactly one call, got %d", len(caller.requests))
	}
	if caller.requests[0].ForcedTool != toolAnalyzeIntent {
		t.Errorf("expected forced tool %q, got %q", toolAnalyzeIntent, caller.requests[0].ForcedTool)
	}
}

func TestExtractUnsetTimeFieldsStayEmpty(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":     "CREATE",
			"title":      "Buy milk",
			"confidence": 0.9,
			"reasoning":  "no time mentioned",
		})},
	}}
	uc := newTestEngine(t, caller, now)

	draft := uc.extract(context.Background(), "buy milk", now)

	if draft.DueDate != "" || draft.ReminderDate != "" || draft.ReminderTime != "" {
		t.Fatalf("expected no dates on a timeless request, got %q %q %q",
			draft.DueDate, draft.ReminderDate, draft.ReminderTime)
	}
}

func TestExtractFallbackAfterExhaustedRetries(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{} // every call fails
	uc := newTestEngine(t, caller, now)

	text := "this is a fairly long request that should be cut at thirty characters"
	draft := uc.extract(context.Background(), text, now)

	want := model.ActionDraft{
		Action:     model.ActionCreate,
		Title:      "this is a fairly long request ",
		Confidence: 0,
	}
	if draft != want {
		t.Errorf("unexpected fallback draft: %+v", draft)
	}
	// Initial attempt plus the configured retries.
	if len(caller.requests) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(caller.requests))
	}
}

func TestExtractRetriesOnTransientFailure(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{err: llmprovider.ErrAllProvidersFailed},
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":     "CREATE",
			"title":      "Water the plants",
			"confidence": 0.8,
			"reasoning":  "second attempt",
		})},
	}}
	uc := newTestEngine(t, caller, now)

	draft := uc.extract(context.Background(), "water the plants", now)

	if draft.Title != "Water the plants" {
		t.Errorf("expected draft from retry, got %+v", draft)
	}
	if len(caller.requests) != 2 {
		t.Errorf("expected 2 attempts, got %d", len(caller.requests))
	}
}

func TestExtractSalvagesProseJSON(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: textResponse("Sure, here is the analysis:\n" +
			"```json\n{\"action\": \"COMPLETE\", \"title\": \"Pay rent\", " +
			"\"search_query\": \"rent\", \"confidence\": 0.7, \"reasoning\": \"done marker\"}\n```")},
	}}
	uc := newTestEngine(t, caller, now)

	draft := uc.extract(context.Background(), "I paid the rent", now)

	if draft.Action != model.ActionComplete || draft.SearchQuery != "rent" {
		t.Errorf("expected salvaged COMPLETE draft, got %+v", draft)
	}
}

func TestExtractProseWithoutJSONFallsBack(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: textResponse("I could not determine the intent.")},
		{resp: textResponse("Still no structured answer.")},
		{resp: textResponse("Nope.")},
	}}
	uc := newTestEngine(t, caller, now)

	draft := uc.extract(context.Background(), "gibberish", now)

	if draft.Action != model.ActionCreate || draft.Confidence != 0 {
		t.Errorf("expected zero-confidence fallback, got %+v", draft)
	}
}

func TestTruncateIsRuneSafe(t *testing.T) {
	if got := truncate("héllo wörld", 5); got != "héllo" {
		t.Errorf("expected rune-safe prefix, got %q", got)
	}
	if got := truncate("short", 30); got != "short" {
		t.Errorf("expected short input untouched, got %q", got)
	}
}
