package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"todoflow/internal/intent"
	"todoflow/internal/model"
)

func testScope() model.Scope {
	return model.Scope{UserID: "u-1", ChatID: 100}
}

func TestAnalyzeSimpleCreate(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":     "CREATE",
			"title":      "Buy milk",
			"confidence": 0.95,
			"reasoning":  "simple create",
		})},
	}}
	uc := newTestEngine(t, caller, now)

	result := uc.Analyze(context.Background(), testScope(), intent.AnalyzeInput{Text: "buy milk"})

	if result.Draft == nil {
		t.Fatal("expected a draft result")
	}
	if result.Decomposition != nil {
		t.Error("simple create must not decompose")
	}
	if result.Draft.Title != "Buy milk" {
		t.Errorf("unexpected draft: %+v", result.Draft)
	}
	// One extraction call only: no disambiguation, no decomposition.
	if len(caller.requests) != 1 {
		t.Errorf("expected 1 model call, got %d", len(caller.requests))
	}
}

func TestAnalyzeMutationTriggersDisambiguation(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":       "COMPLETE",
			"title":        "report",
			"search_query": "report",
			"confidence":   0.8,
			"reasoning":    "completion request",
		})},
		{resp: toolResponse(toolResolveMatch, map[string]interface{}{
			"todo_id":    "t-9",
			"action":     "COMPLETE",
			"confidence": 0.9,
			"reasoning":  "matched by title",
		})},
	}}
	uc := newTestEngine(t, caller, now)

	result := uc.Analyze(context.Background(), testScope(), intent.AnalyzeInput{
		Text:       "finish the report",
		Candidates: []model.CandidateEntity{{ID: "t-9", Title: "quarterly report"}},
	})

	if result.Draft == nil || result.Draft.EntityID != "t-9" {
		t.Fatalf("expected draft bound to t-9, got %+v", result.Draft)
	}
	if len(caller.requests) != 2 {
		t.Errorf("expected extraction and resolution calls, got %d", len(caller.requests))
	}
}

func TestAnalyzeMutationWithEntityIDSkipsDisambiguation(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":     "DELETE",
			"title":      "old task",
			"todo_id":    "t-3",
			"confidence": 0.9,
			"reasoning":  "id named directly",
		})},
	}}
	uc := newTestEngine(t, caller, now)

	result := uc.Analyze(context.Background(), testScope(), intent.AnalyzeInput{
		Text:       "delete task t-3",
		Candidates: []model.CandidateEntity{{ID: "t-3", Title: "old task"}},
	})

	if result.Draft == nil || result.Draft.EntityID != "t-3" {
		t.Fatalf("expected draft bound to t-3, got %+v", result.Draft)
	}
	if len(caller.requests) != 1 {
		t.Errorf("expected no resolution call when the id is known, got %d calls", len(caller.requests))
	}
}

func TestAnalyzeRepairsExtractedDates(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":              "CREATE",
			"title":               "Evening walk",
			"reminder_in_days":    0,
			"reminder_in_hours":   9,
			"reminder_in_minutes": 0,
			"confidence":          0.85,
			"reasoning":           "model ignored the passed-hour rule",
		})},
	}}
	uc := newTestEngine(t, caller, now)

	result := uc.Analyze(context.Background(), testScope(), intent.AnalyzeInput{Text: "remind me at 9"})

	// 09:00 today is already past at 22:00; repair pushes it to now+30m.
	if result.Draft.ReminderDate != "2026-03-10" || result.Draft.ReminderTime != "22:30" {
		t.Errorf("expected repaired reminder 2026-03-10 22:30, got %q %q",
			result.Draft.ReminderDate, result.Draft.ReminderTime)
	}
}

func TestAnalyzeComplexCreateDecomposes(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":     "CREATE",
			"title":      "Prepare conference talk",
			"confidence": 0.9,
			"reasoning":  "composite request",
		})},
		{resp: toolResponse(toolDecomposeTask, subtaskArgs([]int{2, 1, 3}))},
	}}
	uc := newTestEngine(t, caller, now)

	result := uc.Analyze(context.Background(), testScope(), intent.AnalyzeInput{
		Text: "prepare my conference talk",
	})

	if result.Decomposition == nil {
		t.Fatal("expected a decomposition result")
	}
	if result.Draft != nil {
		t.Error("decomposed result must not also carry a plain draft")
	}
	if result.Decomposition.Original.Title != "Prepare conference talk" {
		t.Errorf("expected original draft attached, got %+v", result.Decomposition.Original)
	}
	if len(result.Decomposition.Subtasks) != 3 {
		t.Errorf("expected 3 subtasks, got %d", len(result.Decomposition.Subtasks))
	}
}

func TestAnalyzeDerivesCeilingFromDueDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":      "CREATE",
			"title":       "Prepare the product demo",
			"due_in_days": 10,
			"confidence":  0.9,
			"reasoning":   "composite with a deadline",
		})},
		{resp: toolResponse(toolDecomposeTask, subtaskArgs([]int{3, 3, 3}))},
	}}
	uc := newTestEngine(t, caller, now)

	result := uc.Analyze(context.Background(), testScope(), intent.AnalyzeInput{
		Text: "prepare the product demo in 10 days",
	})

	if result.Decomposition == nil {
		t.Fatal("expected a decomposition result")
	}
	if result.Decomposition.TotalDays != 10 {
		t.Errorf("expected ceiling 10 derived from the due date, got %d", result.Decomposition.TotalDays)
	}
	desc := caller.requests[1].Tools[0].Description
	if !strings.Contains(desc, "spans 10 days") {
		t.Errorf("expected the ceiling in the decompose tool description, got %q", desc)
	}
}

func TestAnalyzeDecompositionFailureDegradesToDraft(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	caller := &mockCaller{results: []callResult{
		{resp: toolResponse(toolAnalyzeIntent, map[string]interface{}{
			"action":     "CREATE",
			"title":      "Plan the team offsite",
			"confidence": 0.9,
			"reasoning":  "composite request",
		})},
		// Decomposition attempts all fail via the exhausted script.
	}}
	uc := newTestEngine(t, caller, now)

	result := uc.Analyze(context.Background(), testScope(), intent.AnalyzeInput{
		Text: "plan the team offsite",
	})

	if result.Decomposition != nil {
		t.Fatal("expected decomposition to fail")
	}
	if result.Draft == nil {
		t.Fatal("expected the request to degrade to a plain draft")
	}
	if result.Draft.Confidence > 0.3 {
		t.Errorf("expected confidence capped at 0.3, got %.2f", result.Draft.Confidence)
	}
	if result.Draft.Title != "Plan the team offsite" {
		t.Errorf("expected original draft kept, got %+v", result.Draft)
	}
}

func TestAnalyzeTotalFailureStillYieldsDraft(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	uc := newTestEngine(t, &mockCaller{}, now)

	result := uc.Analyze(context.Background(), testScope(), intent.AnalyzeInput{
		Text: "remind me about the dentist",
	})

	if result.Draft == nil {
		t.Fatal("expected a fallback draft even when every call fails")
	}
	if result.Draft.Action != model.ActionCreate || result.Draft.Confidence != 0 {
		t.Errorf("unexpected fallback draft: %+v", result.Draft)
	}
}
