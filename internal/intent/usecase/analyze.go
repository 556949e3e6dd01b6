package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"todoflow/internal/intent"
	"todoflow/internal/model"
)

// Analyze sequences the pipeline: extraction, disambiguation for mutation
// drafts lacking an identifier, invariant repair, and decomposition when
// the gate fires. Every path terminates in a usable result; no failure
// escapes this boundary.
func (uc *implUseCase) Analyze(ctx context.Context, sc model.Scope, input intent.AnalyzeInput) model.AnalysisResult {
	runID := uuid.NewString()
	now := uc.nowFn()

	uc.l.Infof(ctx, "analyze[%s]: %s user=%s input_length=%d", runID, intent.StateReceived, sc.UserID, len(input.Text))

	draft := uc.extract(ctx, input.Text, now)
	uc.l.Infof(ctx, "analyze[%s]: %s action=%s confidence=%.2f", runID, intent.StateExtracted, draft.Action, draft.Confidence)

	if draft.Action.IsMutation() && draft.EntityID == "" {
		uc.l.Infof(ctx, "analyze[%s]: %s candidates=%d", runID, intent.StateDisambiguated, len(input.Candidates))
		draft = uc.resolveEntity(ctx, input.Text, draft, input.Candidates, now)
	}

	draft = uc.repair(ctx, draft, now)
	uc.l.Infof(ctx, "analyze[%s]: %s due=%s reminder=%s %s", runID, intent.StateRepaired,
		draft.DueDate, draft.ReminderDate, draft.ReminderTime)

	if uc.shouldDecompose(input.Text, draft) {
		totalDays := uc.dayCeiling(draft, input.TotalDays, now)
		uc.l.Infof(ctx, "analyze[%s]: %s total_days=%d", runID, intent.StateDecomposing, totalDays)
		if result := uc.decompose(ctx, input.Text, totalDays, now); result != nil {
			result.Original = draft
			uc.l.Infof(ctx, "analyze[%s]: %s batch=%d", runID, intent.StateResolved, len(result.Subtasks))
			return model.AnalysisResult{Decomposition: result}
		}
		// Decomposition failed: the composite request is never lost,
		// it degrades to a plain low-confidence CREATE.
		if draft.Confidence > 0.3 {
			draft.Confidence = 0.3
		}
	}

	uc.l.Infof(ctx, "analyze[%s]: %s action=%s entity=%s", runID, intent.StateResolved, draft.Action, draft.EntityID)
	return model.AnalysisResult{Draft: &draft}
}

// dayCeiling derives the decomposition span from the draft's own due date
// when it has one, so "in 10 days" constrains the subtask plan. Falls back
// to the caller-provided ceiling.
func (uc *implUseCase) dayCeiling(draft model.ActionDraft, fallback int, now time.Time) int {
	if draft.DueDate == "" {
		return fallback
	}
	due, err := uc.calc.ParseDate(draft.DueDate)
	if err != nil {
		return fallback
	}
	span := int(due.Sub(uc.calc.StartOfDay(now)).Hours() / 24)
	if span <= 0 {
		return fallback
	}
	return span
}
