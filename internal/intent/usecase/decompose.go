package usecase

import (
	"context"
	"strings"
	"time"

	"todoflow/internal/intent"
	"todoflow/internal/model"
	"todoflow/pkg/llmprovider"
	"todoflow/pkg/timecalc"
)

// shouldDecompose is the heuristic gate: only CREATE drafts whose text
// matches the complexity lexicon, or whose title is long while extraction
// confidence is low. Biased toward not interrupting simple requests.
func (uc *implUseCase) shouldDecompose(text string, draft model.ActionDraft) bool {
	if draft.Action != model.ActionCreate {
		return false
	}

	lower := strings.ToLower(text)
	for _, term := range uc.cfg.ComplexityLexicon {
		if strings.Contains(lower, term) {
			return true
		}
	}

	longTitle := len([]rune(draft.Title)) > uc.cfg.TitleLengthThreshold
	lowConfidence := draft.Confidence < uc.cfg.LowConfidenceThreshold
	return longTitle && lowConfidence
}

// decompose splits a composite request into 2-10 ordered subtasks. Each
// model-emitted day offset is relative to the previous subtask; the engine
// accumulates them into absolute due dates itself instead of trusting the
// model with cumulative arithmetic. Returns nil on any failure so the
// caller can degrade to a plain CREATE.
func (uc *implUseCase) decompose(ctx context.Context, text string, totalDays int, now time.Time) *model.DecompositionResult {
	nowStr := now.Format(timecalc.DateFormat + " " + timecalc.TimeFormat)
	tool := decomposeTool(nowStr, totalDays)

	req := &llmprovider.Request{
		Messages: []llmprovider.Message{
			{Role: "user", Parts: []llmprovider.Part{{Text: "Decompose this task: " + text}}},
		},
		Tools:       []llmprovider.Tool{tool},
		ForcedTool:  toolDecomposeTask,
		Temperature: 0.5,
		MaxTokens:   1200,
	}

	for attempt := 0; attempt <= uc.cfg.ExtractRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(uc.cfg.RetryBackoff):
			case <-ctx.Done():
				return nil
			}
		}

		resp, err := uc.caller.GenerateContent(ctx, req)
		if err != nil {
			uc.l.Warnf(ctx, "decompose: attempt %d failed: %v", attempt+1, err)
			continue
		}

		fc := resp.FirstFunctionCall()
		if fc == nil {
			uc.l.Warnf(ctx, "decompose: attempt %d returned no structured payload", attempt+1)
			continue
		}

		var payload decomposePayload
		if err := decodeArgs(fc.Args, &payload); err != nil {
			uc.l.Warnf(ctx, "decompose: attempt %d undecodable payload: %v", attempt+1, err)
			continue
		}

		if result := uc.buildDecomposition(ctx, &payload, totalDays, now); result != nil {
			return result
		}
	}

	uc.l.Warnf(ctx, "decompose: all attempts exhausted")
	return nil
}

// buildDecomposition validates subtask count, accumulates offsets into
// absolute dates, and checks the soft total-days ceiling.
func (uc *implUseCase) buildDecomposition(ctx context.Context, p *decomposePayload, totalDays int, now time.Time) *model.DecompositionResult {
	if len(p.Subtasks) < intent.MinSubtasks {
		uc.l.Warnf(ctx, "decompose: only %d subtasks, need at least %d", len(p.Subtasks), intent.MinSubtasks)
		return nil
	}
	raw := p.Subtasks
	if len(raw) > intent.MaxSubtasks {
		uc.l.Warnf(ctx, "decompose: %d subtasks truncated to %d", len(raw), intent.MaxSubtasks)
		raw = raw[:intent.MaxSubtasks]
	}

	subtasks := make([]model.SubtaskDraft, 0, len(raw))
	cumulative := 0
	for _, s := range raw {
		offset := 1
		if s.DueInDays != nil && *s.DueInDays >= 1 {
			offset = *s.DueInDays
		}
		cumulative += offset

		priority := s.Priority
		if priority < 1 || priority > 5 {
			priority = 3
		}

		dateStr, _ := uc.calc.Compute(now, cumulative, 0, 0)
		subtasks = append(subtasks, model.SubtaskDraft{
			Title:       s.Title,
			Description: s.Description,
			DayOffset:   offset,
			Priority:    priority,
			DueDate:     dateStr,
		})
	}

	// The ceiling is soft: the model was told about it, an overrun is
	// logged but not rejected.
	if totalDays > 0 && cumulative > totalDays {
		uc.l.Warnf(ctx, "decompose: cumulative offsets %dd exceed ceiling %dd", cumulative, totalDays)
	}

	uc.l.Infof(ctx, "decompose: %d subtasks spanning %dd: %s", len(subtasks), cumulative, p.Reasoning)
	return &model.DecompositionResult{
		Subtasks:  subtasks,
		TotalDays: totalDays,
	}
}
