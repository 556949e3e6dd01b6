package usecase

import (
	"context"
	"time"

	"todoflow/internal/model"
	"todoflow/pkg/llmprovider"
	"todoflow/pkg/timecalc"
)

const resolveSystemPrompt = `You are a task matching assistant.
Given the user's request and the candidate task list, pick the matching task
and produce modification parameters.

Rules:
1. Match the task ID carefully.
2. For UPDATE output only the fields the user asked to change.
3. Every field the user did not mention MUST be null.
4. Give a clear matching rationale.`

// resolveEntity runs the second schema-constrained call against a bounded
// candidate list and merges the result into the draft. Fields the model
// returns as null stay untouched on the draft; that is what keeps an
// UPDATE from erasing a task's existing dates. Any failure returns the
// draft unchanged.
func (uc *implUseCase) resolveEntity(
	ctx context.Context,
	text string,
	draft model.ActionDraft,
	candidates []model.CandidateEntity,
	now time.Time,
) model.ActionDraft {
	open := make([]model.CandidateEntity, 0, len(candidates))
	for _, c := range candidates {
		if c.Completed {
			continue
		}
		open = append(open, c)
		if len(open) == uc.cfg.MaxCandidates {
			break
		}
	}
	if len(open) == 0 {
		uc.l.Infof(ctx, "resolve: no open candidates, passing draft through")
		return draft
	}

	nowStr := now.Format(timecalc.DateFormat + " " + timecalc.TimeFormat)
	tool := resolveMatchTool(nowStr, now.Hour(), text, open)

	req := &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role:  "system",
			Parts: []llmprovider.Part{{Text: resolveSystemPrompt}},
		},
		Messages: []llmprovider.Message{
			{Role: "user", Parts: []llmprovider.Part{{Text: text}}},
		},
		Tools:       []llmprovider.Tool{tool},
		ForcedTool:  toolResolveMatch,
		Temperature: 0.4,
		MaxTokens:   800,
	}

	resp, err := uc.caller.GenerateContent(ctx, req)
	if err != nil {
		uc.l.Errorf(ctx, "resolve: call failed, passing draft through: %v", err)
		return draft
	}

	fc := resp.FirstFunctionCall()
	if fc == nil {
		uc.l.Warnf(ctx, "resolve: model returned no structured payload, passing draft through")
		return draft
	}

	var payload extractionPayload
	if err := decodeArgs(fc.Args, &payload); err != nil {
		uc.l.Warnf(ctx, "resolve: undecodable payload, passing draft through: %v", err)
		return draft
	}

	uc.l.Infof(ctx, "resolve: matched entity %s: %s", payload.TodoID, payload.Reasoning)
	draft = uc.mergeResolution(draft, &payload, now)
	return backfillFromCandidate(draft, open)
}

// mergeResolution applies the null-preserving merge policy: only fields the
// model explicitly set overwrite the draft.
func (uc *implUseCase) mergeResolution(draft model.ActionDraft, p *extractionPayload, now time.Time) model.ActionDraft {
	if p.TodoID != "" {
		draft.EntityID = p.TodoID
	}
	if p.Action != "" {
		draft.Action = model.Action(p.Action)
	}
	if p.Title != "" {
		draft.Title = p.Title
	}
	if p.Confidence > 0 {
		draft.Confidence = p.Confidence
	}
	if p.Reasoning != "" {
		draft.Reasoning = p.Reasoning
	}

	if p.DueInDays != nil {
		dateStr, _ := uc.calc.Compute(now, *p.DueInDays, 0, 0)
		draft.DueDate = dateStr
	}

	if p.ReminderInDays != nil || p.ReminderInHours != nil || p.ReminderInMinutes != nil {
		days, hours, minutes := 0, 0, 0
		if p.ReminderInDays != nil {
			days = *p.ReminderInDays
		}
		if p.ReminderInHours != nil {
			hours = *p.ReminderInHours
		}
		if p.ReminderInMinutes != nil {
			minutes = *p.ReminderInMinutes
		}
		dateStr, timeStr := uc.calc.Compute(now, days, hours, minutes)
		draft.ReminderDate = dateStr
		draft.ReminderTime = timeStr
	}

	return draft
}

// backfillFromCandidate copies the matched candidate's existing dates into
// draft fields the merge left empty, so an UPDATE draft describes the full
// resulting task state rather than silently dropping untouched dates.
func backfillFromCandidate(draft model.ActionDraft, candidates []model.CandidateEntity) model.ActionDraft {
	if draft.EntityID == "" {
		return draft
	}
	for _, c := range candidates {
		if c.ID != draft.EntityID {
			continue
		}
		if draft.DueDate == "" {
			draft.DueDate = c.DueDate
		}
		if draft.ReminderDate == "" {
			draft.ReminderDate = c.ReminderDate
		}
		if draft.ReminderTime == "" {
			draft.ReminderTime = c.ReminderTime
		}
		break
	}
	return draft
}
