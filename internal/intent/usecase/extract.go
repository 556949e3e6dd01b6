package usecase

import (
	"context"
	"time"

	"todoflow/internal/intent"
	"todoflow/internal/model"
	"todoflow/pkg/jsonx"
	"todoflow/pkg/llmprovider"
	"todoflow/pkg/timecalc"
)

// extract issues one schema-constrained extraction call, retrying on
// transient failure, and always returns a usable draft. The deterministic
// fallback guarantees the user's input is never dropped even when the
// remote service is entirely unavailable.
func (uc *implUseCase) extract(ctx context.Context, text string, now time.Time) model.ActionDraft {
	nowStr := now.Format(timecalc.DateFormat + " " + timecalc.TimeFormat)
	tool := analyzeIntentTool(nowStr, now.Hour(), uc.cfg.Actions)

	req := &llmprovider.Request{
		Messages: []llmprovider.Message{
			{Role: "user", Parts: []llmprovider.Part{{Text: text}}},
		},
		Tools:       []llmprovider.Tool{tool},
		ForcedTool:  toolAnalyzeIntent,
		Temperature: 0.3,
		MaxTokens:   800,
	}

	for attempt := 0; attempt <= uc.cfg.ExtractRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(uc.cfg.RetryBackoff):
			case <-ctx.Done():
				return uc.fallbackDraft(text)
			}
		}

		payload, err := uc.structuredCall(ctx, req)
		if err != nil {
			uc.l.Warnf(ctx, "extract: attempt %d failed: %v", attempt+1, err)
			continue
		}

		uc.l.Infof(ctx, "extract: model reasoning: %s", payload.Reasoning)
		return uc.payloadToDraft(payload, now)
	}

	uc.l.Warnf(ctx, "extract: all attempts exhausted, using fallback draft")
	return uc.fallbackDraft(text)
}

// structuredCall runs one generation request and decodes its structured
// payload, falling back to best-effort parsing of prose output when the
// model ignored the forced tool.
func (uc *implUseCase) structuredCall(ctx context.Context, req *llmprovider.Request) (*extractionPayload, error) {
	resp, err := uc.caller.GenerateContent(ctx, req)
	if err != nil {
		return nil, err
	}

	var payload extractionPayload
	if fc := resp.FirstFunctionCall(); fc != nil {
		if err := decodeArgs(fc.Args, &payload); err != nil {
			return nil, err
		}
		return &payload, nil
	}

	// Degraded path: the model answered in prose instead of calling the
	// tool. Salvage any embedded JSON object before giving up.
	if jsonx.Decode(resp.Text(), &payload) && payload.Action != "" {
		return &payload, nil
	}
	return nil, intent.ErrNoStructuredPayload
}

// payloadToDraft converts relative model time fields into absolute
// canonical dates anchored at now.
func (uc *implUseCase) payloadToDraft(p *extractionPayload, now time.Time) model.ActionDraft {
	draft := model.ActionDraft{
		Action:             model.Action(p.Action),
		Title:              p.Title,
		Description:        p.Description,
		EntityID:           p.TodoID,
		SearchQuery:        p.SearchQuery,
		TargetDescription:  p.TargetDescription,
		ModificationIntent: p.ModificationIntent,
		Confidence:         p.Confidence,
		Reasoning:          p.Reasoning,
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

// fallbackDraft is the engine's last-resort output: a zero-confidence
// CREATE carrying a truncated prefix of the raw input.
func (uc *implUseCase) fallbackDraft(text string) model.ActionDraft {
	return model.ActionDraft{
		Action:     model.ActionCreate,
		Title:      truncate(text, intent.FallbackTitleLimit),
		Confidence: 0,
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
