package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"todoflow/internal/intent"
	"todoflow/internal/model"
	"todoflow/pkg/llmprovider"
	"todoflow/pkg/timecalc"
)

// maxImageBytes caps what gets sent to the model; delivery layers should
// pick a smaller photo size when available.
const maxImageBytes = 1 << 20

// AnalyzeImage extracts CREATE drafts from a photo via a vision-capable
// provider, using the same schema and repair rules as typed text. A single
// image may yield several drafts when it contains a list.
func (uc *implUseCase) AnalyzeImage(ctx context.Context, sc model.Scope, input intent.AnalyzeImageInput) []model.ActionDraft {
	runID := uuid.NewString()
	now := uc.nowFn()

	uc.l.Infof(ctx, "analyze_image[%s]: %s user=%s bytes=%d", runID, intent.StateReceived, sc.UserID, len(input.ImageData))

	if len(input.ImageData) == 0 || len(input.ImageData) > maxImageBytes {
		uc.l.Warnf(ctx, "analyze_image[%s]: unusable image size %d, using fallback", runID, len(input.ImageData))
		return []model.ActionDraft{uc.fallbackDraft(input.Caption)}
	}

	nowStr := now.Format(timecalc.DateFormat + " " + timecalc.TimeFormat)

	parts := make([]llmprovider.Part, 0, 2)
	if input.Caption != "" {
		parts = append(parts, llmprovider.Part{Text: "Caption: " + input.Caption})
	}
	parts = append(parts, llmprovider.Part{
		InlineImage: &llmprovider.InlineImage{
			MIMEType: input.MIMEType,
			Data:     input.ImageData,
		},
	})

	req := &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role:  "system",
			Parts: []llmprovider.Part{{Text: uc.imageSystemPrompt(nowStr, input.Candidates)}},
		},
		Messages:    []llmprovider.Message{{Role: "user", Parts: parts}},
		Tools:       []llmprovider.Tool{analyzeImageTool(nowStr, now.Hour())},
		ForcedTool:  toolAnalyzeImage,
		Temperature: 0.4,
		MaxTokens:   1200,
	}

	var payload *extractionPayload
	for attempt := 0; attempt <= uc.cfg.ExtractRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(uc.cfg.RetryBackoff):
			case <-ctx.Done():
				return []model.ActionDraft{uc.fallbackDraft(input.Caption)}
			}
		}
		p, err := uc.structuredCall(ctx, req)
		if err != nil {
			uc.l.Warnf(ctx, "analyze_image[%s]: attempt %d failed: %v", runID, attempt+1, err)
			continue
		}
		payload = p
		break
	}

	if payload == nil {
		uc.l.Warnf(ctx, "analyze_image[%s]: all attempts exhausted, using fallback", runID)
		return []model.ActionDraft{uc.fallbackDraft(input.Caption)}
	}

	drafts := uc.imageDrafts(payload, now)
	for i := range drafts {
		drafts[i] = uc.repair(ctx, drafts[i], now)
	}

	uc.l.Infof(ctx, "analyze_image[%s]: %s drafts=%d", runID, intent.StateResolved, len(drafts))
	return drafts
}

// imageDrafts converts an image payload into one or more CREATE drafts.
// The items array wins over the single-task fields when present.
func (uc *implUseCase) imageDrafts(p *extractionPayload, now time.Time) []model.ActionDraft {
	base := uc.payloadToDraft(p, now)
	base.Action = model.ActionCreate

	if len(p.Items) == 0 {
		if base.Title == "" {
			base.Title = truncate(p.ImageDescription, intent.FallbackTitleLimit)
		}
		return []model.ActionDraft{base}
	}

	drafts := make([]model.ActionDraft, 0, len(p.Items))
	for _, item := range p.Items {
		draft := base
		draft.Title = item.Title
		draft.Description = item.Description
		drafts = append(drafts, draft)
	}
	return drafts
}

// imageSystemPrompt lists a few open tasks so the model avoids duplicates.
func (uc *implUseCase) imageSystemPrompt(now string, candidates []model.CandidateEntity) string {
	var sb strings.Builder
	sb.WriteString("You are a todo item recognizer. Read text and context from the image and extract todo items.\n")
	sb.WriteString(fmt.Sprintf("Current time: %s\n", now))

	open := make([]string, 0, 3)
	for _, c := range candidates {
		if c.Completed {
			continue
		}
		open = append(open, truncate(c.Title, 15))
		if len(open) == 3 {
			break
		}
	}
	if len(open) > 0 {
		sb.WriteString("Open tasks: " + strings.Join(open, ", "))
	}
	return sb.String()
}
