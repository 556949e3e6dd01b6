package intent

import (
	"context"

	"todoflow/internal/model"
	"todoflow/pkg/llmprovider"
)

// UseCase is the analysis engine: raw user input in, executable draft out.
//
// No method returns an error: every failure path inside the engine degrades
// to a valid, possibly low-confidence draft. Callers can always act on the
// result.
type UseCase interface {
	// Analyze runs the full pipeline over a text utterance: extraction,
	// entity disambiguation when needed, invariant repair, and optional
	// decomposition into a confirmable subtask batch.
	Analyze(ctx context.Context, sc model.Scope, input AnalyzeInput) model.AnalysisResult

	// AnalyzeImage extracts one or more CREATE drafts from a photo, each
	// passed through the same invariant repair as typed text.
	AnalyzeImage(ctx context.Context, sc model.Scope, input AnalyzeImageInput) []model.ActionDraft

	// Respond renders a short human confirmation for an executed draft.
	// Template-based for the common cases, one low-token model call
	// otherwise, deterministic fallback when that call fails.
	Respond(ctx context.Context, input RespondInput) string
}

// StructuredCaller is the single capability the engine needs from the LLM
// layer. *llmprovider.Manager satisfies it.
type StructuredCaller interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}
