package task

import (
	"context"

	"todoflow/internal/model"
)

// UseCase defines the business logic interface for the task domain.
type UseCase interface {
	// ProcessText runs a natural-language message through the intent
	// pipeline and executes the resolved draft against the task store.
	// A composite request comes back as a pending decomposition instead
	// of a reply; the caller must confirm it via ConfirmDecomposition.
	ProcessText(ctx context.Context, sc model.Scope, input ProcessTextInput) (ProcessOutput, error)

	// ProcessImage extracts CREATE drafts from a photo and executes them.
	ProcessImage(ctx context.Context, sc model.Scope, input ProcessImageInput) (ProcessOutput, error)

	// ConfirmDecomposition executes a previously returned decomposition
	// according to the user's choice.
	ConfirmDecomposition(ctx context.Context, sc model.Scope, input ConfirmInput) (ProcessOutput, error)
}
