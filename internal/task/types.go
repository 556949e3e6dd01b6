package task

import "todoflow/internal/model"

// ProcessTextInput is the input for text message processing.
type ProcessTextInput struct {
	Text string // Raw natural-language message from the user
}

// ProcessImageInput is the input for photo message processing.
type ProcessImageInput struct {
	ImageData []byte
	MIMEType  string
	Caption   string // Optional text sent alongside the photo
}

// ConfirmChoice selects how a pending decomposition is executed.
type ConfirmChoice string

const (
	// ConfirmAll creates every subtask of the plan.
	ConfirmAll ConfirmChoice = "all"
	// ConfirmOriginal creates only the original undivided task.
	ConfirmOriginal ConfirmChoice = "original"
	// ConfirmCancel discards the plan entirely.
	ConfirmCancel ConfirmChoice = "cancel"
)

// ConfirmInput carries the user's decision over a pending decomposition.
type ConfirmInput struct {
	Choice        ConfirmChoice
	Decomposition model.DecompositionResult
}

// ProcessOutput is what a processing call hands back to the delivery layer.
// Exactly one of Reply and Pending is meaningful: a non-nil Pending means
// the user must choose how to proceed before anything is written.
type ProcessOutput struct {
	Reply   string
	Pending *model.DecompositionResult
}
