package model

// Scope carries per-request identity through the usecase layer.
type Scope struct {
	UserID string // stable sender identifier
	ChatID int64  // chat to reply into
}
