package model

// Action is one of the fixed task operations the engine can emit.
type Action string

const (
	ActionCreate   Action = "CREATE"
	ActionUpdate   Action = "UPDATE"
	ActionComplete Action = "COMPLETE"
	ActionDelete   Action = "DELETE"
	ActionList     Action = "LIST"
	ActionSearch   Action = "SEARCH"
)

// DefaultActions is the closed action set injected into the engine at
// construction. Deployments may narrow it but the engine never extends it.
func DefaultActions() []Action {
	return []Action{
		ActionCreate,
		ActionUpdate,
		ActionComplete,
		ActionDelete,
		ActionList,
		ActionSearch,
	}
}

// IsMutation reports whether the action targets an existing entity.
func (a Action) IsMutation() bool {
	return a == ActionUpdate || a == ActionComplete || a == ActionDelete
}

// ActionDraft is the structured, partially-validated representation of a
// user's intended task operation. It is produced by extraction, mutated in
// place by invariant repair, optionally overwritten field-by-field by
// disambiguation, and consumed exactly once by the task store.
type ActionDraft struct {
	Action      Action `json:"action"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// Dates are canonical YYYY-MM-DD, times canonical HH:MM.
	// Empty string means absent.
	DueDate      string `json:"due_date,omitempty"`
	ReminderDate string `json:"reminder_date,omitempty"`
	ReminderTime string `json:"reminder_time,omitempty"`

	// EntityID references an existing task. Present only when the user
	// supplied it or disambiguation resolved it.
	EntityID string `json:"entity_id,omitempty"`

	// SearchQuery carries the user's keywords for SEARCH actions.
	SearchQuery string `json:"search_query,omitempty"`

	// Disambiguation hints. Never persisted.
	TargetDescription  string `json:"target_description,omitempty"`
	ModificationIntent string `json:"modification_intent,omitempty"`

	// Confidence in [0,1]. Used for UX and logging only.
	Confidence float64 `json:"confidence"`

	// Reasoning is the model's self-reported justification, logged only.
	Reasoning string `json:"reasoning,omitempty"`
}

// CandidateEntity is a read-only projection of an existing task supplied by
// the store for disambiguation.
type CandidateEntity struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	DueDate      string `json:"due_date,omitempty"`
	ReminderDate string `json:"reminder_date,omitempty"`
	ReminderTime string `json:"reminder_time,omitempty"`
	Completed    bool   `json:"completed"`
}

// SubtaskDraft is an ActionDraft-shaped record produced only by
// decomposition. DayOffset is relative to the previous subtask; the engine
// accumulates offsets into absolute dates itself.
type SubtaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DayOffset   int    `json:"day_offset"`
	Priority    int    `json:"priority"` // 1-5, 1 = most urgent

	// DueDate is filled in by the engine after offset accumulation.
	DueDate string `json:"due_date,omitempty"`
}

// DecompositionResult is the batch outcome of a decomposition run, awaiting
// user confirmation before any store call happens.
type DecompositionResult struct {
	Original  ActionDraft    `json:"original"`
	Subtasks  []SubtaskDraft `json:"subtasks"`
	TotalDays int            `json:"total_days,omitempty"` // soft ceiling, 0 = none
}

// AnalysisResult is the terminal output of one pipeline run: either a single
// draft or a decomposition batch, never both.
type AnalysisResult struct {
	Draft         *ActionDraft         `json:"draft,omitempty"`
	Decomposition *DecompositionResult `json:"decomposition,omitempty"`
}
