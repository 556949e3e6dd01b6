package model

// Task represents a task stored in the external todo store.
type Task struct {
	ID           string // store-assigned opaque identifier
	Title        string
	Description  string
	DueDate      string // canonical YYYY-MM-DD, empty when unset
	ReminderDate string // canonical YYYY-MM-DD, empty when unset
	ReminderTime string // canonical HH:MM, empty when unset
	Completed    bool
	CreateTime   string // RFC3339 creation time string from store API
	UpdateTime   string // RFC3339 last updated time string from store API
}

// Candidate projects a task into the read-only shape disambiguation consumes.
func (t Task) Candidate() CandidateEntity {
	return CandidateEntity{
		ID:           t.ID,
		Title:        t.Title,
		DueDate:      t.DueDate,
		ReminderDate: t.ReminderDate,
		ReminderTime: t.ReminderTime,
		Completed:    t.Completed,
	}
}
