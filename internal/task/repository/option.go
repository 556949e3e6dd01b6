package repository

// CreateOptions holds the parameters for creating a task. Dates are
// canonical YYYY-MM-DD strings, times HH:MM; empty means unset.
type CreateOptions struct {
	Title        string
	Description  string
	DueDate      string
	ReminderDate string
	ReminderTime string
}

// UpdateOptions holds the fields to change on an existing task. Nil
// pointers leave the field alone; a pointer to the empty string clears it.
type UpdateOptions struct {
	Title        *string
	Description  *string
	DueDate      *string
	ReminderDate *string
	ReminderTime *string
}

// ListOptions holds the parameters for listing tasks.
type ListOptions struct {
	IncludeCompleted bool
	Limit            int // Max number of results (default 50)
}
