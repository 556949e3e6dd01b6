package intent

import "time"

// Engine defaults, overridable through Config.
const (
	DefaultMaxCandidates  = 10
	DefaultExtractRetries = 2
	DefaultRetryBackoff   = time.Second

	DefaultTitleLengthThreshold   = 15
	DefaultLowConfidenceThreshold = 0.7

	// FallbackTitleLimit caps the title of the deterministic fallback
	// draft at a prefix of the raw input.
	FallbackTitleLimit = 30

	// ReminderPushAhead is how far a past reminder instant is moved into
	// the future during repair.
	ReminderPushAhead = 30 * time.Minute

	// Subtask count bounds for decomposition.
	MinSubtasks = 2
	MaxSubtasks = 10
)

// Pipeline states, logged per transition.
const (
	StateReceived      = "RECEIVED"
	StateExtracted     = "EXTRACTED"
	StateDisambiguated = "DISAMBIGUATING"
	StateRepaired      = "REPAIRED"
	StateDecomposing   = "DECOMPOSING"
	StateResolved      = "RESOLVED"
)

// DefaultComplexityLexicon lists terms that flag a request as a composite
// project worth decomposing.
func DefaultComplexityLexicon() []string {
	return []string{
		"prepare", "organize", "plan", "arrange", "coordinate",
		"project", "event", "conference", "meeting", "presentation",
		"report", "campaign", "launch",
		"trip", "travel", "move", "relocate", "renovate",
		"study", "exam", "interview",
	}
}
