package intent

import (
	"time"

	"todoflow/internal/model"
)

// AnalyzeInput is the input for one text pipeline run.
type AnalyzeInput struct {
	Text string

	// Candidates is the store's current entity listing, fetched fresh by
	// the caller for this run. Used only for disambiguation.
	Candidates []model.CandidateEntity

	// TotalDays is an optional decomposition ceiling in days (0 = none),
	// e.g. derived from "within a week". Soft: exceeding it is logged,
	// not rejected.
	TotalDays int
}

// AnalyzeImageInput is the input for a photo pipeline run.
type AnalyzeImageInput struct {
	ImageData []byte
	MIMEType  string
	Caption   string

	// Candidates gives the model context about open tasks; images only
	// ever produce CREATE drafts.
	Candidates []model.CandidateEntity
}

// ExecutionOutcome describes what the task store did with a draft.
type ExecutionOutcome struct {
	Error string       // non-empty when the store call failed
	Tasks []model.Task // populated for LIST / SEARCH
}

// RespondInput is the input for confirmation rendering.
type RespondInput struct {
	Draft   model.ActionDraft
	Outcome ExecutionOutcome
}

// Config is the injected engine configuration. The action set and
// complexity lexicon are deployment data, not package globals.
type Config struct {
	Actions           []model.Action
	ComplexityLexicon []string

	MaxCandidates  int           // candidate list cap for disambiguation
	ExtractRetries int           // additional attempts after the first
	RetryBackoff   time.Duration // fixed delay between attempts

	// Decomposition gate tunables.
	TitleLengthThreshold   int
	LowConfidenceThreshold float64
}

// WithDefaults fills zero-valued fields with the engine defaults.
func (c Config) WithDefaults() Config {
	if len(c.Actions) == 0 {
		c.Actions = model.DefaultActions()
	}
	if len(c.ComplexityLexicon) == 0 {
		c.ComplexityLexicon = DefaultComplexityLexicon()
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = DefaultMaxCandidates
	}
	if c.ExtractRetries <= 0 {
		c.ExtractRetries = DefaultExtractRetries
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
	if c.TitleLengthThreshold <= 0 {
		c.TitleLengthThreshold = DefaultTitleLengthThreshold
	}
	if c.LowConfidenceThreshold <= 0 {
		c.LowConfidenceThreshold = DefaultLowConfidenceThreshold
	}
	return c
}
