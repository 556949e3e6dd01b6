package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"todoflow/internal/intent"
	"todoflow/internal/model"
	"todoflow/pkg/llmprovider"
)

// Tool names for the engine's schema-constrained calls.
const (
	toolAnalyzeIntent = "analyze_task_intent"
	toolResolveMatch  = "resolve_task_match"
	toolDecomposeTask = "decompose_complex_task"
	toolAnalyzeImage  = "analyze_image_content"
)

// timeRules renders the relative-time contract the model must follow.
// hour is always the absolute hour-of-day on the target date; a time at or
// before the current hour with no explicit "tomorrow" means days=1.
func timeRules(now string, hour int) string {
	return fmt.Sprintf(
		"Current time is %s (hour %d). Time rules: "+
			"1) days = days from today (0=today, 1=tomorrow). "+
			"2) hours = absolute hour-of-day on the target date (0-23), e.g. '3pm' -> hours=15. "+
			"3) If the requested hour is <= %d and the user did not say tomorrow, that time has "+
			"already passed today and days MUST be 1. Never set a past time with days=0.",
		now, hour, hour)
}

// analyzeIntentTool builds the schema for the first extraction call.
func analyzeIntentTool(now string, hour int, actions []model.Action) llmprovider.Tool {
	return llmprovider.Tool{
		Name:        toolAnalyzeIntent,
		Description: "Analyze the user's task intent. " + timeRules(now, hour),
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"action":      map[string]interface{}{"type": "string", "enum": actionNames(actions)},
				"title":       map[string]interface{}{"type": "string"},
				"description": map[string]interface{}{"type": "string"},
				"due_in_days": map[string]interface{}{
					"type":        "integer",
					"description": "Due date in days from today (0=today, 1=tomorrow)",
					"minimum":     0,
				},
				"reminder_in_days": map[string]interface{}{
					"type":        "integer",
					"description": "Reminder date in days from today. Must be 1 if the reminder hour has already passed today",
					"minimum":     0,
				},
				"reminder_in_hours": map[string]interface{}{
					"type":        "integer",
					"description": "Absolute hour-of-day for the reminder (0-23). Only set when the user named a specific time",
					"minimum":     0,
					"maximum":     23,
				},
				"reminder_in_minutes": map[string]interface{}{
					"type":    "integer",
					"minimum": 0,
					"maximum": 59,
				},
				"search_query":        map[string]interface{}{"type": "string"},
				"todo_id":             map[string]interface{}{"type": "string"},
				"target_description":  map[string]interface{}{"type": "string"},
				"modification_intent": map[string]interface{}{"type": "string"},
				"confidence":          map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
				"reasoning":           map[string]interface{}{"type": "string"},
			},
			"required": []string{"action", "title", "confidence", "reasoning"},
		},
	}
}

// resolveMatchTool builds the schema for the disambiguation call. The
// candidate list, annotated with existing dates, rides in the description
// so the model matches against real store state.
func resolveMatchTool(now string, hour int, userText string, candidates []model.CandidateEntity) llmprovider.Tool {
	var sb strings.Builder
	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("[ID: %s] %s", c.ID, c.Title))
		if c.DueDate != "" {
			sb.WriteString(" due:" + c.DueDate)
		}
		if c.ReminderDate != "" {
			sb.WriteString(" reminder:" + c.ReminderDate)
			if c.ReminderTime != "" {
				sb.WriteString(" " + c.ReminderTime)
			}
		}
		sb.WriteString("\n")
	}

	return llmprovider.Tool{
		Name: toolResolveMatch,
		Description: fmt.Sprintf(
			"Match the user's request to one candidate task and produce modification parameters. "+
				"User input: %s. Candidate tasks (with existing dates):\n%s"+
				"%s "+
				"UPDATE rule: output ONLY the fields the user explicitly asked to change; "+
				"every untouched field MUST be null so existing dates are not reset.",
			userText, sb.String(), timeRules(now, hour)),
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"todo_id": map[string]interface{}{"type": "string"},
				"action": map[string]interface{}{
					"type": "string",
					"enum": []string{"UPDATE", "COMPLETE", "DELETE", "SEARCH"},
				},
				"title": map[string]interface{}{"type": "string"},
				"due_in_days": map[string]interface{}{
					"type":        "integer",
					"description": "Only when the user named a new due date, otherwise null",
					"minimum":     0,
				},
				"reminder_in_days": map[string]interface{}{
					"type":        "integer",
					"description": "Only when the user named a reminder date, otherwise null",
					"minimum":     0,
				},
				"reminder_in_hours": map[string]interface{}{
					"type":        "integer",
					"description": "Absolute hour-of-day (0-23)",
					"minimum":     0,
					"maximum":     23,
				},
				"reminder_in_minutes": map[string]interface{}{
					"type":    "integer",
					"minimum": 0,
					"maximum": 59,
				},
				"confidence": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
				"reasoning":  map[string]interface{}{"type": "string"},
			},
			"required": []string{"todo_id", "action", "confidence", "reasoning"},
		},
	}
}

// decomposeTool builds the schema for splitting a composite request into
// ordered subtasks. day offsets are per-subtask durations the engine
// accumulates itself.
func decomposeTool(now string, totalDays int) llmprovider.Tool {
	description := fmt.Sprintf(
		"Decompose a complex task. Current time %s. due_in_days is the number of days EACH "+
			"subtask needs; offsets are accumulated into due dates by the caller.", now)
	if totalDays > 0 {
		description = fmt.Sprintf(
			"Decompose a complex task. Current time %s. STRICT LIMIT: the whole task spans %d days, "+
				"so the sum of all due_in_days must not exceed %d. due_in_days is the number of days "+
				"each subtask needs and is accumulated by the caller.", now, totalDays, totalDays)
	}

	return llmprovider.Tool{
		Name:        toolDecomposeTask,
		Description: description,
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"original_task": map[string]interface{}{"type": "string"},
				"subtasks": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"title":       map[string]interface{}{"type": "string"},
							"description": map[string]interface{}{"type": "string"},
							"due_in_days": map[string]interface{}{
								"type":        "integer",
								"description": "Days this subtask needs, added onto the previous subtask's date",
								"minimum":     1,
							},
							"priority": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 5},
						},
						"required": []string{"title", "priority"},
					},
					"minItems": intent.MinSubtasks,
					"maxItems": intent.MaxSubtasks,
				},
				"estimated_total_days": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 90},
				"reasoning":            map[string]interface{}{"type": "string"},
			},
			"required": []string{"original_task", "subtasks", "estimated_total_days", "reasoning"},
		},
	}
}

// analyzeImageTool builds the schema for photo extraction. Images can only
// create new tasks.
func analyzeImageTool(now string, hour int) llmprovider.Tool {
	return llmprovider.Tool{
		Name:        toolAnalyzeImage,
		Description: "Extract todo items from the image. " + timeRules(now, hour),
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"CREATE"},
					"description": "Always CREATE; images can only create new tasks",
				},
				"title":       map[string]interface{}{"type": "string"},
				"description": map[string]interface{}{"type": "string"},
				"due_in_days": map[string]interface{}{"type": "integer", "minimum": 0},
				"reminder_in_days": map[string]interface{}{"type": "integer", "minimum": 0},
				"reminder_in_hours": map[string]interface{}{
					"type":    "integer",
					"minimum": 0,
					"maximum": 23,
				},
				"reminder_in_minutes": map[string]interface{}{
					"type":    "integer",
					"minimum": 0,
					"maximum": 59,
				},
				"items": map[string]interface{}{
					"type":        "array",
					"description": "Used when the image contains several tasks",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"title":       map[string]interface{}{"type": "string"},
							"description": map[string]interface{}{"type": "string"},
						},
						"required": []string{"title"},
					},
				},
				"image_description": map[string]interface{}{"type": "string"},
				"confidence":        map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required": []string{"action", "confidence"},
		},
	}
}

func actionNames(actions []model.Action) []string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return names
}

// extractionPayload is the decoded argument object of the analysis and
// resolution tools. Relative time fields are pointers: nil means the model
// explicitly left the field untouched, which the merge step must preserve.
type extractionPayload struct {
	Action             string  `json:"action"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	DueInDays          *int    `json:"due_in_days"`
	ReminderInDays     *int    `json:"reminder_in_days"`
	ReminderInHours    *int    `json:"reminder_in_hours"`
	ReminderInMinutes  *int    `json:"reminder_in_minutes"`
	SearchQuery        string  `json:"search_query"`
	TodoID             string  `json:"todo_id"`
	TargetDescription  string  `json:"target_description"`
	ModificationIntent string  `json:"modification_intent"`
	Confidence         float64 `json:"confidence"`
	Reasoning          string  `json:"reasoning"`

	// Image-only fields.
	Items            []imageItem `json:"items"`
	ImageDescription string      `json:"image_description"`
}

type imageItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// decomposePayload is the decoded argument object of the decompose tool.
type decomposePayload struct {
	OriginalTask       string           `json:"original_task"`
	Subtasks           []subtaskPayload `json:"subtasks"`
	EstimatedTotalDays int              `json:"estimated_total_days"`
	Reasoning          string           `json:"reasoning"`
}

type subtaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueInDays   *int   `json:"due_in_days"`
	Priority    int    `json:"priority"`
}

// decodeArgs converts loosely-typed tool call arguments into a typed
// payload via a JSON round trip, tolerating absent and null fields.
func decodeArgs(args map[string]interface{}, v interface{}) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
