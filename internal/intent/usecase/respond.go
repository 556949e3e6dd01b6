package usecase

import (
	"context"
	"fmt"
	"strings"

	"todoflow/internal/intent"
	"todoflow/internal/model"
	"todoflow/pkg/llmprovider"
)

// Respond renders a short confirmation string for an executed draft.
// Templates cover the common cases; only when none applies is one low-token
// model call made, itself backed by a deterministic per-action fallback.
func (uc *implUseCase) Respond(ctx context.Context, input intent.RespondInput) string {
	if s := templateResponse(input); s != "" {
		return s
	}

	if s := uc.synthesizeResponse(ctx, input); s != "" {
		return s
	}

	return fallbackResponse(input.Draft.Action)
}

// templateResponse handles the common action outcomes without a model call.
// Empty string means no template applies.
func templateResponse(input intent.RespondInput) string {
	draft := input.Draft
	outcome := input.Outcome

	switch draft.Action {
	case model.ActionCreate:
		if outcome.Error != "" {
			return "Couldn't create the task: " + outcome.Error
		}
		title := draft.Title
		if title == "" {
			title = "task"
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "✅ Created \"%s\"", truncate(title, 20))
		if draft.DueDate != "" {
			fmt.Fprintf(&sb, "\n📅 Due: %s", draft.DueDate)
		}
		if draft.ReminderDate != "" {
			fmt.Fprintf(&sb, "\n⏰ Reminder: %s", draft.ReminderDate)
			if draft.ReminderTime != "" {
				fmt.Fprintf(&sb, " %s", draft.ReminderTime)
			}
		}
		return sb.String()

	case model.ActionComplete:
		if outcome.Error != "" {
			return "Couldn't mark it done: " + outcome.Error
		}
		return "✅ Task completed!"

	case model.ActionDelete:
		if outcome.Error != "" {
			return "Couldn't delete it: " + outcome.Error
		}
		return "🗑️ Task deleted"

	case model.ActionUpdate:
		if outcome.Error != "" {
			return "Couldn't update it: " + outcome.Error
		}
		return "✏️ Task updated"

	case model.ActionList:
		if outcome.Error != "" {
			return ""
		}
		return fmt.Sprintf("📋 You have %d open tasks", len(outcome.Tasks))

	case model.ActionSearch:
		if outcome.Error != "" {
			return ""
		}
		query := draft.SearchQuery
		if query == "" {
			query = draft.Title
		}
		return fmt.Sprintf("🔍 Found %d tasks matching \"%s\"", len(outcome.Tasks), query)
	}

	return ""
}

// synthesizeResponse makes one low-token model call over the exact draft
// fields so the reply cannot fabricate values absent from the draft.
func (uc *implUseCase) synthesizeResponse(ctx context.Context, input intent.RespondInput) string {
	draft := input.Draft

	prompt := fmt.Sprintf(
		"Action: %s\nTask: %s\nDue: %s\nReminder: %s %s\nResult: %s\n\nWrite the confirmation:",
		draft.Action,
		truncate(draft.Title, 30),
		orNone(draft.DueDate),
		orNone(draft.ReminderDate),
		draft.ReminderTime,
		orNone(truncate(input.Outcome.Error, 100)),
	)

	req := &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role: "system",
			Parts: []llmprovider.Part{{Text: "Write a short friendly confirmation of the operation result. " +
				"At most one sentence. Mention dates naturally when present. Suggest a simple fix on failure."}},
		},
		Messages: []llmprovider.Message{
			{Role: "user", Parts: []llmprovider.Part{{Text: prompt}}},
		},
		Temperature: 0.7,
		MaxTokens:   100,
	}

	resp, err := uc.caller.GenerateContent(ctx, req)
	if err != nil {
		uc.l.Errorf(ctx, "respond: synthesis call failed: %v", err)
		return ""
	}
	return strings.TrimSpace(resp.Text())
}

// fallbackResponse is the deterministic last resort per action.
func fallbackResponse(action model.Action) string {
	switch action {
	case model.ActionCreate:
		return "Task created."
	case model.ActionComplete:
		return "Task marked as done."
	case model.ActionUpdate:
		return "Task updated."
	case model.ActionDelete:
		return "Task deleted."
	case model.ActionList:
		return "Here are your tasks:"
	case model.ActionSearch:
		return "Search results:"
	}
	return "Got it, working on it."
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
