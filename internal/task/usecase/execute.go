package usecase

import (
	"context"
	"strings"
	"time"

	"todoflow/internal/intent"
	"todoflow/internal/model"
	"todoflow/internal/task"
	"todoflow/internal/task/repository"
	"todoflow/pkg/gcalendar"
)

// execute maps a resolved draft onto task store calls. It mutates the
// draft in place when the title-search fallback binds a missing entity id,
// so the response step can describe the actual target. Store failures come
// back as outcome errors, never as Go errors.
func (uc *implUseCase) execute(ctx context.Context, draft *model.ActionDraft) intent.ExecutionOutcome {
	switch draft.Action {
	case model.ActionCreate:
		return uc.executeCreate(ctx, draft)
	case model.ActionUpdate, model.ActionComplete, model.ActionDelete:
		return uc.executeMutation(ctx, draft)
	case model.ActionList:
		return uc.executeList(ctx)
	case model.ActionSearch:
		return uc.executeSearch(ctx, draft)
	}
	return intent.ExecutionOutcome{Error: "unsupported action " + string(draft.Action)}
}

func (uc *implUseCase) executeCreate(ctx context.Context, draft *model.ActionDraft) intent.ExecutionOutcome {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = "New task"
	}

	created, err := uc.repo.Create(ctx, repository.CreateOptions{
		Title:        title,
		Description:  draft.Description,
		DueDate:      draft.DueDate,
		ReminderDate: draft.ReminderDate,
		ReminderTime: draft.ReminderTime,
	})
	if err != nil {
		return intent.ExecutionOutcome{Error: err.Error()}
	}

	uc.mirrorReminder(ctx, created)
	return intent.ExecutionOutcome{Tasks: []model.Task{created}}
}

func (uc *implUseCase) executeMutation(ctx context.Context, draft *model.ActionDraft) intent.ExecutionOutcome {
	// When the draft title served as the lookup key it names the existing
	// task, not a rename, and must not be patched back into the store.
	titleIsSearchKey := false
	if draft.EntityID == "" {
		match, ok := uc.findByTitle(ctx, draft)
		if !ok {
			return intent.ExecutionOutcome{Error: task.ErrTaskNotFound.Error()}
		}
		draft.EntityID = match.ID
		titleIsSearchKey = true
		if draft.Title == "" {
			draft.Title = match.Title
		}
	}

	switch draft.Action {
	case model.ActionComplete:
		if err := uc.repo.Complete(ctx, draft.EntityID); err != nil {
			return intent.ExecutionOutcome{Error: err.Error()}
		}
		return intent.ExecutionOutcome{}

	case model.ActionDelete:
		if err := uc.repo.Delete(ctx, draft.EntityID); err != nil {
			return intent.ExecutionOutcome{Error: err.Error()}
		}
		return intent.ExecutionOutcome{}
	}

	opt := repository.UpdateOptions{}
	if draft.Title != "" && !titleIsSearchKey {
		opt.Title = &draft.Title
	}
	if draft.Description != "" {
		opt.Description = &draft.Description
	}
	if draft.DueDate != "" {
		opt.DueDate = &draft.DueDate
	}
	if draft.ReminderDate != "" {
		opt.ReminderDate = &draft.ReminderDate
		opt.ReminderTime = &draft.ReminderTime
	}

	updated, err := uc.repo.Update(ctx, draft.EntityID, opt)
	if err != nil {
		return intent.ExecutionOutcome{Error: err.Error()}
	}
	uc.mirrorReminder(ctx, updated)
	return intent.ExecutionOutcome{Tasks: []model.Task{updated}}
}

func (uc *implUseCase) executeList(ctx context.Context) intent.ExecutionOutcome {
	tasks, err := uc.repo.List(ctx, listOptions(false))
	if err != nil {
		return intent.ExecutionOutcome{Error: err.Error()}
	}
	return intent.ExecutionOutcome{Tasks: tasks}
}

func (uc *implUseCase) executeSearch(ctx context.Context, draft *model.ActionDraft) intent.ExecutionOutcome {
	query := searchQuery(draft)
	if query == "" {
		return uc.executeList(ctx)
	}

	tasks, err := uc.repo.List(ctx, listOptions(false))
	if err != nil {
		return intent.ExecutionOutcome{Error: err.Error()}
	}

	matched := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), strings.ToLower(query)) {
			matched = append(matched, t)
		}
	}
	return intent.ExecutionOutcome{Tasks: matched}
}

// findByTitle is the last-resort binding for a mutation draft the resolver
// left without an entity id: a case-insensitive substring scan over open
// task titles.
func (uc *implUseCase) findByTitle(ctx context.Context, draft *model.ActionDraft) (model.Task, bool) {
	query := searchQuery(draft)
	if query == "" {
		return model.Task{}, false
	}

	tasks, err := uc.repo.List(ctx, listOptions(false))
	if err != nil {
		uc.l.Warnf(ctx, "find by title: list failed: %v", err)
		return model.Task{}, false
	}

	lowered := strings.ToLower(query)
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), lowered) {
			uc.l.Infof(ctx, "find by title: %q matched task %s", query, t.ID)
			return t, true
		}
	}
	return model.Task{}, false
}

// mirrorReminder copies a reminder-bearing task into Google Calendar.
// The mirror is best effort; a calendar failure never fails the operation.
func (uc *implUseCase) mirrorReminder(ctx context.Context, t model.Task) {
	if uc.calendar == nil || t.ReminderDate == "" {
		return
	}

	start, err := uc.calc.ParseDateTime(t.ReminderDate, orMidnight(t.ReminderTime))
	if err != nil {
		uc.l.Warnf(ctx, "calendar mirror: bad reminder on task %s: %v", t.ID, err)
		return
	}

	_, err = uc.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		Summary:     t.Title,
		Description: t.Description,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		Timezone:    uc.calc.Location().String(),
	})
	if err != nil {
		uc.l.Warnf(ctx, "calendar mirror: event for task %s failed: %v", t.ID, err)
		return
	}
	uc.l.Infof(ctx, "calendar mirror: event created for task %s", t.ID)
}

func searchQuery(draft *model.ActionDraft) string {
	for _, q := range []string{draft.SearchQuery, draft.Title, draft.TargetDescription} {
		if s := strings.TrimSpace(q); s != "" {
			return s
		}
	}
	return ""
}

func orMidnight(clock string) string {
	if clock == "" {
		return "00:00"
	}
	return clock
}

func listOptions(includeCompleted bool) repository.ListOptions {
	return repository.ListOptions{
		IncludeCompleted: includeCompleted,
		Limit:            candidateListLimit,
	}
}
