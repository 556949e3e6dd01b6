package msgraph

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"todoflow/internal/model"
	"todoflow/internal/task/repository"
	pkgLog "todoflow/pkg/log"
	"todoflow/pkg/timecalc"
)

// graphTimeLayout is the dateTime half of a Graph dateTimeTimeZone value.
const graphTimeLayout = "2006-01-02T15:04:05"

const statusCompleted = "completed"

// dueDateClock pins date-only due dates to local end of day, keeping the
// wire date on the same calendar day after UTC conversion.
const dueDateClock = "23:59"

type implRepository struct {
	client *Client
	calc   *timecalc.Calculator
	l      pkgLog.Logger

	listOnce sync.Once
	listID   string
	listErr  error
}

// New creates a Graph-backed task repository. listID "" means the user's
// default list, resolved lazily on first use.
func New(client *Client, listID string, calc *timecalc.Calculator, l pkgLog.Logger) repository.TaskRepository {
	return &implRepository{
		client: client,
		calc:   calc,
		l:      l,
		listID: listID,
	}
}

func (r *implRepository) list(ctx context.Context) (string, error) {
	r.listOnce.Do(func() {
		if r.listID != "" {
			return
		}
		r.listID, r.listErr = r.client.DefaultListID(ctx)
		if r.listErr == nil {
			r.l.Infof(ctx, "msgraph repository: resolved default list %s", r.listID)
		}
	})
	return r.listID, r.listErr
}

func (r *implRepository) Create(ctx context.Context, opt repository.CreateOptions) (model.Task, error) {
	listID, err := r.list(ctx)
	if err != nil {
		return model.Task{}, err
	}

	t := TodoTask{Title: opt.Title}
	if opt.Description != "" {
		t.Body = &ItemBody{Content: opt.Description, ContentType: "text"}
	}
	if opt.DueDate != "" {
		due, err := r.graphDateTime(opt.DueDate, dueDateClock)
		if err != nil {
			return model.Task{}, err
		}
		t.DueDateTime = due
	}
	if opt.ReminderDate != "" {
		reminder, err := r.graphDateTime(opt.ReminderDate, opt.ReminderTime)
		if err != nil {
			return model.Task{}, err
		}
		t.ReminderDateTime = reminder
		on := true
		t.IsReminderOn = &on
	}

	created, err := r.client.CreateTask(ctx, listID, t)
	if err != nil {
		r.l.Errorf(ctx, "msgraph repository: failed to create task: %v", err)
		return model.Task{}, err
	}
	return r.toTask(created), nil
}

func (r *implRepository) Update(ctx context.Context, id string, opt repository.UpdateOptions) (model.Task, error) {
	listID, err := r.list(ctx)
	if err != nil {
		return model.Task{}, err
	}

	var patch TodoTask
	if opt.Title != nil {
		patch.Title = *opt.Title
	}
	if opt.Description != nil {
		patch.Body = &ItemBody{Content: *opt.Description, ContentType: "text"}
	}
	if opt.DueDate != nil && *opt.DueDate != "" {
		due, err := r.graphDateTime(*opt.DueDate, dueDateClock)
		if err != nil {
			return model.Task{}, err
		}
		patch.DueDateTime = due
	}
	if opt.ReminderDate != nil && *opt.ReminderDate != "" {
		clock := ""
		if opt.ReminderTime != nil {
			clock = *opt.ReminderTime
		}
		reminder, err := r.graphDateTime(*opt.ReminderDate, clock)
		if err != nil {
			return model.Task{}, err
		}
		patch.ReminderDateTime = reminder
		on := true
		patch.IsReminderOn = &on
	}

	updated, err := r.client.UpdateTask(ctx, listID, id, patch)
	if err != nil {
		r.l.Errorf(ctx, "msgraph repository: failed to update task %s: %v", id, err)
		return model.Task{}, err
	}
	return r.toTask(updated), nil
}

func (r *implRepository) Complete(ctx context.Context, id string) error {
	listID, err := r.list(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.UpdateTask(ctx, listID, id, TodoTask{Status: statusCompleted}); err != nil {
		r.l.Errorf(ctx, "msgraph repository: failed to complete task %s: %v", id, err)
		return err
	}
	return nil
}

func (r *implRepository) Delete(ctx context.Context, id string) error {
	listID, err := r.list(ctx)
	if err != nil {
		return err
	}
	if err := r.client.DeleteTask(ctx, listID, id); err != nil {
		r.l.Errorf(ctx, "msgraph repository: failed to delete task %s: %v", id, err)
		return err
	}
	return nil
}

func (r *implRepository) List(ctx context.Context, opt repository.ListOptions) ([]model.Task, error) {
	listID, err := r.list(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := r.client.ListTasks(ctx, listID, opt.IncludeCompleted, opt.Limit)
	if err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(raw))
	for i := range raw {
		tasks = append(tasks, r.toTask(&raw[i]))
	}
	return tasks, nil
}

// graphDateTime converts canonical local date/time strings into a Graph
// dateTimeTimeZone in UTC. An empty clock means local midnight.
func (r *implRepository) graphDateTime(date, clock string) (*GraphDateTime, error) {
	if clock == "" {
		clock = "00:00"
	}
	local, err := r.calc.ParseDateTime(date, clock)
	if err != nil {
		return nil, fmt.Errorf("invalid datetime %q %q: %w", date, clock, err)
	}
	return &GraphDateTime{
		DateTime: local.UTC().Format(graphTimeLayout),
		TimeZone: "UTC",
	}, nil
}

// toTask converts a Graph todoTask back into the internal model, rendering
// UTC wire instants as canonical local date and time strings.
func (r *implRepository) toTask(t *TodoTask) model.Task {
	out := model.Task{
		ID:         t.ID,
		Title:      t.Title,
		Completed:  t.Status == statusCompleted,
		CreateTime: t.CreatedDateTime,
		UpdateTime: t.LastModifiedDateTime,
	}
	if t.Body != nil {
		out.Description = strings.TrimSpace(t.Body.Content)
	}
	if due, ok := r.localInstant(t.DueDateTime); ok {
		out.DueDate, _ = r.calc.Split(due)
	}
	if reminder, ok := r.localInstant(t.ReminderDateTime); ok {
		out.ReminderDate, out.ReminderTime = r.calc.Split(reminder)
	}
	return out
}

// localInstant parses a Graph dateTimeTimeZone into a local instant.
// Graph emits dateTime with a variable fractional part, so only the first
// nineteen characters are significant.
func (r *implRepository) localInstant(g *GraphDateTime) (time.Time, bool) {
	if g == nil || g.DateTime == "" {
		return time.Time{}, false
	}
	raw := g.DateTime
	if len(raw) > len(graphTimeLayout) {
		raw = raw[:len(graphTimeLayout)]
	}
	loc := time.UTC
	if g.TimeZone != "" && g.TimeZone != "UTC" {
		if parsed, err := time.LoadLocation(g.TimeZone); err == nil {
			loc = parsed
		}
	}
	instant, err := time.ParseInLocation(graphTimeLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return instant.In(r.calc.Location()), true
}
