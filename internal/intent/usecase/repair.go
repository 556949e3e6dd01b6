package usecase

import (
	"context"
	"time"

	"todoflow/internal/intent"
	"todoflow/internal/model"
)

// repair enforces the future-only temporal invariants on a draft.
// Three independent rules, each idempotent, applied in any order:
//
//  1. a due date strictly before today rolls to tomorrow
//  2. a reminder instant at or before now moves to now + 30 minutes
//  3. an unparsable date or time field is cleared, never propagated
//
// Violations are logged at warn and silently corrected; repair never fails.
func (uc *implUseCase) repair(ctx context.Context, draft model.ActionDraft, now time.Time) model.ActionDraft {
	draft = uc.repairDueDate(ctx, draft, now)
	draft = uc.repairReminder(ctx, draft, now)
	return draft
}

func (uc *implUseCase) repairDueDate(ctx context.Context, draft model.ActionDraft, now time.Time) model.ActionDraft {
	if draft.DueDate == "" {
		return draft
	}

	due, err := uc.calc.ParseDate(draft.DueDate)
	if err != nil {
		uc.l.Warnf(ctx, "repair: unparsable due_date %q cleared: %v", draft.DueDate, err)
		draft.DueDate = ""
		return draft
	}

	today := uc.calc.StartOfDay(now)
	if due.Before(today) {
		dateStr, _ := uc.calc.Split(today.AddDate(0, 0, 1))
		uc.l.Warnf(ctx, "repair: past due_date %s moved to %s", draft.DueDate, dateStr)
		draft.DueDate = dateStr
	}
	return draft
}

func (uc *implUseCase) repairReminder(ctx context.Context, draft model.ActionDraft, now time.Time) model.ActionDraft {
	if draft.ReminderDate == "" {
		if draft.ReminderTime != "" {
			// A clock with no date is not actionable.
			uc.l.Warnf(ctx, "repair: reminder_time %q without reminder_date cleared", draft.ReminderTime)
			draft.ReminderTime = ""
		}
		return draft
	}

	clock := draft.ReminderTime
	if clock == "" {
		clock = "00:00"
	}

	instant, err := uc.calc.ParseDateTime(draft.ReminderDate, clock)
	if err != nil {
		uc.l.Warnf(ctx, "repair: unparsable reminder %q %q cleared: %v",
			draft.ReminderDate, draft.ReminderTime, err)
		draft.ReminderDate = ""
		draft.ReminderTime = ""
		return draft
	}

	if !instant.After(now) {
		pushed := now.Add(intent.ReminderPushAhead)
		dateStr, timeStr := uc.calc.Split(pushed)
		uc.l.Warnf(ctx, "repair: past reminder %s %s moved to %s %s",
			draft.ReminderDate, clock, dateStr, timeStr)
		draft.ReminderDate = dateStr
		draft.ReminderTime = timeStr
	}
	return draft
}
