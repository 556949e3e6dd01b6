package usecase

import (
	"context"
	"fmt"
	"strings"

	"todoflow/internal/intent"
	"todoflow/internal/model"
	"todoflow/internal/task"
)

const (
	candidateListLimit = 50
	renderedTaskLimit  = 10
)

func (uc *implUseCase) ProcessText(ctx context.Context, sc model.Scope, input task.ProcessTextInput) (task.ProcessOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return task.ProcessOutput{}, task.ErrEmptyInput
	}

	result := uc.engine.Analyze(ctx, sc, intent.AnalyzeInput{
		Text:       text,
		Candidates: uc.candidates(ctx),
	})

	if result.Decomposition != nil {
		return task.ProcessOutput{Pending: result.Decomposition}, nil
	}

	draft := *result.Draft
	outcome := uc.execute(ctx, &draft)
	reply := uc.engine.Respond(ctx, intent.RespondInput{Draft: draft, Outcome: outcome})
	if draft.Action == model.ActionList || draft.Action == model.ActionSearch {
		reply = appendTaskLines(reply, outcome.Tasks)
	}
	return task.ProcessOutput{Reply: reply}, nil
}

func (uc *implUseCase) ProcessImage(ctx context.Context, sc model.Scope, input task.ProcessImageInput) (task.ProcessOutput, error) {
	if len(input.ImageData) == 0 && strings.TrimSpace(input.Caption) == "" {
		return task.ProcessOutput{}, task.ErrEmptyImage
	}

	drafts := uc.engine.AnalyzeImage(ctx, sc, intent.AnalyzeImageInput{
		ImageData:  input.ImageData,
		MIMEType:   input.MIMEType,
		Caption:    input.Caption,
		Candidates: uc.candidates(ctx),
	})

	if len(drafts) == 1 {
		outcome := uc.execute(ctx, &drafts[0])
		reply := uc.engine.Respond(ctx, intent.RespondInput{Draft: drafts[0], Outcome: outcome})
		return task.ProcessOutput{Reply: reply}, nil
	}

	var created []model.Task
	for i := range drafts {
		outcome := uc.execute(ctx, &drafts[i])
		if outcome.Error != "" {
			uc.l.Warnf(ctx, "process image: draft %d failed: %s", i, outcome.Error)
			continue
		}
		created = append(created, outcome.Tasks...)
	}

	if len(created) == 0 {
		return task.ProcessOutput{Reply: "Couldn't create any tasks from that photo."}, nil
	}
	reply := fmt.Sprintf("✅ Created %d tasks from your photo", len(created))
	return task.ProcessOutput{Reply: appendTaskLines(reply, created)}, nil
}

func (uc *implUseCase) ConfirmDecomposition(ctx context.Context, sc model.Scope, input task.ConfirmInput) (task.ProcessOutput, error) {
	dec := input.Decomposition

	switch input.Choice {
	case task.ConfirmCancel:
		uc.l.Infof(ctx, "confirm: user=%s cancelled %d-subtask plan", sc.UserID, len(dec.Subtasks))
		return task.ProcessOutput{Reply: "👌 Cancelled — nothing was created."}, nil

	case task.ConfirmOriginal:
		draft := dec.Original
		outcome := uc.execute(ctx, &draft)
		reply := uc.engine.Respond(ctx, intent.RespondInput{Draft: draft, Outcome: outcome})
		return task.ProcessOutput{Reply: reply}, nil

	case task.ConfirmAll:
		created := 0
		for i, sub := range dec.Subtasks {
			draft := model.ActionDraft{
				Action:      model.ActionCreate,
				Title:       sub.Title,
				Description: sub.Description,
				DueDate:     sub.DueDate,
			}
			if outcome := uc.execute(ctx, &draft); outcome.Error != "" {
				uc.l.Warnf(ctx, "confirm: subtask %d failed: %s", i, outcome.Error)
			} else {
				created++
			}
		}
		if created == 0 {
			return task.ProcessOutput{Reply: "Couldn't create the subtasks, please try again."}, nil
		}
		reply := fmt.Sprintf("✅ Created %d of %d subtasks", created, len(dec.Subtasks))
		if last := dec.Subtasks[len(dec.Subtasks)-1]; last.DueDate != "" {
			reply += fmt.Sprintf("\n🏁 Final step due %s", last.DueDate)
		}
		return task.ProcessOutput{Reply: reply}, nil
	}

	return task.ProcessOutput{}, task.ErrSessionNotFound
}

// candidates loads the disambiguation pool. Failures degrade to an empty
// pool; the engine then passes mutation drafts through unresolved.
func (uc *implUseCase) candidates(ctx context.Context) []model.CandidateEntity {
	tasks, err := uc.repo.List(ctx, listOptions(true))
	if err != nil {
		uc.l.Warnf(ctx, "candidates: list failed, continuing without: %v", err)
		return nil
	}
	out := make([]model.CandidateEntity, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Candidate())
	}
	return out
}

// appendTaskLines renders a bounded bullet list under a reply header.
func appendTaskLines(reply string, tasks []model.Task) string {
	var sb strings.Builder
	sb.WriteString(reply)
	for i, t := range tasks {
		if i == renderedTaskLimit {
			fmt.Fprintf(&sb, "\n…and %d more", len(tasks)-renderedTaskLimit)
			break
		}
		sb.WriteString("\n• " + t.Title)
		if t.DueDate != "" {
			sb.WriteString(" (📅 " + t.DueDate + ")")
		}
	}
	return sb.String()
}
