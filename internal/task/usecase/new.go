package usecase

import (
	"todoflow/internal/intent"
	"todoflow/internal/task/repository"
	"todoflow/pkg/gcalendar"
	pkgLog "todoflow/pkg/log"
	"todoflow/pkg/timecalc"
)

type implUseCase struct {
	l        pkgLog.Logger
	engine   intent.UseCase
	repo     repository.TaskRepository
	calendar *gcalendar.Client // optional reminder mirror, may be nil
	calc     *timecalc.Calculator
}

// New creates a new task UseCase instance.
func New(
	l pkgLog.Logger,
	engine intent.UseCase,
	repo repository.TaskRepository,
	calendar *gcalendar.Client,
	calc *timecalc.Calculator,
) *implUseCase {
	return &implUseCase{
		l:        l,
		engine:   engine,
		repo:     repo,
		calendar: calendar,
		calc:     calc,
	}
}
