package usecase

import (
	"time"

	"todoflow/internal/intent"
	pkgLog "todoflow/pkg/log"
	"todoflow/pkg/timecalc"
)

type implUseCase struct {
	l      pkgLog.Logger
	caller intent.StructuredCaller
	calc   *timecalc.Calculator
	cfg    intent.Config

	// nowFn exists so tests can pin the reference instant.
	nowFn func() time.Time
}

// New creates the intent analysis engine.
func New(
	l pkgLog.Logger,
	caller intent.StructuredCaller,
	calc *timecalc.Calculator,
	cfg intent.Config,
) *implUseCase {
	return &implUseCase{
		l:      l,
		caller: caller,
		calc:   calc,
		cfg:    cfg.WithDefaults(),
		nowFn:  calc.Now,
	}
}
