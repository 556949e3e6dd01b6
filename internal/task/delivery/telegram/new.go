package telegram

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"todoflow/internal/task"
	pkgLog "todoflow/pkg/log"
	pkgTelegram "todoflow/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)

	// Drain blocks until in-flight background updates finish. Webhooks
	// are acknowledged before processing, so shutdown must wait here or
	// acknowledged updates get dropped.
	Drain()
}

// Options tunes the handler; zero values fall back to defaults.
type Options struct {
	SessionTTL     time.Duration // How long a decomposition awaits confirmation
	ProcessTimeout time.Duration // Budget for one background update
}

type handler struct {
	l        pkgLog.Logger
	uc       task.UseCase
	bot      *pkgTelegram.Bot
	sessions *sessionStore
	timeout  time.Duration

	// wg tracks in-flight background updates; Drain waits on it.
	wg sync.WaitGroup
}

// Drain implements Handler.
func (h *handler) Drain() {
	h.wg.Wait()
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, uc task.UseCase, bot *pkgTelegram.Bot, opts Options) *handler {
	timeout := opts.ProcessTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &handler{
		l:        l,
		uc:       uc,
		bot:      bot,
		sessions: newSessionStore(opts.SessionTTL),
		timeout:  timeout,
	}
}
