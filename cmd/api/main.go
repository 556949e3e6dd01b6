package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoflow/config"
	_ "todoflow/docs" // Swagger docs
	"todoflow/internal/httpserver"
	"todoflow/internal/intent"
	intentUC "todoflow/internal/intent/usecase"
	"todoflow/internal/middleware"
	tgDelivery "todoflow/internal/task/delivery/telegram"
	"todoflow/internal/task/repository/msgraph"
	"todoflow/internal/task/usecase"
	"todoflow/pkg/gcalendar"
	"todoflow/pkg/llmprovider"
	"todoflow/pkg/log"
	"todoflow/pkg/telegram"
	"todoflow/pkg/timecalc"
)

// @title       TodoFlow API
// @description Natural language todo assistant: Telegram in, Microsoft To Do out.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting TodoFlow...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	if cfg.Telegram.BotToken == "" {
		logger.Error(ctx, "TELEGRAM_BOT_TOKEN is required")
		return
	}
	if cfg.MSGraph.ClientID == "" || cfg.MSGraph.RefreshToken == "" {
		logger.Error(ctx, "MSGRAPH_CLIENT_ID and MSGRAPH_REFRESH_TOKEN are required")
		return
	}

	// 3. Time calculator
	calc, err := timecalc.New(cfg.Intent.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Intent.Timezone, err)
		calc, _ = timecalc.New("UTC")
	}

	// 4. LLM provider chain
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	llmManager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDuration(cfg.LLM.RetryDelay, time.Second),
		MaxTotalTimeout: parseDuration(cfg.LLM.MaxTotalTimeout, 60*time.Second),
	}, logger)
	logger.Infof(ctx, "LLM chain ready with %d provider(s), vision=%v", len(providers), llmManager.SupportsVision())

	// 5. Intent engine
	engine := intentUC.New(logger, llmManager, calc, intent.Config{
		ComplexityLexicon: cfg.Intent.ComplexityLexicon,
		MaxCandidates:     cfg.Intent.MaxCandidates,
		ExtractRetries:    cfg.Intent.ExtractRetries,
		RetryBackoff:      parseDuration(cfg.Intent.RetryDelay, 0),
	})

	// 6. Microsoft Graph To Do repository
	graphHTTP := msgraph.NewHTTPClient(ctx, msgraph.AuthConfig{
		TenantID:     cfg.MSGraph.TenantID,
		ClientID:     cfg.MSGraph.ClientID,
		ClientSecret: cfg.MSGraph.ClientSecret,
		RefreshToken: cfg.MSGraph.RefreshToken,
	})
	graphClient := msgraph.NewClient(msgraph.DefaultBaseURL, graphHTTP)
	taskRepo := msgraph.New(graphClient, cfg.MSGraph.ListID, calc, logger)

	// 7. Google Calendar reminder mirror (optional)
	var calendarClient *gcalendar.Client
	if cfg.GoogleCalendar.CredentialsPath != "" {
		calendarClient, err = gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.CalendarID)
		if err != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", err)
		} else {
			logger.Info(ctx, "✅ Google Calendar initialized")
		}
	}

	// 8. Task UseCase and Telegram delivery
	taskUC := usecase.New(logger, engine, taskRepo, calendarClient, calc)

	telegramBot := telegram.NewBot(cfg.Telegram.BotToken)
	telegramHandler := tgDelivery.New(logger, taskUC, telegramBot, tgDelivery.Options{})

	webhookURL := cfg.Telegram.WebhookURL
	if webhookURL == "" {
		ngrokURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040")
		if ngrokErr != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
		} else {
			webhookURL = ngrokURL + "/webhook/telegram"
			logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
		}
	}
	if webhookURL != "" {
		if whErr := telegramBot.SetWebhook(webhookURL, cfg.Telegram.SecretToken); whErr != nil {
			logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
		} else {
			logger.Infof(ctx, "✅ Telegram webhook registered at %s", webhookURL)
		}
	}

	// 9. HTTP server
	mw := middleware.New(logger, cfg.Telegram.SecretToken,
		float64(cfg.Telegram.RateLimitPerMin)/60.0, cfg.Telegram.RateLimitBurst)

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		Middleware:      mw,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		telegramHandler.Drain()
		return
	}

	logger.Info(ctx, "Waiting for in-flight Telegram updates")
	telegramHandler.Drain()

	logger.Info(ctx, "Server stopped gracefully")
}

// parseDuration falls back when the configured value is empty or malformed.
func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
