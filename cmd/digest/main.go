package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"personnel-tracker/internal/app"
	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/infrastructure/config"
	"personnel-tracker/internal/infrastructure/oauth"
	"personnel-tracker/internal/interface/gmail"
	"personnel-tracker/internal/usecase"
	"personnel-tracker/pkg/clock"
	"personnel-tracker/pkg/logger"
	"personnel-tracker/pkg/metrics"
	"personnel-tracker/templates"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/option"
)

// digest mails the attendance summary of one day and exits. Run it from cron.
func main() {
	dayFlag := flag.String("day", "today", "day to summarize (YYYY-MM-DD or today)")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	zapLogger := logger.NewLogger(cfg.LogLevel)
	log := zapLogger.With("command", "digest")

	err = run(cfg, log, *dayFlag, *timeout)
	if err != nil {
		log.Error("Digest failed", "error", err)
	}
	zapLogger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger, dayFlag string, timeout time.Duration) error {
	if !cfg.DigestConfigured() {
		return fmt.Errorf("digest is not configured: set GMAIL_CLIENT_ID, GMAIL_CLIENT_SECRET, GMAIL_REFRESH_TOKEN and DIGEST_RECIPIENTS")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	appClock := clock.New()
	day := appClock.Now()
	if dayFlag != "today" {
		parsed, err := entity.ParseDay("day", dayFlag)
		if err != nil {
			return err
		}
		day = parsed
	}

	stores, err := app.OpenStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open stores: %w", err)
	}
	defer stores.Close(context.Background())

	gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, "", log)
	sender, err := gmail.NewDigestSender(ctx, cfg.DigestSender, cfg.DigestRecipients, log,
		option.WithTokenSource(gmailOAuth.GetTokenSource(ctx)))
	if err != nil {
		return fmt.Errorf("failed to create Gmail sender: %w", err)
	}

	summaries := usecase.NewSummaryService(stores.Attendance, stores.Personnel, appClock)
	digest := usecase.NewDigestService(
		summaries,
		templates.NewDailyDigest(),
		sender,
		appClock,
		metrics.NewMetrics("personnel_tracker", prometheus.NewRegistry()),
		log,
	)

	return digest.Send(ctx, day)
}
