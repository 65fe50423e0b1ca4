package usecase

import (
	"context"
	"fmt"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"
	"personnel-tracker/pkg/clock"
	"personnel-tracker/pkg/logger"
	"personnel-tracker/pkg/metrics"
)

// DigestService renders the daily summary and hands it to a notifier
type DigestService struct {
	summaries *SummaryService
	renderer  DigestRenderer
	notifier  repository.NotificationRepository
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewDigestService creates a new digest service
func NewDigestService(
	summaries *SummaryService,
	renderer DigestRenderer,
	notifier repository.NotificationRepository,
	clock clock.Clock,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *DigestService {
	return &DigestService{
		summaries: summaries,
		renderer:  renderer,
		notifier:  notifier,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Send builds and delivers the digest of the calendar day containing day
func (d *DigestService) Send(ctx context.Context, day time.Time) error {
	summary, err := d.summaries.ForDay(ctx, day)
	if err != nil {
		d.metrics.ObserveError("send_digest")
		return fmt.Errorf("failed to build summary: %w", err)
	}

	subject, body, err := d.renderer.Render(summary, d.clock.Now())
	if err != nil {
		d.metrics.ObserveError("send_digest")
		return fmt.Errorf("failed to render digest: %w", err)
	}

	if err := d.notifier.Send(ctx, subject, body); err != nil {
		d.metrics.ObserveError("send_digest")
		return fmt.Errorf("failed to send digest: %w", err)
	}

	d.metrics.DigestsSent.Inc()
	d.logger.Info("Daily digest sent",
		"day", entity.FormatDay(summary.Day),
		"records", len(summary.Records),
		"absent", summary.Absent())
	return nil
}
