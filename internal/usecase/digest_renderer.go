package usecase

import (
	"time"

	"personnel-tracker/internal/domain/entity"
)

// DigestRenderer turns a daily summary into a mail subject and body
type DigestRenderer interface {
	Render(summary *entity.DailySummary, now time.Time) (subject, body string, err error)
}
