package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"
	"personnel-tracker/pkg/clock"
)

// QueryService serves the read-only attendance views
type QueryService struct {
	attendanceRepo repository.AttendanceRepository
	populator      populator
	clock          clock.Clock
}

// NewQueryService creates a new query service
func NewQueryService(
	attendanceRepo repository.AttendanceRepository,
	personnelRepo repository.PersonnelRepository,
	clock clock.Clock,
) *QueryService {
	return &QueryService{
		attendanceRepo: attendanceRepo,
		populator:      populator{personnelRepo: personnelRepo},
		clock:          clock,
	}
}

// Today returns today's records
func (q *QueryService) Today(ctx context.Context) ([]*entity.PopulatedRecord, error) {
	return q.ByDay(ctx, q.clock.Now())
}

// ByDay returns the records of the calendar day containing day, in creation order
func (q *QueryService) ByDay(ctx context.Context, day time.Time) ([]*entity.PopulatedRecord, error) {
	records, err := q.attendanceRepo.FindByDay(ctx, entity.StartOfDay(day))
	if err != nil {
		return nil, fmt.Errorf("failed to find records by day: %w", err)
	}
	return q.populator.all(ctx, records, q.clock.Now())
}

// ByPerson returns a person's records between start and end inclusive,
// newest day first. Either bound may be nil.
func (q *QueryService) ByPerson(ctx context.Context, personID string, start, end *time.Time) ([]*entity.PopulatedRecord, error) {
	personID = strings.TrimSpace(personID)
	if personID == "" {
		return nil, entity.NewValidationError("personId", "is required")
	}

	var from, to *time.Time
	if start != nil {
		d := entity.StartOfDay(*start)
		from = &d
	}
	if end != nil {
		d := entity.StartOfDay(*end)
		to = &d
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, entity.NewValidationError("startDate", "must not be after endDate")
	}

	records, err := q.attendanceRepo.FindByPersonAndRange(ctx, personID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find records of person: %w", err)
	}
	return q.populator.all(ctx, records, q.clock.Now())
}
