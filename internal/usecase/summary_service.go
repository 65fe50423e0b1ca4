package usecase

import (
	"context"
	"fmt"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"
	"personnel-tracker/pkg/clock"
)

// SummaryService aggregates a day of attendance against the active roster
type SummaryService struct {
	attendanceRepo repository.AttendanceRepository
	personnelRepo  repository.PersonnelRepository
	populator      populator
	clock          clock.Clock
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	attendanceRepo repository.AttendanceRepository,
	personnelRepo repository.PersonnelRepository,
	clock clock.Clock,
) *SummaryService {
	return &SummaryService{
		attendanceRepo: attendanceRepo,
		personnelRepo:  personnelRepo,
		populator:      populator{personnelRepo: personnelRepo},
		clock:          clock,
	}
}

// Today builds the summary of the current day
func (s *SummaryService) Today(ctx context.Context) (*entity.DailySummary, error) {
	return s.ForDay(ctx, s.clock.Now())
}

// ForDay builds the summary of the calendar day containing day
func (s *SummaryService) ForDay(ctx context.Context, day time.Time) (*entity.DailySummary, error) {
	day = entity.StartOfDay(day)

	active, err := s.personnelRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}

	records, err := s.attendanceRepo.FindByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to find records by day: %w", err)
	}

	populated, err := s.populator.all(ctx, records, s.clock.Now())
	if err != nil {
		return nil, err
	}

	summary := &entity.DailySummary{
		Day:       day,
		Headcount: len(active),
		Records:   populated,
		Absentees: make([]*entity.PersonnelSummary, 0),
	}

	arrived := make(map[string]struct{}, len(populated))
	for _, record := range populated {
		switch record.Status {
		case entity.StatusPresent:
			summary.Arrived++
			summary.OnSite++
		case entity.StatusDeparted:
			summary.Arrived++
			summary.Departed++
		default:
			continue
		}
		arrived[record.PersonID] = struct{}{}
	}

	for _, person := range active {
		if _, ok := arrived[person.ID]; !ok {
			summary.Absentees = append(summary.Absentees, person.Summary())
		}
	}

	return summary, nil
}
