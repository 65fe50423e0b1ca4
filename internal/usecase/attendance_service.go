package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"
	"personnel-tracker/pkg/clock"
	"personnel-tracker/pkg/logger"
	"personnel-tracker/pkg/metrics"
)

// AttendanceService owns the attendance record lifecycle: arrivals,
// departures, direct corrections, remark edits and deletion
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
	personnelRepo  repository.PersonnelRepository
	populator      populator
	clock          clock.Clock
	metrics        *metrics.Metrics
	logger         logger.Logger
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	personnelRepo repository.PersonnelRepository,
	clock clock.Clock,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		personnelRepo:  personnelRepo,
		populator:      populator{personnelRepo: personnelRepo},
		clock:          clock,
		metrics:        metrics,
		logger:         logger,
	}
}

// MarkArrival stamps an arrival for today. The first arrival of the day
// creates the record; a later one overwrites the arrival time and reopens
// the day if the person had already departed.
func (s *AttendanceService) MarkArrival(ctx context.Context, personID, remarks string) (*entity.PopulatedRecord, error) {
	person, err := s.activePerson(ctx, personID)
	if err != nil {
		s.metrics.ObserveError("mark_arrival")
		return nil, err
	}

	now := s.clock.Now()
	day := entity.StartOfDay(now)

	record, err := s.attendanceRepo.UpsertArrival(ctx, person.ID, day, now, strings.TrimSpace(remarks))
	if err != nil {
		s.metrics.ObserveError("mark_arrival")
		return nil, fmt.Errorf("failed to record arrival: %w", err)
	}

	s.metrics.ArrivalsMarked.Inc()
	s.logger.Info("Arrival marked",
		"personId", person.ID,
		"recordId", record.ID,
		"day", entity.FormatDay(day))

	return entity.Populate(record, person.Summary(), now), nil
}

// MarkDeparture stamps a departure on today's record. It fails with
// ErrRecordNotFound when the person has no record today.
func (s *AttendanceService) MarkDeparture(ctx context.Context, personID, remarks string) (*entity.PopulatedRecord, error) {
	person, err := s.activePerson(ctx, personID)
	if err != nil {
		s.metrics.ObserveError("mark_departure")
		return nil, err
	}

	now := s.clock.Now()
	day := entity.StartOfDay(now)

	existing, err := s.attendanceRepo.FindByPersonAndDay(ctx, person.ID, day)
	if err != nil {
		s.metrics.ObserveError("mark_departure")
		if errors.Is(err, entity.ErrRecordNotFound) {
			return nil, fmt.Errorf("no arrival recorded for %s today: %w", person.ID, entity.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to find today's record: %w", err)
	}

	patch := entity.RecordPatch{DepartureTime: entity.SetTime(now)}
	if trimmed := strings.TrimSpace(remarks); trimmed != "" {
		patch.Remarks = &trimmed
	}

	record, err := s.attendanceRepo.UpdateByID(ctx, existing.ID, patch, now)
	if err != nil {
		s.metrics.ObserveError("mark_departure")
		return nil, fmt.Errorf("failed to record departure: %w", err)
	}

	s.metrics.DeparturesMarked.Inc()
	s.logger.Info("Departure marked",
		"personId", person.ID,
		"recordId", record.ID,
		"day", entity.FormatDay(day))

	return entity.Populate(record, person.Summary(), now), nil
}

// CorrectRecord edits arrival, departure and remarks directly. A nil
// TimeChange value clears the timestamp. The store refuses a result with a
// departure earlier than its arrival, checked against the stored record.
func (s *AttendanceService) CorrectRecord(ctx context.Context, id string, patch entity.RecordPatch) (*entity.PopulatedRecord, error) {
	now := s.clock.Now()
	if patch.IsEmpty() {
		existing, err := s.attendanceRepo.FindByID(ctx, id)
		if err != nil {
			s.metrics.ObserveError("correct_record")
			return nil, fmt.Errorf("failed to find record: %w", err)
		}
		return s.populator.one(ctx, existing, now)
	}

	if patch.Remarks != nil {
		trimmed := strings.TrimSpace(*patch.Remarks)
		patch.Remarks = &trimmed
	}
	patch.Ordered = true

	record, err := s.attendanceRepo.UpdateByID(ctx, id, patch, now)
	if err != nil {
		s.metrics.ObserveError("correct_record")
		return nil, fmt.Errorf("failed to correct record: %w", err)
	}

	s.metrics.Corrections.Inc()
	s.logger.Info("Record corrected", "recordId", id, "personId", record.PersonID)

	return s.populator.one(ctx, record, now)
}

// UpdateRemarks replaces the remarks of a record; empty clears them
func (s *AttendanceService) UpdateRemarks(ctx context.Context, id, remarks string) (*entity.PopulatedRecord, error) {
	trimmed := strings.TrimSpace(remarks)
	now := s.clock.Now()

	record, err := s.attendanceRepo.UpdateByID(ctx, id, entity.RecordPatch{Remarks: &trimmed}, now)
	if err != nil {
		s.metrics.ObserveError("update_remarks")
		return nil, fmt.Errorf("failed to update remarks: %w", err)
	}

	s.logger.Debug("Remarks updated", "recordId", id)
	return s.populator.one(ctx, record, now)
}

// DeleteRecord removes a record permanently
func (s *AttendanceService) DeleteRecord(ctx context.Context, id string) error {
	if err := s.attendanceRepo.DeleteByID(ctx, id); err != nil {
		s.metrics.ObserveError("delete_record")
		return fmt.Errorf("failed to delete record: %w", err)
	}

	s.metrics.Deletions.Inc()
	s.logger.Info("Record deleted", "recordId", id)
	return nil
}

// activePerson resolves personID to a person that may be marked.
// Unknown and deactivated persons are both ErrPersonNotFound.
func (s *AttendanceService) activePerson(ctx context.Context, personID string) (*entity.Personnel, error) {
	personID = strings.TrimSpace(personID)
	if personID == "" {
		return nil, entity.NewValidationError("personId", "is required")
	}

	person, err := s.personnelRepo.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, entity.ErrPersonNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find person: %w", err)
	}
	if !person.IsActive {
		return nil, fmt.Errorf("person %s is inactive: %w", personID, entity.ErrPersonNotFound)
	}
	return person, nil
}
