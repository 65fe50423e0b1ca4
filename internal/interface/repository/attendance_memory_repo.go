package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"

	"github.com/google/uuid"
)

type dayKey struct {
	personID string
	day      int64
}

// InMemoryAttendanceRepository keeps records in process memory.
// A single mutex guards both maps, which makes UpsertArrival atomic.
type InMemoryAttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]*entity.AttendanceRecord
	byDay   map[dayKey]string
}

// NewInMemoryAttendanceRepository creates an empty in-memory store
func NewInMemoryAttendanceRepository() *InMemoryAttendanceRepository {
	return &InMemoryAttendanceRepository{
		records: make(map[string]*entity.AttendanceRecord),
		byDay:   make(map[dayKey]string),
	}
}

var _ repository.AttendanceRepository = (*InMemoryAttendanceRepository)(nil)

func keyOf(personID string, day time.Time) dayKey {
	return dayKey{personID: personID, day: day.Unix()}
}

func cloneRecord(r *entity.AttendanceRecord) *entity.AttendanceRecord {
	c := *r
	if r.ArrivalTime != nil {
		t := *r.ArrivalTime
		c.ArrivalTime = &t
	}
	if r.DepartureTime != nil {
		t := *r.DepartureTime
		c.DepartureTime = &t
	}
	return &c
}

// FindByID returns the record with the given id
func (r *InMemoryAttendanceRepository) FindByID(_ context.Context, id string) (*entity.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, entity.ErrRecordNotFound)
	}
	return cloneRecord(record), nil
}

// FindByPersonAndDay returns the record of personID on day
func (r *InMemoryAttendanceRepository) FindByPersonAndDay(_ context.Context, personID string, day time.Time) (*entity.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[keyOf(personID, day)]
	if !ok {
		return nil, fmt.Errorf("record of %s on %s: %w", personID, entity.FormatDay(day), entity.ErrRecordNotFound)
	}
	return cloneRecord(r.records[id]), nil
}

// Create inserts a new record
func (r *InMemoryAttendanceRepository) Create(_ context.Context, record *entity.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(record.PersonID, record.Day)
	if _, taken := r.byDay[key]; taken {
		return fmt.Errorf("record of %s on %s: %w", record.PersonID, entity.FormatDay(record.Day), entity.ErrConflict)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if _, taken := r.records[record.ID]; taken {
		return fmt.Errorf("record %s: %w", record.ID, entity.ErrConflict)
	}

	r.records[record.ID] = cloneRecord(record)
	r.byDay[key] = record.ID
	return nil
}

// UpsertArrival creates the record or reopens it with a new arrival time
func (r *InMemoryAttendanceRepository) UpsertArrival(_ context.Context, personID string, day, arrivalTime time.Time, remarks string) (*entity.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(personID, day)
	if id, ok := r.byDay[key]; ok {
		record := r.records[id]
		arrival := arrivalTime
		record.ArrivalTime = &arrival
		record.DepartureTime = nil
		record.IsPresent = true
		if remarks != "" {
			record.Remarks = remarks
		}
		record.UpdatedAt = arrivalTime
		return cloneRecord(record), nil
	}

	arrival := arrivalTime
	record := &entity.AttendanceRecord{
		ID:          uuid.NewString(),
		PersonID:    personID,
		Day:         day,
		ArrivalTime: &arrival,
		Remarks:     remarks,
		IsPresent:   true,
		CreatedAt:   arrivalTime,
		UpdatedAt:   arrivalTime,
	}
	r.records[record.ID] = record
	r.byDay[key] = record.ID
	return cloneRecord(record), nil
}

// UpdateByID applies patch to the record with the given id
func (r *InMemoryAttendanceRepository) UpdateByID(_ context.Context, id string, patch entity.RecordPatch, updatedAt time.Time) (*entity.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, entity.ErrRecordNotFound)
	}
	if guard, ok := patch.Guard(); !ok || !guard.Allows(record) {
		return nil, fmt.Errorf("record %s: %w", id, entity.NewOrderingError())
	}
	patch.Apply(record)
	record.UpdatedAt = updatedAt
	return cloneRecord(record), nil
}

// DeleteByID removes the record permanently
func (r *InMemoryAttendanceRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return fmt.Errorf("record %s: %w", id, entity.ErrRecordNotFound)
	}
	delete(r.byDay, keyOf(record.PersonID, record.Day))
	delete(r.records, id)
	return nil
}

// FindByDay returns every record of day in creation order
func (r *InMemoryAttendanceRepository) FindByDay(_ context.Context, day time.Time) ([]*entity.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.AttendanceRecord, 0)
	for _, record := range r.records {
		if record.Day.Equal(day) {
			result = append(result, cloneRecord(record))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// FindByPersonAndRange returns the records of personID within [start, end], newest day first
func (r *InMemoryAttendanceRepository) FindByPersonAndRange(_ context.Context, personID string, start, end *time.Time) ([]*entity.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.AttendanceRecord, 0)
	for _, record := range r.records {
		if record.PersonID != personID {
			continue
		}
		if start != nil && record.Day.Before(*start) {
			continue
		}
		if end != nil && record.Day.After(*end) {
			continue
		}
		result = append(result, cloneRecord(record))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.After(result[j].Day)
	})
	return result, nil
}
