package repository

import (
	"context"
	"time"

	"personnel-tracker/internal/domain/entity"
)

// AttendanceRepository is the durable store of attendance records.
// Implementations keep at most one record per (personID, day).
type AttendanceRepository interface {
	FindByID(ctx context.Context, id string) (*entity.AttendanceRecord, error)
	FindByPersonAndDay(ctx context.Context, personID string, day time.Time) (*entity.AttendanceRecord, error)
	// Create fails with entity.ErrConflict if (personID, day) is taken
	Create(ctx context.Context, record *entity.AttendanceRecord) error
	// UpsertArrival creates or updates the (personID, day) record in one atomic step
	UpsertArrival(ctx context.Context, personID string, day, arrivalTime time.Time, remarks string) (*entity.AttendanceRecord, error)
	UpdateByID(ctx context.Context, id string, patch entity.RecordPatch, updatedAt time.Time) (*entity.AttendanceRecord, error)
	DeleteByID(ctx context.Context, id string) error
	FindByDay(ctx context.Context, day time.Time) ([]*entity.AttendanceRecord, error)
	// FindByPersonAndRange returns records sorted by day descending; nil bounds are open
	FindByPersonAndRange(ctx context.Context, personID string, start, end *time.Time) ([]*entity.AttendanceRecord, error)
}
