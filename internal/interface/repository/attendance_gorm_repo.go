package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAttendanceRepository implements AttendanceRepository on PostgreSQL
type GormAttendanceRepository struct {
	db *gorm.DB
}

var _ repository.AttendanceRepository = (*GormAttendanceRepository)(nil)

// NewGormAttendanceRepository creates a new GORM attendance repository.
// The schema, including the (person_id, day) unique constraint, comes from
// the goose migrations.
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{
		db: db,
	}
}

// AttendanceRecords GORM model for database mapping
type AttendanceRecords struct {
	ID            string     `gorm:"column:id;primaryKey"`
	PersonID      string     `gorm:"column:person_id"`
	Day           time.Time  `gorm:"column:day"`
	ArrivalTime   *time.Time `gorm:"column:arrival_time"`
	DepartureTime *time.Time `gorm:"column:departure_time"`
	Remarks       string     `gorm:"column:remarks"`
	IsPresent     bool       `gorm:"column:is_present"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (AttendanceRecords) TableName() string {
	return "attendance_records"
}

func (m *AttendanceRecords) toEntity() *entity.AttendanceRecord {
	return &entity.AttendanceRecord{
		ID:            m.ID,
		PersonID:      m.PersonID,
		Day:           m.Day,
		ArrivalTime:   m.ArrivalTime,
		DepartureTime: m.DepartureTime,
		Remarks:       m.Remarks,
		IsPresent:     m.IsPresent,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func mapGormError(op string, err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, entity.ErrConflict)
	default:
		return entity.NewStorageError(op, err)
	}
}

// FindByID finds a record by id
func (r *GormAttendanceRepository) FindByID(ctx context.Context, id string) (*entity.AttendanceRecord, error) {
	var model AttendanceRecords
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		return nil, mapGormError("find record "+id, result.Error, entity.ErrRecordNotFound)
	}
	return model.toEntity(), nil
}

// FindByPersonAndDay finds the record of a person on a day
func (r *GormAttendanceRepository) FindByPersonAndDay(ctx context.Context, personID string, day time.Time) (*entity.AttendanceRecord, error) {
	var model AttendanceRecords
	result := r.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Where("day = ?", day).
		First(&model)
	if result.Error != nil {
		return nil, mapGormError("find record of "+personID, result.Error, entity.ErrRecordNotFound)
	}
	return model.toEntity(), nil
}

// Create inserts a new record
func (r *GormAttendanceRepository) Create(ctx context.Context, record *entity.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	model := AttendanceRecords{
		ID:            record.ID,
		PersonID:      record.PersonID,
		Day:           record.Day,
		ArrivalTime:   record.ArrivalTime,
		DepartureTime: record.DepartureTime,
		Remarks:       record.Remarks,
		IsPresent:     record.IsPresent,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return mapGormError("create record", result.Error, entity.ErrRecordNotFound)
	}

	record.CreatedAt = model.CreatedAt
	record.UpdatedAt = model.UpdatedAt
	return nil
}

const upsertArrivalSQL = `
INSERT INTO attendance_records
    (id, person_id, day, arrival_time, departure_time, remarks, is_present, created_at, updated_at)
VALUES (?, ?, ?, ?, NULL, ?, TRUE, ?, ?)
ON CONFLICT (person_id, day) DO UPDATE SET
    arrival_time   = EXCLUDED.arrival_time,
    departure_time = NULL,
    is_present     = TRUE,
    remarks        = CASE WHEN EXCLUDED.remarks <> '' THEN EXCLUDED.remarks ELSE attendance_records.remarks END,
    updated_at     = EXCLUDED.updated_at
RETURNING id, person_id, day, arrival_time, departure_time, remarks, is_present, created_at, updated_at`

// UpsertArrival inserts the (person_id, day) row or stamps a new arrival on
// it in one statement, relying on the unique constraint for arbitration.
func (r *GormAttendanceRepository) UpsertArrival(ctx context.Context, personID string, day, arrivalTime time.Time, remarks string) (*entity.AttendanceRecord, error) {
	var model AttendanceRecords
	result := r.db.WithContext(ctx).Raw(
		upsertArrivalSQL,
		uuid.NewString(), personID, day, arrivalTime, remarks, arrivalTime, arrivalTime,
	).Scan(&model)
	if result.Error != nil {
		return nil, mapGormError("upsert arrival of "+personID, result.Error, entity.ErrRecordNotFound)
	}
	return model.toEntity(), nil
}

// UpdateByID applies patch to a record and returns the stored row. The
// ordering guard of an Ordered patch goes into the WHERE clause.
func (r *GormAttendanceRepository) UpdateByID(ctx context.Context, id string, patch entity.RecordPatch, updatedAt time.Time) (*entity.AttendanceRecord, error) {
	guard, ok := patch.Guard()
	if !ok {
		return nil, entity.NewOrderingError()
	}

	updates := map[string]interface{}{"updated_at": updatedAt}
	if patch.ArrivalTime != nil {
		updates["arrival_time"] = patch.ArrivalTime.Value
	}
	if patch.DepartureTime != nil {
		updates["departure_time"] = patch.DepartureTime.Value
	}
	if patch.Remarks != nil {
		updates["remarks"] = *patch.Remarks
	}

	var model AttendanceRecords
	query := r.db.WithContext(ctx).
		Model(&model).
		Clauses(clause.Returning{}).
		Where("id = ?", id)
	if guard.ArrivalAtMost != nil {
		query = query.Where("(arrival_time IS NULL OR arrival_time <= ?)", *guard.ArrivalAtMost)
	}
	if guard.DepartureAtLeast != nil {
		query = query.Where("(departure_time IS NULL OR departure_time >= ?)", *guard.DepartureAtLeast)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return nil, mapGormError("update record "+id, result.Error, entity.ErrRecordNotFound)
	}
	if result.RowsAffected == 0 {
		if !guard.IsZero() {
			if _, err := r.FindByID(ctx, id); err == nil {
				return nil, fmt.Errorf("update record %s: %w", id, entity.NewOrderingError())
			}
		}
		return nil, fmt.Errorf("update record %s: %w", id, entity.ErrRecordNotFound)
	}
	return model.toEntity(), nil
}

// DeleteByID removes a record
func (r *GormAttendanceRepository) DeleteByID(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&AttendanceRecords{})
	if result.Error != nil {
		return mapGormError("delete record "+id, result.Error, entity.ErrRecordNotFound)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete record %s: %w", id, entity.ErrRecordNotFound)
	}
	return nil
}

// FindByDay returns the records of a day in creation order
func (r *GormAttendanceRepository) FindByDay(ctx context.Context, day time.Time) ([]*entity.AttendanceRecord, error) {
	var models []AttendanceRecords
	result := r.db.WithContext(ctx).
		Where("day = ?", day).
		Order("created_at, id").
		Find(&models)
	if result.Error != nil {
		return nil, mapGormError("find records by day", result.Error, entity.ErrRecordNotFound)
	}
	return toEntities(models), nil
}

// FindByPersonAndRange returns a person's records within [start, end], newest first
func (r *GormAttendanceRepository) FindByPersonAndRange(ctx context.Context, personID string, start, end *time.Time) ([]*entity.AttendanceRecord, error) {
	query := r.db.WithContext(ctx).Where("person_id = ?", personID)
	if start != nil {
		query = query.Where("day >= ?", *start)
	}
	if end != nil {
		query = query.Where("day <= ?", *end)
	}

	var models []AttendanceRecords
	result := query.Order("day DESC").Find(&models)
	if result.Error != nil {
		return nil, mapGormError("find records of "+personID, result.Error, entity.ErrRecordNotFound)
	}
	return toEntities(models), nil
}

func toEntities(models []AttendanceRecords) []*entity.AttendanceRecord {
	records := make([]*entity.AttendanceRecord, 0, len(models))
	for i := range models {
		records = append(records, models[i].toEntity())
	}
	return records
}
