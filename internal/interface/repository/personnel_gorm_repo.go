package repository

import (
	"context"
	"fmt"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPersonnelRepository implements PersonnelRepository on PostgreSQL.
// Soft deletion is GORM's deleted_at; lookups by id are Unscoped so
// historical records keep their display fields.
type GormPersonnelRepository struct {
	db *gorm.DB
}

var _ repository.PersonnelRepository = (*GormPersonnelRepository)(nil)

// NewGormPersonnelRepository creates a new GORM personnel repository
func NewGormPersonnelRepository(db *gorm.DB) *GormPersonnelRepository {
	return &GormPersonnelRepository{
		db: db,
	}
}

// Personnel GORM model for database mapping
type Personnel struct {
	ID          string         `gorm:"column:id;primaryKey"`
	Name        string         `gorm:"column:name"`
	Role        string         `gorm:"column:role"`
	Description string         `gorm:"column:description"`
	Photo       string         `gorm:"column:photo"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (Personnel) TableName() string {
	return "personnel"
}

func (m *Personnel) toEntity() *entity.Personnel {
	return &entity.Personnel{
		ID:          m.ID,
		Name:        m.Name,
		Role:        m.Role,
		Description: m.Description,
		Photo:       m.Photo,
		IsActive:    !m.DeletedAt.Valid,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FindByID finds a person by id, including deactivated ones
func (r *GormPersonnelRepository) FindByID(ctx context.Context, id string) (*entity.Personnel, error) {
	var model Personnel
	result := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&model)
	if result.Error != nil {
		return nil, mapGormError("find person "+id, result.Error, entity.ErrPersonNotFound)
	}
	return model.toEntity(), nil
}

// FindByIDs finds all known persons among ids
func (r *GormPersonnelRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.Personnel, error) {
	people := make(map[string]*entity.Personnel, len(ids))
	if len(ids) == 0 {
		return people, nil
	}

	var models []Personnel
	result := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&models)
	if result.Error != nil {
		return nil, mapGormError("find personnel", result.Error, entity.ErrPersonNotFound)
	}
	for i := range models {
		people[models[i].ID] = models[i].toEntity()
	}
	return people, nil
}

// ListActive returns persons that are not soft-deleted, sorted by name
func (r *GormPersonnelRepository) ListActive(ctx context.Context) ([]*entity.Personnel, error) {
	var models []Personnel
	result := r.db.WithContext(ctx).Order("name").Find(&models)
	if result.Error != nil {
		return nil, mapGormError("list personnel", result.Error, entity.ErrPersonNotFound)
	}

	people := make([]*entity.Personnel, 0, len(models))
	for i := range models {
		people = append(people, models[i].toEntity())
	}
	return people, nil
}

// Create inserts a new person
func (r *GormPersonnelRepository) Create(ctx context.Context, person *entity.Personnel) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	model := Personnel{
		ID:          person.ID,
		Name:        person.Name,
		Role:        person.Role,
		Description: person.Description,
		Photo:       person.Photo,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return mapGormError("create person", result.Error, entity.ErrPersonNotFound)
	}

	*person = *model.toEntity()
	return nil
}

// Update replaces the editable fields of a person
func (r *GormPersonnelRepository) Update(ctx context.Context, person *entity.Personnel) error {
	updates := map[string]interface{}{
		"name":        person.Name,
		"role":        person.Role,
		"description": person.Description,
	}
	if person.Photo != "" {
		updates["photo"] = person.Photo
	}

	result := r.db.WithContext(ctx).Unscoped().
		Model(&Personnel{}).
		Where("id = ?", person.ID).
		Updates(updates)
	if result.Error != nil {
		return mapGormError("update person "+person.ID, result.Error, entity.ErrPersonNotFound)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update person %s: %w", person.ID, entity.ErrPersonNotFound)
	}

	updated, err := r.FindByID(ctx, person.ID)
	if err != nil {
		return err
	}
	*person = *updated
	return nil
}

// Delete soft-deletes or permanently removes a person
func (r *GormPersonnelRepository) Delete(ctx context.Context, id string, mode entity.DeleteMode) error {
	query := r.db.WithContext(ctx)
	if mode == entity.DeleteHard {
		query = query.Unscoped()
	}

	result := query.Where("id = ?", id).Delete(&Personnel{})
	if result.Error != nil {
		return mapGormError("delete person "+id, result.Error, entity.ErrPersonNotFound)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete person %s: %w", id, entity.ErrPersonNotFound)
	}
	return nil
}
