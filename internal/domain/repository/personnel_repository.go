package repository

import (
	"context"

	"personnel-tracker/internal/domain/entity"
)

// PersonnelRepository defines the personnel directory operations the core relies on
type PersonnelRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Personnel, error)
	// FindByIDs returns the persons that exist, keyed by id
	FindByIDs(ctx context.Context, ids []string) (map[string]*entity.Personnel, error)
	ListActive(ctx context.Context) ([]*entity.Personnel, error)
	Create(ctx context.Context, person *entity.Personnel) error
	Update(ctx context.Context, person *entity.Personnel) error
	Delete(ctx context.Context, id string, mode entity.DeleteMode) error
}
