package usecase

import (
	"context"
	"fmt"
	"strings"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"
	"personnel-tracker/pkg/logger"
)

// PersonnelService is the thin directory management surface
type PersonnelService struct {
	personnelRepo repository.PersonnelRepository
	logger        logger.Logger
}

// NewPersonnelService creates a new personnel service
func NewPersonnelService(personnelRepo repository.PersonnelRepository, logger logger.Logger) *PersonnelService {
	return &PersonnelService{
		personnelRepo: personnelRepo,
		logger:        logger,
	}
}

// PersonnelInput carries the editable fields of a person
type PersonnelInput struct {
	Name        string
	Role        string
	Description string
	Photo       string
}

func (in PersonnelInput) toEntity(id string) *entity.Personnel {
	return &entity.Personnel{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Role:        strings.TrimSpace(in.Role),
		Description: strings.TrimSpace(in.Description),
		Photo:       strings.TrimSpace(in.Photo),
	}
}

// List returns active personnel sorted by name
func (s *PersonnelService) List(ctx context.Context) ([]*entity.Personnel, error) {
	people, err := s.personnelRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}
	return people, nil
}

// Get returns a person, active or not
func (s *PersonnelService) Get(ctx context.Context, id string) (*entity.Personnel, error) {
	return s.personnelRepo.FindByID(ctx, id)
}

// Create registers a new active person
func (s *PersonnelService) Create(ctx context.Context, in PersonnelInput) (*entity.Personnel, error) {
	person := in.toEntity("")
	if err := person.Validate(); err != nil {
		return nil, err
	}
	if err := s.personnelRepo.Create(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	s.logger.Info("Person created", "personId", person.ID, "name", person.Name)
	return person, nil
}

// Update replaces the editable fields of a person. An empty photo keeps the current one.
func (s *PersonnelService) Update(ctx context.Context, id string, in PersonnelInput) (*entity.Personnel, error) {
	person := in.toEntity(id)
	if err := person.Validate(); err != nil {
		return nil, err
	}
	if err := s.personnelRepo.Update(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	s.logger.Info("Person updated", "personId", person.ID)
	return person, nil
}

// Delete deactivates or removes a person. Attendance records are kept either way.
func (s *PersonnelService) Delete(ctx context.Context, id string, mode entity.DeleteMode) error {
	if err := s.personnelRepo.Delete(ctx, id, mode); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}

	s.logger.Info("Person deleted", "personId", id, "mode", string(mode))
	return nil
}
