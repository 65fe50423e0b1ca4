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

// InMemoryPersonnelRepository is a process-local personnel directory
type InMemoryPersonnelRepository struct {
	mu     sync.RWMutex
	people map[string]*entity.Personnel
	now    func() time.Time
}

// NewInMemoryPersonnelRepository creates an empty directory
func NewInMemoryPersonnelRepository() *InMemoryPersonnelRepository {
	return &InMemoryPersonnelRepository{
		people: make(map[string]*entity.Personnel),
		now:    time.Now,
	}
}

var _ repository.PersonnelRepository = (*InMemoryPersonnelRepository)(nil)

// FindByID returns the person with the given id, active or not
func (r *InMemoryPersonnelRepository) FindByID(_ context.Context, id string) (*entity.Personnel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	person, ok := r.people[id]
	if !ok {
		return nil, fmt.Errorf("person %s: %w", id, entity.ErrPersonNotFound)
	}
	c := *person
	return &c, nil
}

// FindByIDs returns the known persons among ids
func (r *InMemoryPersonnelRepository) FindByIDs(_ context.Context, ids []string) (map[string]*entity.Personnel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*entity.Personnel, len(ids))
	for _, id := range ids {
		if person, ok := r.people[id]; ok {
			c := *person
			result[id] = &c
		}
	}
	return result, nil
}

// ListActive returns active persons sorted by name
func (r *InMemoryPersonnelRepository) ListActive(_ context.Context) ([]*entity.Personnel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.Personnel, 0, len(r.people))
	for _, person := range r.people {
		if person.IsActive {
			c := *person
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Create stores a new active person
func (r *InMemoryPersonnelRepository) Create(_ context.Context, person *entity.Personnel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	if _, exists := r.people[person.ID]; exists {
		return fmt.Errorf("person %s: already exists", person.ID)
	}
	now := r.now()
	person.IsActive = true
	person.CreatedAt = now
	person.UpdatedAt = now

	c := *person
	r.people[person.ID] = &c
	return nil
}

// Update replaces the editable fields of an existing person
func (r *InMemoryPersonnelRepository) Update(_ context.Context, person *entity.Personnel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.people[person.ID]
	if !ok {
		return fmt.Errorf("person %s: %w", person.ID, entity.ErrPersonNotFound)
	}
	existing.Name = person.Name
	existing.Role = person.Role
	existing.Description = person.Description
	if person.Photo != "" {
		existing.Photo = person.Photo
	}
	existing.UpdatedAt = r.now()
	*person = *existing
	return nil
}

// Delete deactivates or removes the person depending on mode
func (r *InMemoryPersonnelRepository) Delete(_ context.Context, id string, mode entity.DeleteMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	person, ok := r.people[id]
	if !ok {
		return fmt.Errorf("person %s: %w", id, entity.ErrPersonNotFound)
	}
	if mode == entity.DeleteHard {
		delete(r.people, id)
		return nil
	}
	person.IsActive = false
	person.UpdatedAt = r.now()
	return nil
}
