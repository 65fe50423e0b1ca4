package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"
	"personnel-tracker/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const personnelKeyPrefix = "personnel:"

// CachedPersonnelRepository is a Redis read-through cache in front of a
// PersonnelRepository. Only single lookups are cached; writes go to the
// underlying directory first and then evict the key.
type CachedPersonnelRepository struct {
	next   repository.PersonnelRepository
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ repository.PersonnelRepository = (*CachedPersonnelRepository)(nil)

// NewCachedPersonnelRepository wraps next with a cache on client
func NewCachedPersonnelRepository(next repository.PersonnelRepository, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedPersonnelRepository {
	return &CachedPersonnelRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func personnelKey(id string) string {
	return personnelKeyPrefix + id
}

// FindByID serves from Redis when possible. Cache failures are logged and
// fall through to the directory.
func (r *CachedPersonnelRepository) FindByID(ctx context.Context, id string) (*entity.Personnel, error) {
	raw, err := r.client.Get(ctx, personnelKey(id)).Bytes()
	switch {
	case err == nil:
		var person entity.Personnel
		if err := json.Unmarshal(raw, &person); err == nil {
			return &person, nil
		}
		r.logger.Warn("Dropping undecodable cached person", "personId", id)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Personnel cache read failed", "personId", id, "error", err)
	}

	person, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, person)
	return person, nil
}

// FindByIDs always goes to the directory
func (r *CachedPersonnelRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entity.Personnel, error) {
	return r.next.FindByIDs(ctx, ids)
}

// ListActive always goes to the directory
func (r *CachedPersonnelRepository) ListActive(ctx context.Context) ([]*entity.Personnel, error) {
	return r.next.ListActive(ctx)
}

// Create stores the person and nothing is cached until it is read
func (r *CachedPersonnelRepository) Create(ctx context.Context, person *entity.Personnel) error {
	return r.next.Create(ctx, person)
}

// Update writes through and evicts the cached copy
func (r *CachedPersonnelRepository) Update(ctx context.Context, person *entity.Personnel) error {
	if err := r.next.Update(ctx, person); err != nil {
		return err
	}
	r.evict(ctx, person.ID)
	return nil
}

// Delete removes the person and evicts the cached copy
func (r *CachedPersonnelRepository) Delete(ctx context.Context, id string, mode entity.DeleteMode) error {
	if err := r.next.Delete(ctx, id, mode); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedPersonnelRepository) store(ctx context.Context, person *entity.Personnel) {
	raw, err := json.Marshal(person)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, personnelKey(person.ID), raw, r.ttl).Err(); err != nil {
		r.logger.Warn("Personnel cache write failed", "personId", person.ID, "error", err)
	}
}

func (r *CachedPersonnelRepository) evict(ctx context.Context, id string) {
	if err := r.client.Del(ctx, personnelKey(id)).Err(); err != nil {
		r.logger.Warn("Personnel cache eviction failed", "personId", id, "error", err)
	}
}
