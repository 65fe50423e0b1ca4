package usecase

import (
	"context"
	"fmt"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"
)

// populator joins records with the display fields of their personnel
type populator struct {
	personnelRepo repository.PersonnelRepository
}

// all populates records with one batched directory lookup. Records whose
// person is gone get a nil Personnel.
func (p populator) all(ctx context.Context, records []*entity.AttendanceRecord, now time.Time) ([]*entity.PopulatedRecord, error) {
	result := make([]*entity.PopulatedRecord, 0, len(records))
	if len(records) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, ok := seen[record.PersonID]; ok {
			continue
		}
		seen[record.PersonID] = struct{}{}
		ids = append(ids, record.PersonID)
	}

	people, err := p.personnelRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load personnel: %w", err)
	}

	for _, record := range records {
		result = append(result, entity.Populate(record, people[record.PersonID].Summary(), now))
	}
	return result, nil
}

// one populates a single record
func (p populator) one(ctx context.Context, record *entity.AttendanceRecord, now time.Time) (*entity.PopulatedRecord, error) {
	populated, err := p.all(ctx, []*entity.AttendanceRecord{record}, now)
	if err != nil {
		return nil, err
	}
	return populated[0], nil
}
