package usecase

import (
	"context"
	"testing"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/interface/repository"
	"personnel-tracker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonnelService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewPersonnelService(repository.NewInMemoryPersonnelRepository(), logger.NewNop())

	created, err := svc.Create(ctx, PersonnelInput{Name: " Ana ", Role: "Engineer", Photo: "ana.jpg"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana", created.Name)
	assert.True(t, created.IsActive)

	updated, err := svc.Update(ctx, created.ID, PersonnelInput{Name: "Ana M", Role: "Lead"})
	require.NoError(t, err)
	assert.Equal(t, "Ana M", updated.Name)
	assert.Equal(t, "ana.jpg", updated.Photo)

	require.NoError(t, svc.Delete(ctx, created.ID, entity.DeleteSoft))
	people, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, svc.Delete(ctx, created.ID, entity.DeleteHard))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, entity.ErrPersonNotFound)
}

func TestPersonnelService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewPersonnelService(repository.NewInMemoryPersonnelRepository(), logger.NewNop())

	_, err := svc.Create(ctx, PersonnelInput{Name: " "})
	require.ErrorIs(t, err, entity.ErrValidation)
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)

	_, err = svc.Update(ctx, "missing", PersonnelInput{Name: "X", Role: "Y"})
	assert.ErrorIs(t, err, entity.ErrPersonNotFound)

	err = svc.Delete(ctx, "missing", entity.DeleteSoft)
	assert.ErrorIs(t, err, entity.ErrPersonNotFound)
}
