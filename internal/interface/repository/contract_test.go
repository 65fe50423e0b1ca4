package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory returns empty stores backed by one implementation
type storeFactory func(t *testing.T) (repository.AttendanceRepository, repository.PersonnelRepository)

func localDay(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.Local)
}

func localAt(d, hour, minute int) time.Time {
	return time.Date(2024, 1, d, hour, minute, 0, 0, time.Local)
}

func runAttendanceContract(t *testing.T, newStores storeFactory) {
	ctx := context.Background()

	t.Run("upsert creates then overwrites", func(t *testing.T) {
		records, _ := newStores(t)

		created, err := records.UpsertArrival(ctx, "p1", localDay(1), localAt(1, 9, 0), "early")
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.True(t, created.Day.Equal(localDay(1)))
		assert.True(t, created.ArrivalTime.Equal(localAt(1, 9, 0)))
		assert.True(t, created.IsPresent)
		assert.Equal(t, "early", created.Remarks)

		_, err = records.UpdateByID(ctx, created.ID, entity.RecordPatch{DepartureTime: entity.SetTime(localAt(1, 12, 0))}, localAt(1, 12, 0))
		require.NoError(t, err)

		again, err := records.UpsertArrival(ctx, "p1", localDay(1), localAt(1, 13, 0), "")
		require.NoError(t, err)
		assert.Equal(t, created.ID, again.ID)
		assert.True(t, again.ArrivalTime.Equal(localAt(1, 13, 0)))
		assert.Nil(t, again.DepartureTime)
		assert.Equal(t, "early", again.Remarks)
		assert.True(t, again.CreatedAt.Equal(localAt(1, 9, 0)))

		withRemarks, err := records.UpsertArrival(ctx, "p1", localDay(1), localAt(1, 14, 0), "back")
		require.NoError(t, err)
		assert.Equal(t, "back", withRemarks.Remarks)
	})

	t.Run("concurrent upserts keep one record", func(t *testing.T) {
		records, _ := newStores(t)

		const callers = 20
		var wg sync.WaitGroup
		ids := make([]string, callers)
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				record, err := records.UpsertArrival(ctx, "p1", localDay(2), localAt(2, 9, i), "")
				errs[i] = err
				if err == nil {
					ids[i] = record.ID
				}
			}(i)
		}
		wg.Wait()

		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
		day, err := records.FindByDay(ctx, localDay(2))
		require.NoError(t, err)
		assert.Len(t, day, 1)
	})

	t.Run("create conflicts on person and day", func(t *testing.T) {
		records, _ := newStores(t)

		first := &entity.AttendanceRecord{PersonID: "p1", Day: localDay(3), CreatedAt: localAt(3, 8, 0), UpdatedAt: localAt(3, 8, 0)}
		require.NoError(t, records.Create(ctx, first))
		assert.NotEmpty(t, first.ID)

		dup := &entity.AttendanceRecord{PersonID: "p1", Day: localDay(3), CreatedAt: localAt(3, 8, 0), UpdatedAt: localAt(3, 8, 0)}
		assert.ErrorIs(t, records.Create(ctx, dup), entity.ErrConflict)

		found, err := records.FindByPersonAndDay(ctx, "p1", localDay(3))
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Nil(t, found.ArrivalTime)
	})

	t.Run("update applies tri-state patch", func(t *testing.T) {
		records, _ := newStores(t)
		created, err := records.UpsertArrival(ctx, "p1", localDay(4), localAt(4, 9, 0), "")
		require.NoError(t, err)

		remarks := "note"
		updated, err := records.UpdateByID(ctx, created.ID, entity.RecordPatch{
			DepartureTime: entity.SetTime(localAt(4, 17, 0)),
			Remarks:       &remarks,
		}, localAt(4, 17, 0))
		require.NoError(t, err)
		assert.True(t, updated.DepartureTime.Equal(localAt(4, 17, 0)))
		assert.True(t, updated.ArrivalTime.Equal(localAt(4, 9, 0)))
		assert.Equal(t, "note", updated.Remarks)
		assert.True(t, updated.UpdatedAt.Equal(localAt(4, 17, 0)))

		cleared, err := records.UpdateByID(ctx, created.ID, entity.RecordPatch{DepartureTime: entity.ClearTime()}, localAt(4, 18, 0))
		require.NoError(t, err)
		assert.Nil(t, cleared.DepartureTime)
		assert.Equal(t, "note", cleared.Remarks)

		stored, err := records.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.DepartureTime)

		_, err = records.UpdateByID(ctx, "000000000000000000000000", entity.RecordPatch{Remarks: &remarks}, localAt(4, 18, 0))
		assert.ErrorIs(t, err, entity.ErrRecordNotFound)
	})

	t.Run("ordered patch is checked against the stored record", func(t *testing.T) {
		records, _ := newStores(t)
		created, err := records.UpsertArrival(ctx, "p1", localDay(9), localAt(9, 9, 0), "")
		require.NoError(t, err)

		_, err = records.UpdateByID(ctx, created.ID, entity.RecordPatch{DepartureTime: entity.SetTime(localAt(9, 8, 0)), Ordered: true}, localAt(9, 10, 0))
		assert.ErrorIs(t, err, entity.ErrValidation)

		departed, err := records.UpdateByID(ctx, created.ID, entity.RecordPatch{DepartureTime: entity.SetTime(localAt(9, 17, 0)), Ordered: true}, localAt(9, 17, 0))
		require.NoError(t, err)
		assert.True(t, departed.DepartureTime.Equal(localAt(9, 17, 0)))

		_, err = records.UpdateByID(ctx, created.ID, entity.RecordPatch{ArrivalTime: entity.SetTime(localAt(9, 18, 0)), Ordered: true}, localAt(9, 18, 0))
		assert.ErrorIs(t, err, entity.ErrValidation)

		stored, err := records.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, stored.ArrivalTime.Equal(localAt(9, 9, 0)))
		assert.True(t, stored.DepartureTime.Equal(localAt(9, 17, 0)))
		assert.True(t, stored.UpdatedAt.Equal(localAt(9, 17, 0)))

		moved, err := records.UpdateByID(ctx, created.ID, entity.RecordPatch{ArrivalTime: entity.SetTime(localAt(9, 8, 30)), Ordered: true}, localAt(9, 18, 0))
		require.NoError(t, err)
		assert.True(t, moved.ArrivalTime.Equal(localAt(9, 8, 30)))

		// unordered patches are written as given
		_, err = records.UpdateByID(ctx, created.ID, entity.RecordPatch{DepartureTime: entity.SetTime(localAt(9, 8, 0))}, localAt(9, 18, 0))
		assert.NoError(t, err)

		_, err = records.UpdateByID(ctx, "000000000000000000000000", entity.RecordPatch{DepartureTime: entity.SetTime(localAt(9, 8, 0)), Ordered: true}, localAt(9, 18, 0))
		assert.ErrorIs(t, err, entity.ErrRecordNotFound)
	})

	t.Run("delete is permanent", func(t *testing.T) {
		records, _ := newStores(t)
		created, err := records.UpsertArrival(ctx, "p1", localDay(5), localAt(5, 9, 0), "")
		require.NoError(t, err)

		require.NoError(t, records.DeleteByID(ctx, created.ID))
		_, err = records.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, entity.ErrRecordNotFound)
		_, err = records.FindByPersonAndDay(ctx, "p1", localDay(5))
		assert.ErrorIs(t, err, entity.ErrRecordNotFound)
		assert.ErrorIs(t, records.DeleteByID(ctx, created.ID), entity.ErrRecordNotFound)

		// the slot is free again
		_, err = records.UpsertArrival(ctx, "p1", localDay(5), localAt(5, 10, 0), "")
		assert.NoError(t, err)
	})

	t.Run("find by day matches exactly in creation order", func(t *testing.T) {
		records, _ := newStores(t)
		_, err := records.UpsertArrival(ctx, "p2", localDay(6), localAt(6, 9, 0), "")
		require.NoError(t, err)
		_, err = records.UpsertArrival(ctx, "p1", localDay(6), localAt(6, 9, 30), "")
		require.NoError(t, err)
		_, err = records.UpsertArrival(ctx, "p1", localDay(7), localAt(7, 9, 0), "")
		require.NoError(t, err)
		// a later re-arrival does not change the order
		_, err = records.UpsertArrival(ctx, "p2", localDay(6), localAt(6, 11, 0), "")
		require.NoError(t, err)

		day, err := records.FindByDay(ctx, localDay(6))
		require.NoError(t, err)
		require.Len(t, day, 2)
		assert.Equal(t, "p2", day[0].PersonID)
		assert.Equal(t, "p1", day[1].PersonID)

		empty, err := records.FindByDay(ctx, localDay(8))
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("find by person and range", func(t *testing.T) {
		records, _ := newStores(t)
		for d := 10; d <= 13; d++ {
			_, err := records.UpsertArrival(ctx, "p1", localDay(d), localAt(d, 9, 0), "")
			require.NoError(t, err)
		}
		_, err := records.UpsertArrival(ctx, "p2", localDay(11), localAt(11, 9, 0), "")
		require.NoError(t, err)

		all, err := records.FindByPersonAndRange(ctx, "p1", nil, nil)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.True(t, all[0].Day.Equal(localDay(13)))
		assert.True(t, all[3].Day.Equal(localDay(10)))

		start, end := localDay(11), localDay(12)
		bounded, err := records.FindByPersonAndRange(ctx, "p1", &start, &end)
		require.NoError(t, err)
		require.Len(t, bounded, 2)
		assert.True(t, bounded[0].Day.Equal(localDay(12)))
		assert.True(t, bounded[1].Day.Equal(localDay(11)))

		fromOnly, err := records.FindByPersonAndRange(ctx, "p1", &end, nil)
		require.NoError(t, err)
		assert.Len(t, fromOnly, 2)

		none, err := records.FindByPersonAndRange(ctx, "nobody", nil, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func runPersonnelContract(t *testing.T, newStores storeFactory) {
	ctx := context.Background()

	t.Run("create find and list", func(t *testing.T) {
		_, people := newStores(t)

		bo := &entity.Personnel{Name: "Bo", Role: "Driver"}
		ana := &entity.Personnel{Name: "Ana", Role: "Engineer", Photo: "ana.jpg"}
		require.NoError(t, people.Create(ctx, bo))
		require.NoError(t, people.Create(ctx, ana))
		assert.NotEmpty(t, ana.ID)
		assert.True(t, ana.IsActive)

		found, err := people.FindByID(ctx, ana.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", found.Name)
		assert.Equal(t, "ana.jpg", found.Photo)

		byIDs, err := people.FindByIDs(ctx, []string{ana.ID, bo.ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, byIDs, 2)
		assert.Equal(t, "Bo", byIDs[bo.ID].Name)

		list, err := people.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Ana", list[0].Name)
		assert.Equal(t, "Bo", list[1].Name)

		_, err = people.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, entity.ErrPersonNotFound)
	})

	t.Run("update keeps photo when empty", func(t *testing.T) {
		_, people := newStores(t)
		ana := &entity.Personnel{Name: "Ana", Role: "Engineer", Photo: "ana.jpg"}
		require.NoError(t, people.Create(ctx, ana))

		update := &entity.Personnel{ID: ana.ID, Name: "Ana M", Role: "Lead"}
		require.NoError(t, people.Update(ctx, update))
		assert.Equal(t, "Ana M", update.Name)
		assert.Equal(t, "ana.jpg", update.Photo)
		assert.True(t, update.IsActive)

		missing := &entity.Personnel{ID: "000000000000000000000000", Name: "X", Role: "Y"}
		assert.ErrorIs(t, people.Update(ctx, missing), entity.ErrPersonNotFound)
	})

	t.Run("soft and hard delete", func(t *testing.T) {
		_, people := newStores(t)
		ana := &entity.Personnel{Name: "Ana", Role: "Engineer"}
		require.NoError(t, people.Create(ctx, ana))

		require.NoError(t, people.Delete(ctx, ana.ID, entity.DeleteSoft))
		found, err := people.FindByID(ctx, ana.ID)
		require.NoError(t, err)
		assert.False(t, found.IsActive)

		byIDs, err := people.FindByIDs(ctx, []string{ana.ID})
		require.NoError(t, err)
		assert.Contains(t, byIDs, ana.ID)

		list, err := people.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		require.NoError(t, people.Delete(ctx, ana.ID, entity.DeleteHard))
		_, err = people.FindByID(ctx, ana.ID)
		assert.ErrorIs(t, err, entity.ErrPersonNotFound)
		assert.ErrorIs(t, people.Delete(ctx, ana.ID, entity.DeleteHard), entity.ErrPersonNotFound)
	})
}
