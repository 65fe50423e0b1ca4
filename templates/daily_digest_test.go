package templates

import (
	"testing"
	"time"

	"personnel-tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) *time.Time {
	t := time.Date(2024, 3, 5, hour, minute, 0, 0, time.Local)
	return &t
}

func TestDailyDigest_Render(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 3, 5, 18, 0, 0, 0, time.Local)

	departed := &entity.AttendanceRecord{
		ID: "r1", PersonID: "p1", Day: day,
		ArrivalTime: at(8, 30), DepartureTime: at(17, 0), Remarks: "site visit",
	}
	present := &entity.AttendanceRecord{
		ID: "r2", PersonID: "gone", Day: day, ArrivalTime: at(9, 15),
	}

	summary := &entity.DailySummary{
		Day:       day,
		Headcount: 3,
		Records: []*entity.PopulatedRecord{
			entity.Populate(departed, &entity.PersonnelSummary{ID: "p1", Name: "Ana", Role: "Engineer"}, now),
			entity.Populate(present, nil, now),
		},
		Arrived:   2,
		OnSite:    1,
		Departed:  1,
		Absentees: []*entity.PersonnelSummary{{ID: "p3", Name: "Bo", Role: "Driver"}},
	}

	subject, body, err := NewDailyDigest().Render(summary, now)
	require.NoError(t, err)

	assert.Equal(t, "Attendance digest 2024-03-05: 2/3 arrived", subject)
	assert.Contains(t, body, "Attendance for 2024-03-05")
	assert.Contains(t, body, "Absent:    1")
	assert.Contains(t, body, `- Ana (Engineer)  in 08:30  out 17:00  departed  8h30m  "site visit"`)
	assert.Contains(t, body, "- (unknown person)  in 09:15  out --:--  present  8h45m")
	assert.Contains(t, body, "- Bo (Driver)")
	assert.Contains(t, body, "Generated 2024-03-05 18:00")
}

func TestDailyDigest_RenderEmptyDay(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.Local)
	summary := &entity.DailySummary{Day: day}

	_, body, err := NewDailyDigest().Render(summary, day)
	require.NoError(t, err)

	assert.Contains(t, body, "Headcount: 0")
	assert.NotContains(t, body, "Records")
}
