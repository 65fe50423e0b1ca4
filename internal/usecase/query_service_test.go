package usecase

import (
	"context"
	"testing"
	"time"

	"personnel-tracker/internal/domain/entity"
	"personnel-tracker/internal/interface/repository"
	"personnel-tracker/pkg/clock"
	"personnel-tracker/pkg/logger"
	"personnel-tracker/pkg/metrics"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

type QueryServiceSuite struct {
	suite.Suite
	ctx       context.Context
	clock     *clockwork.FakeClock
	records   *repository.InMemoryAttendanceRepository
	personnel *repository.InMemoryPersonnelRepository
	service   *AttendanceService
	query     *QueryService
}

func TestQueryServiceSuite(t *testing.T) {
	suite.Run(t, new(QueryServiceSuite))
}

func (s *QueryServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewFake(time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local))
	s.records = repository.NewInMemoryAttendanceRepository()
	s.personnel = repository.NewInMemoryPersonnelRepository()
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	s.service = NewAttendanceService(s.records, s.personnel, s.clock, m, logger.NewNop())
	s.query = NewQueryService(s.records, s.personnel, s.clock)
}

func (s *QueryServiceSuite) person(name string) *entity.Personnel {
	p := &entity.Personnel{Name: name, Role: "Staff"}
	s.Require().NoError(s.personnel.Create(s.ctx, p))
	return p
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// arriveOn marks an arrival for p at 09:00 on the given day, or a minute
// after the previous call when that day is already past 09:00
func (s *QueryServiceSuite) arriveOn(p *entity.Personnel, d time.Time) *entity.PopulatedRecord {
	target := d.Add(9 * time.Hour)
	if !target.After(s.clock.Now()) {
		target = s.clock.Now().Add(time.Minute)
	}
	s.clock.Advance(target.Sub(s.clock.Now()))
	record, err := s.service.MarkArrival(s.ctx, p.ID, "")
	s.Require().NoError(err)
	return record
}

func (s *QueryServiceSuite) TestByDay_ReturnsOnlyThatDay() {
	ana := s.person("Ana")
	bo := s.person("Bo")
	s.arriveOn(ana, day(2024, 1, 1))
	s.arriveOn(bo, day(2024, 1, 2))
	s.arriveOn(ana, day(2024, 1, 2))

	records, err := s.query.ByDay(s.ctx, time.Date(2024, 1, 2, 15, 30, 0, 0, time.Local))
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(bo.ID, records[0].PersonID)
	s.Equal(ana.ID, records[1].PersonID)
	for _, r := range records {
		s.True(r.Day.Equal(day(2024, 1, 2)))
	}
}

func (s *QueryServiceSuite) TestByDay_EmptyDay() {
	records, err := s.query.ByDay(s.ctx, day(2024, 1, 2))
	s.Require().NoError(err)
	s.NotNil(records)
	s.Empty(records)
}

func (s *QueryServiceSuite) TestToday_EqualsByDayOfClock() {
	ana := s.person("Ana")
	s.arriveOn(ana, day(2024, 1, 3))

	today, err := s.query.Today(s.ctx)
	s.Require().NoError(err)
	byDay, err := s.query.ByDay(s.ctx, s.clock.Now())
	s.Require().NoError(err)

	s.Equal(len(byDay), len(today))
	s.Require().Len(today, 1)
	s.Equal(byDay[0].ID, today[0].ID)
}

func (s *QueryServiceSuite) TestByPerson_RangeAndOrder() {
	ana := s.person("Ana")
	s.arriveOn(ana, day(2024, 1, 1))
	s.arriveOn(ana, day(2024, 1, 2))
	s.arriveOn(ana, day(2024, 1, 3))
	s.arriveOn(ana, day(2024, 1, 4))

	all, err := s.query.ByPerson(s.ctx, ana.ID, nil, nil)
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.True(all[0].Day.Equal(day(2024, 1, 4)))
	s.True(all[3].Day.Equal(day(2024, 1, 1)))

	start, end := day(2024, 1, 2), time.Date(2024, 1, 3, 23, 59, 0, 0, time.Local)
	bounded, err := s.query.ByPerson(s.ctx, ana.ID, &start, &end)
	s.Require().NoError(err)
	s.Require().Len(bounded, 2)
	s.True(bounded[0].Day.Equal(day(2024, 1, 3)))
	s.True(bounded[1].Day.Equal(day(2024, 1, 2)))

	openEnd, err := s.query.ByPerson(s.ctx, ana.ID, &end, nil)
	s.Require().NoError(err)
	s.Len(openEnd, 2)
}

func (s *QueryServiceSuite) TestByPerson_InvalidInput() {
	_, err := s.query.ByPerson(s.ctx, "", nil, nil)
	s.ErrorIs(err, entity.ErrValidation)

	start, end := day(2024, 1, 5), day(2024, 1, 1)
	_, err = s.query.ByPerson(s.ctx, "p1", &start, &end)
	s.ErrorIs(err, entity.ErrValidation)
}

func (s *QueryServiceSuite) TestPopulation_ToleratesRemovedPerson() {
	ana := s.person("Ana")
	gone := s.person("Gone")
	s.arriveOn(ana, day(2024, 1, 1))
	s.arriveOn(gone, day(2024, 1, 1))

	s.Require().NoError(s.personnel.Delete(s.ctx, gone.ID, entity.DeleteHard))

	records, err := s.query.ByDay(s.ctx, day(2024, 1, 1))
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Require().NotNil(records[0].Personnel)
	s.Equal("Ana", records[0].Personnel.Name)
	s.Nil(records[1].Personnel)
}

func (s *QueryServiceSuite) TestPopulation_SoftDeletedPersonStillShown() {
	ana := s.person("Ana")
	s.arriveOn(ana, day(2024, 1, 1))
	s.Require().NoError(s.personnel.Delete(s.ctx, ana.ID, entity.DeleteSoft))

	records, err := s.query.ByPerson(s.ctx, ana.ID, nil, nil)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Require().NotNil(records[0].Personnel)
	s.Equal("Ana", records[0].Personnel.Name)
}
