package entity

import "time"

// DailySummary aggregates one day of attendance. Absence is never stored:
// an active person without an arrival on Day counts as absent.
type DailySummary struct {
	Day       time.Time
	Headcount int
	Records   []*PopulatedRecord
	Arrived   int
	OnSite    int
	Departed  int
	Absentees []*PersonnelSummary
}

// Absent is the number of active personnel without an arrival
func (s *DailySummary) Absent() int {
	return len(s.Absentees)
}
