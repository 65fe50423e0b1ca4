package entity

import (
	"time"
)

// Status is the derived attendance state of a person on a day
type Status string

const (
	StatusNotArrived Status = "not_arrived"
	StatusPresent    Status = "present"
	StatusDeparted   Status = "departed"
)

// AttendanceRecord is the per-person, per-day attendance entry.
// (PersonID, Day) is unique.
type AttendanceRecord struct {
	ID            string     `bson:"_id"`
	PersonID      string     `bson:"personId"`
	Day           time.Time  `bson:"day"`
	ArrivalTime   *time.Time `bson:"arrivalTime"`
	DepartureTime *time.Time `bson:"departureTime"`
	Remarks       string     `bson:"remarks"`
	IsPresent     bool       `bson:"isPresent"`
	CreatedAt     time.Time  `bson:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt"`
}

// DeriveStatus is the single place that turns timestamps into a Status.
// It looks only at which timestamps are present: IsPresent and the
// ordering of the two timestamps are ignored.
func DeriveStatus(record *AttendanceRecord) Status {
	switch {
	case record == nil:
		return StatusNotArrived
	case record.DepartureTime != nil:
		return StatusDeparted
	case record.ArrivalTime != nil:
		return StatusPresent
	default:
		return StatusNotArrived
	}
}

// WorkedDuration returns the time between arrival and departure, or between
// arrival and now while the person is still present. ok is false when there
// is no arrival or the end precedes the arrival.
func WorkedDuration(record *AttendanceRecord, now time.Time) (d time.Duration, ok bool) {
	if record == nil || record.ArrivalTime == nil {
		return 0, false
	}
	end := now
	if record.DepartureTime != nil {
		end = *record.DepartureTime
	}
	if end.Before(*record.ArrivalTime) {
		return 0, false
	}
	return end.Sub(*record.ArrivalTime), true
}

// TimeChange sets a nullable timestamp; a nil Value clears it
type TimeChange struct {
	Value *time.Time
}

// SetTime returns a change that sets the field to t
func SetTime(t time.Time) *TimeChange {
	return &TimeChange{Value: &t}
}

// ClearTime returns a change that clears the field
func ClearTime() *TimeChange {
	return &TimeChange{}
}

// RecordPatch is a partial update of a record. Nil fields are left untouched.
type RecordPatch struct {
	ArrivalTime   *TimeChange
	DepartureTime *TimeChange
	Remarks       *string
	// Ordered makes the store refuse the patch when the stored record,
	// once patched, would depart before it arrived
	Ordered bool
}

// IsEmpty reports whether the patch changes nothing
func (p RecordPatch) IsEmpty() bool {
	return p.ArrivalTime == nil && p.DepartureTime == nil && p.Remarks == nil
}

// NewOrderingError is returned for an Ordered patch that would put the
// departure before the arrival
func NewOrderingError() *ValidationError {
	return NewValidationError("departureTime", "must not be earlier than arrivalTime")
}

// OrderGuard is what the stored record must satisfy for an Ordered patch
// to apply. Nil bounds impose nothing.
type OrderGuard struct {
	ArrivalAtMost    *time.Time
	DepartureAtLeast *time.Time
}

// IsZero reports whether the guard imposes nothing
func (g OrderGuard) IsZero() bool {
	return g.ArrivalAtMost == nil && g.DepartureAtLeast == nil
}

// Allows reports whether record satisfies g. A missing stored timestamp
// always satisfies its bound.
func (g OrderGuard) Allows(record *AttendanceRecord) bool {
	if g.ArrivalAtMost != nil && record.ArrivalTime != nil && record.ArrivalTime.After(*g.ArrivalAtMost) {
		return false
	}
	if g.DepartureAtLeast != nil && record.DepartureTime != nil && record.DepartureTime.Before(*g.DepartureAtLeast) {
		return false
	}
	return true
}

// Guard returns the stored-side condition of the patch. ok is false when
// the patch by itself sets a departure before the arrival it sets.
func (p RecordPatch) Guard() (guard OrderGuard, ok bool) {
	if !p.Ordered {
		return guard, true
	}
	setsArrival := p.ArrivalTime != nil && p.ArrivalTime.Value != nil
	setsDeparture := p.DepartureTime != nil && p.DepartureTime.Value != nil

	switch {
	case setsArrival && setsDeparture:
		return guard, !p.DepartureTime.Value.Before(*p.ArrivalTime.Value)
	case setsDeparture && p.ArrivalTime == nil:
		guard.ArrivalAtMost = p.DepartureTime.Value
	case setsArrival && p.DepartureTime == nil:
		guard.DepartureAtLeast = p.ArrivalTime.Value
	}
	return guard, true
}

// Apply mutates record in place
func (p RecordPatch) Apply(record *AttendanceRecord) {
	if p.ArrivalTime != nil {
		record.ArrivalTime = copyTime(p.ArrivalTime.Value)
	}
	if p.DepartureTime != nil {
		record.DepartureTime = copyTime(p.DepartureTime.Value)
	}
	if p.Remarks != nil {
		record.Remarks = *p.Remarks
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// PopulatedRecord is a record joined with its derived status and the
// display fields of the person it belongs to
type PopulatedRecord struct {
	AttendanceRecord
	Status    Status
	Worked    *time.Duration
	Personnel *PersonnelSummary
}

// Populate joins record with person. person may be nil when the
// directory no longer knows the person.
func Populate(record *AttendanceRecord, person *PersonnelSummary, now time.Time) *PopulatedRecord {
	populated := &PopulatedRecord{
		AttendanceRecord: *record,
		Status:           DeriveStatus(record),
		Personnel:        person,
	}
	if d, ok := WorkedDuration(record, now); ok {
		populated.Worked = &d
	}
	return populated
}
