package domain

import "time"

type Reservation struct {
	ID              int64
	SpaceID         int64
	UserEmail       string
	ReservationDate time.Time
	StartTime       time.Time
	EndTime         time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// Range returns the reservation's stored interval as a TimeRange.
// Stored rows always satisfy start < end, so the error is ignored.
func (r *Reservation) Range() TimeRange {
	tr, _ := NewTimeRange(r.StartTime, r.EndTime)
	return tr
}
