package domain

import "time"

type RejectReason string

const (
	ReasonPastDate             RejectReason = "PAST_DATE"
	ReasonSpaceNotFound        RejectReason = "SPACE_NOT_FOUND"
	ReasonTimeConflict         RejectReason = "TIME_CONFLICT"
	ReasonQuotaExceeded        RejectReason = "QUOTA_EXCEEDED"
	ReasonSpaceHasReservations RejectReason = "SPACE_HAS_RESERVATIONS"
)

// Decision is the outcome of a policy evaluation. Rejections are values,
// not errors: an error from evaluation always means an infrastructure fault.
type Decision struct {
	Admitted bool
	Reason   RejectReason

	// Set when Reason is QUOTA_EXCEEDED so callers can render the exact
	// window without recomputing it.
	WeekStart time.Time
	Count     int
	Limit     int
}

func Admitted() Decision {
	return Decision{Admitted: true}
}

func Rejected(reason RejectReason) Decision {
	return Decision{Reason: reason}
}

func RejectedQuota(weekStart time.Time, count, limit int) Decision {
	return Decision{Reason: ReasonQuotaExceeded, WeekStart: weekStart, Count: count, Limit: limit}
}
