package policy

import (
	"context"
	"time"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// WeekStartDay fixes the first day of the booking week. The weekly quota is
// always counted against calendar weeks starting Monday 00:00 local time,
// never against a rolling 7-day window.
const WeekStartDay = time.Monday

const DefaultWeeklyQuota = 3

type SpaceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
}

type ReservationReader interface {
	FindOverlapping(ctx context.Context, spaceID int64, start, end time.Time, excludeID int64) ([]domain.Reservation, error)
	CountInDateRange(ctx context.Context, userEmail string, from, to time.Time, excludeID int64) (int, error)
	CountBySpace(ctx context.Context, spaceID int64) (int, error)
}

// WeekWindow returns the half-open window [start, end) of the calendar week
// containing ref, at day granularity in ref's location.
func WeekWindow(ref time.Time) (time.Time, time.Time) {
	day := startOfDay(ref)
	offset := (int(day.Weekday()) - int(WeekStartDay) + 7) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ConflictChecker decides whether a candidate range collides with stored
// reservations for a space. Read-only.
type ConflictChecker struct {
	reservations ReservationReader
}

func NewConflictChecker(reservations ReservationReader) *ConflictChecker {
	return &ConflictChecker{reservations: reservations}
}

// FindConflicts returns every reservation for spaceID whose stored interval
// overlaps rng, excluding excludeID (0 means exclude nothing). An empty
// result means the candidate is conflict-free.
func (c *ConflictChecker) FindConflicts(ctx context.Context, spaceID int64, rng domain.TimeRange, excludeID int64) ([]domain.Reservation, error) {
	return c.reservations.FindOverlapping(ctx, spaceID, rng.Start, rng.End, excludeID)
}

// WeeklyQuotaChecker counts a user's reservations inside the calendar week
// containing a reference date. Read-only.
type WeeklyQuotaChecker struct {
	reservations ReservationReader
}

func NewWeeklyQuotaChecker(reservations ReservationReader) *WeeklyQuotaChecker {
	return &WeeklyQuotaChecker{reservations: reservations}
}

func (q *WeeklyQuotaChecker) CountInWeek(ctx context.Context, userEmail string, refDate time.Time, excludeID int64) (int, error) {
	from, to := WeekWindow(refDate)
	return q.reservations.CountInDateRange(ctx, userEmail, from, to, excludeID)
}
