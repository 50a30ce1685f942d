package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
)

// Candidate is a proposed reservation to be admitted or rejected.
type Candidate struct {
	SpaceID         int64
	UserEmail       string
	ReservationDate time.Time
	StartTime       time.Time
	EndTime         time.Time
}

// BookingPolicy runs the admission pipeline for reservations and the deletion
// guard for spaces. Evaluation is read-only; persisting an admitted candidate
// is the caller's job. Checks run in a fixed order and short-circuit on the
// first failure: past date, space exists, time conflict, weekly quota.
type BookingPolicy struct {
	spaces       SpaceReader
	reservations ReservationReader
	conflicts    *ConflictChecker
	quota        *WeeklyQuotaChecker
	quotaLimit   int
	clock        Clock
}

type Option func(*BookingPolicy)

func WithClock(clock Clock) Option {
	return func(p *BookingPolicy) {
		p.clock = clock
	}
}

func NewBookingPolicy(spaces SpaceReader, reservations ReservationReader, quotaLimit int, opts ...Option) *BookingPolicy {
	if quotaLimit <= 0 {
		quotaLimit = DefaultWeeklyQuota
	}
	p := &BookingPolicy{
		spaces:       spaces,
		reservations: reservations,
		conflicts:    NewConflictChecker(reservations),
		quota:        NewWeeklyQuotaChecker(reservations),
		quotaLimit:   quotaLimit,
		clock:        RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *BookingPolicy) EvaluateCreate(ctx context.Context, cand Candidate) (domain.Decision, error) {
	return p.evaluate(ctx, cand, 0)
}

// EvaluateUpdate re-runs the pipeline for a reservation's new proposed range.
// excludeID keeps the reservation's prior self out of both the conflict set
// and the quota count, so re-saving an unchanged reservation never rejects.
func (p *BookingPolicy) EvaluateUpdate(ctx context.Context, cand Candidate, excludeID int64) (domain.Decision, error) {
	return p.evaluate(ctx, cand, excludeID)
}

func (p *BookingPolicy) evaluate(ctx context.Context, cand Candidate, excludeID int64) (domain.Decision, error) {
	rng, err := domain.NewTimeRange(cand.StartTime, cand.EndTime)
	if err != nil {
		return domain.Decision{}, err
	}

	today := startOfDay(p.clock.Now())
	if startOfDay(cand.ReservationDate).Before(today) {
		return domain.Rejected(domain.ReasonPastDate), nil
	}

	if _, err := p.spaces.GetByID(ctx, cand.SpaceID); err != nil {
		if errors.Is(err, domain.ErrSpaceNotFound) {
			return domain.Rejected(domain.ReasonSpaceNotFound), nil
		}
		return domain.Decision{}, fmt.Errorf("load space %d: %w", cand.SpaceID, err)
	}

	conflicts, err := p.conflicts.FindConflicts(ctx, cand.SpaceID, rng, excludeID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("find conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return domain.Rejected(domain.ReasonTimeConflict), nil
	}

	count, err := p.quota.CountInWeek(ctx, cand.UserEmail, cand.ReservationDate, excludeID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("count weekly reservations: %w", err)
	}
	if count >= p.quotaLimit {
		weekStart, _ := WeekWindow(cand.ReservationDate)
		return domain.RejectedQuota(weekStart, count, p.quotaLimit), nil
	}

	return domain.Admitted(), nil
}

// EvaluateSpaceDeletion admits deletion only for an existing space with zero
// reservations, past or future.
func (p *BookingPolicy) EvaluateSpaceDeletion(ctx context.Context, spaceID int64) (domain.Decision, error) {
	if _, err := p.spaces.GetByID(ctx, spaceID); err != nil {
		if errors.Is(err, domain.ErrSpaceNotFound) {
			return domain.Rejected(domain.ReasonSpaceNotFound), nil
		}
		return domain.Decision{}, fmt.Errorf("load space %d: %w", spaceID, err)
	}

	count, err := p.reservations.CountBySpace(ctx, spaceID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("count space reservations: %w", err)
	}
	if count > 0 {
		return domain.Rejected(domain.ReasonSpaceHasReservations), nil
	}
	return domain.Admitted(), nil
}
