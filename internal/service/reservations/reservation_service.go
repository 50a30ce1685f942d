package reservations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
	"github.com/alfredjmgdev/darien-technology-test/internal/kafka"
	"github.com/alfredjmgdev/darien-technology-test/internal/policy"
	"github.com/alfredjmgdev/darien-technology-test/internal/repository"
	"github.com/google/uuid"
)

type ReservationUseCase interface {
	Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, domain.Decision, error)
	Update(ctx context.Context, id int64, input UpdateReservationInput) (*domain.Reservation, domain.Decision, error)
	Delete(ctx context.Context, id int64, userEmail string) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userEmail string, page, limit int) ([]domain.Reservation, int, error)
}

type Cache interface {
	AcquireSpaceLock(ctx context.Context, spaceID int64, ttl time.Duration) (bool, error)
	ReleaseSpaceLock(ctx context.Context, spaceID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateReservationInput struct {
	SpaceID         int64     `json:"space_id"`
	UserEmail       string    `json:"user_email"`
	ReservationDate time.Time `json:"reservation_date"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
}

type UpdateReservationInput struct {
	ReservationDate *time.Time `json:"reservation_date"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
}

type ReservationService struct {
	reservations       repository.ReservationRepository
	policy             *policy.BookingPolicy
	cache              Cache
	producer           Producer
	reservationsTopic  string
	notificationsTopic string
	lockTTL            time.Duration
}

type ReservationServiceOption func(*ReservationService)

func WithNotificationsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.notificationsTopic = topic
	}
}

func NewReservationService(
	reservations repository.ReservationRepository,
	bookingPolicy *policy.BookingPolicy,
	cache Cache,
	producer Producer,
	reservationsTopic string,
	lockTTL time.Duration,
	opts ...ReservationServiceOption,
) *ReservationService {
	service := &ReservationService{
		reservations:      reservations,
		policy:            bookingPolicy,
		cache:             cache,
		producer:          producer,
		reservationsTopic: reservationsTopic,
		lockTTL:           lockTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create runs the admission pipeline and persists the reservation on admit.
// The per-space lock and the database exclusion constraint together keep two
// concurrent overlapping bookings from both succeeding: if the insert trips
// the constraint, the pipeline is re-run and the caller sees a TIME_CONFLICT
// decision instead of an infrastructure error.
func (s *ReservationService) Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, domain.Decision, error) {
	if input.UserEmail == "" {
		return nil, domain.Decision{}, errors.New("user email is required")
	}

	locked, err := s.lockSpace(ctx, input.SpaceID)
	if err != nil {
		return nil, domain.Decision{}, err
	}
	if locked {
		defer s.unlockSpace(ctx, input.SpaceID)
	}

	cand := policy.Candidate{
		SpaceID:         input.SpaceID,
		UserEmail:       input.UserEmail,
		ReservationDate: input.ReservationDate,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
	}
	decision, err := s.policy.EvaluateCreate(ctx, cand)
	if err != nil {
		return nil, domain.Decision{}, err
	}
	if !decision.Admitted {
		return nil, decision, nil
	}

	reservation := &domain.Reservation{
		SpaceID:         input.SpaceID,
		UserEmail:       input.UserEmail,
		ReservationDate: input.ReservationDate,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
	}
	if err := s.reservations.Insert(ctx, reservation); err != nil {
		if errors.Is(err, domain.ErrOverlapConstraint) {
			return nil, s.decisionAfterConstraint(ctx, cand, 0), nil
		}
		return nil, domain.Decision{}, err
	}

	if err := s.publish(ctx, "reservation_created", reservation); err != nil {
		log.Printf("WARNING: failed to publish reservation_created event for reservation %d: %v", reservation.ID, err)
	}
	return reservation, decision, nil
}

// Update re-runs the pipeline against the merged time range, excluding the
// reservation itself from the conflict and quota checks.
func (s *ReservationService) Update(ctx context.Context, id int64, input UpdateReservationInput) (*domain.Reservation, domain.Decision, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Decision{}, err
	}

	reservationDate := current.ReservationDate
	if input.ReservationDate != nil {
		reservationDate = *input.ReservationDate
	}
	startTime := current.StartTime
	if input.StartTime != nil {
		startTime = *input.StartTime
	}
	endTime := current.EndTime
	if input.EndTime != nil {
		endTime = *input.EndTime
	}

	locked, err := s.lockSpace(ctx, current.SpaceID)
	if err != nil {
		return nil, domain.Decision{}, err
	}
	if locked {
		defer s.unlockSpace(ctx, current.SpaceID)
	}

	cand := policy.Candidate{
		SpaceID:         current.SpaceID,
		UserEmail:       current.UserEmail,
		ReservationDate: reservationDate,
		StartTime:       startTime,
		EndTime:         endTime,
	}
	decision, err := s.policy.EvaluateUpdate(ctx, cand, id)
	if err != nil {
		return nil, domain.Decision{}, err
	}
	if !decision.Admitted {
		return nil, decision, nil
	}

	current.ReservationDate = reservationDate
	current.StartTime = startTime
	current.EndTime = endTime
	if err := s.reservations.Update(ctx, current); err != nil {
		if errors.Is(err, domain.ErrOverlapConstraint) {
			return nil, s.decisionAfterConstraint(ctx, cand, id), nil
		}
		return nil, domain.Decision{}, err
	}

	if err := s.publish(ctx, "reservation_updated", current); err != nil {
		log.Printf("WARNING: failed to publish reservation_updated event for reservation %d: %v", current.ID, err)
	}
	return current, decision, nil
}

// Delete removes a reservation owned by userEmail. A mismatched owner gets
// domain.ErrNotOwner; the transport layer maps it to 403.
func (s *ReservationService) Delete(ctx context.Context, id int64, userEmail string) error {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.UserEmail != userEmail {
		return domain.ErrNotOwner
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.publish(ctx, "reservation_cancelled", current); err != nil {
		log.Printf("WARNING: failed to publish reservation_cancelled event for reservation %d: %v", current.ID, err)
	}
	return nil
}

func (s *ReservationService) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

func (s *ReservationService) ListByUser(ctx context.Context, userEmail string, page, limit int) ([]domain.Reservation, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.reservations.ListByUser(ctx, userEmail, limit, (page-1)*limit)
}

// decisionAfterConstraint re-runs evaluation after the exclusion constraint
// fired. The re-read normally observes the winning row and reports the
// conflict; if it somehow does not, the constraint verdict still stands.
func (s *ReservationService) decisionAfterConstraint(ctx context.Context, cand policy.Candidate, excludeID int64) domain.Decision {
	decision, err := s.policy.EvaluateUpdate(ctx, cand, excludeID)
	if err == nil && !decision.Admitted {
		return decision
	}
	return domain.Rejected(domain.ReasonTimeConflict)
}

func (s *ReservationService) lockSpace(ctx context.Context, spaceID int64) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	ok, err := s.cache.AcquireSpaceLock(ctx, spaceID, s.lockTTL)
	if err != nil {
		return false, fmt.Errorf("acquire space lock: %w", err)
	}
	if !ok {
		return false, domain.ErrSpaceBusy
	}
	return true, nil
}

func (s *ReservationService) unlockSpace(ctx context.Context, spaceID int64) {
	_ = s.cache.ReleaseSpaceLock(ctx, spaceID)
}

func (s *ReservationService) publish(ctx context.Context, eventType string, reservation *domain.Reservation) error {
	if s.producer == nil || s.reservationsTopic == "" {
		return nil
	}
	event := kafka.ReservationEvent{
		EventID:         uuid.NewString(),
		Type:            eventType,
		ReservationID:   reservation.ID,
		SpaceID:         reservation.SpaceID,
		UserEmail:       reservation.UserEmail,
		ReservationDate: reservation.ReservationDate,
		StartTime:       reservation.StartTime,
		EndTime:         reservation.EndTime,
	}
	key := fmt.Sprintf("%d", reservation.ID)
	if err := s.producer.Publish(ctx, s.reservationsTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

var _ ReservationUseCase = (*ReservationService)(nil)
