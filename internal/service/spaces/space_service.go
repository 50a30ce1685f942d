package spaces

import (
	"context"
	"errors"
	"time"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
	"github.com/alfredjmgdev/darien-technology-test/internal/policy"
	"github.com/alfredjmgdev/darien-technology-test/internal/repository"
)

type SpaceUseCase interface {
	List(ctx context.Context) ([]domain.Space, error)
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
	Create(ctx context.Context, input CreateSpaceInput) (*domain.Space, error)
	Update(ctx context.Context, id int64, input UpdateSpaceInput) (*domain.Space, error)
	Delete(ctx context.Context, id int64) (domain.Decision, error)
}

type Cache interface {
	GetSpaces(ctx context.Context) ([]domain.Space, error)
	SetSpaces(ctx context.Context, spaces []domain.Space) error
	InvalidateSpaces(ctx context.Context) error
	AcquireSpaceLock(ctx context.Context, spaceID int64, ttl time.Duration) (bool, error)
	ReleaseSpaceLock(ctx context.Context, spaceID int64) error
}

type CreateSpaceInput struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description"`
}

type UpdateSpaceInput struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	Description *string `json:"description"`
}

type SpaceService struct {
	spaces  repository.SpaceRepository
	policy  *policy.BookingPolicy
	cache   Cache
	lockTTL time.Duration
}

func NewSpaceService(spaces repository.SpaceRepository, bookingPolicy *policy.BookingPolicy, cache Cache, lockTTL time.Duration) *SpaceService {
	return &SpaceService{spaces: spaces, policy: bookingPolicy, cache: cache, lockTTL: lockTTL}
}

func (s *SpaceService) List(ctx context.Context) ([]domain.Space, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSpaces(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	spaces, err := s.spaces.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSpaces(ctx, spaces)
	}
	return spaces, nil
}

func (s *SpaceService) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	return s.spaces.GetByID(ctx, id)
}

func (s *SpaceService) Create(ctx context.Context, input CreateSpaceInput) (*domain.Space, error) {
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	if input.Capacity <= 0 {
		return nil, errors.New("capacity must be positive")
	}

	space := &domain.Space{
		Name:        input.Name,
		Location:    input.Location,
		Capacity:    input.Capacity,
		Description: input.Description,
	}
	if err := s.spaces.Create(ctx, space); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateSpaces(ctx)
	}
	return space, nil
}

func (s *SpaceService) Update(ctx context.Context, id int64, input UpdateSpaceInput) (*domain.Space, error) {
	current, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		current.Name = *input.Name
	}
	if input.Location != nil {
		current.Location = *input.Location
	}
	if input.Capacity != nil {
		if *input.Capacity <= 0 {
			return nil, errors.New("capacity must be positive")
		}
		current.Capacity = *input.Capacity
	}
	if input.Description != nil {
		current.Description = *input.Description
	}

	if err := s.spaces.Update(ctx, current); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateSpaces(ctx)
	}
	return current, nil
}

// Delete removes a space only when the deletion guard admits it. The same
// per-space lock used by reservation creation keeps a booking from slipping
// in between the zero-reservations check and the delete.
func (s *SpaceService) Delete(ctx context.Context, id int64) (domain.Decision, error) {
	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSpaceLock(ctx, id, s.lockTTL)
		if err != nil {
			return domain.Decision{}, err
		}
		if !ok {
			return domain.Decision{}, domain.ErrSpaceBusy
		}
		locked = true
	}
	if locked {
		defer func() { _ = s.cache.ReleaseSpaceLock(ctx, id) }()
	}

	decision, err := s.policy.EvaluateSpaceDeletion(ctx, id)
	if err != nil {
		return domain.Decision{}, err
	}
	if !decision.Admitted {
		return decision, nil
	}

	if err := s.spaces.Delete(ctx, id); err != nil {
		return domain.Decision{}, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateSpaces(ctx)
	}
	return decision, nil
}

var _ SpaceUseCase = (*SpaceService)(nil)
