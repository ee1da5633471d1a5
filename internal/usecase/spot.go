package usecase

import (
	"context"

	"smart-parking/internal/domain/spot"
	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/errs"
	"smart-parking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type CreateSpotParams struct {
	SpotNumber       string
	Floor            int
	Zone             string
	Type             string
	RateCentsPerHour int64
}

type UpdateSpotParams struct {
	SpotNumber       string
	Floor            int
	Zone             string
	Type             string
	RateCentsPerHour int64
	Maintenance      bool
}

// SpotFilter narrows the catalog listing; nil fields are ignored. Status is
// matched against the derived status.
type SpotFilter struct {
	Status *string
	Floor  *int
	Zone   *string
	Type   *string
}

type SpotRepository interface {
	Create(ctx context.Context, s *spot.Spot) error
	Update(ctx context.Context, s *spot.Spot) error
	// Delete refuses while any non-terminal booking references the spot,
	// surfacing KindConflict.
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*spot.Spot, error)
	GetView(ctx context.Context, id uuid.UUID) (*readmodel.SpotRM, error)
	List(ctx context.Context, filter SpotFilter) ([]*readmodel.SpotRM, error)
}

type SpotUseCase interface {
	CreateSpot(ctx context.Context, actor Actor, params CreateSpotParams) (*readmodel.SpotRM, error)
	UpdateSpot(ctx context.Context, actor Actor, id uuid.UUID, params UpdateSpotParams) (*readmodel.SpotRM, error)
	DeleteSpot(ctx context.Context, actor Actor, id uuid.UUID) error
	GetSpot(ctx context.Context, id uuid.UUID) (*readmodel.SpotRM, error)
	ListSpots(ctx context.Context, filter SpotFilter) ([]*readmodel.SpotRM, error)
}

type spotUseCaseImpl struct {
	spotRepo SpotRepository
}

func NewSpotUseCase(spotRepo SpotRepository) SpotUseCase {
	return &spotUseCaseImpl{spotRepo: spotRepo}
}

func (u *spotUseCaseImpl) CreateSpot(ctx context.Context, actor Actor, params CreateSpotParams) (*readmodel.SpotRM, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	spotType, err := spot.NewType(params.Type)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	entity, err := spot.NewSpot(params.SpotNumber, params.Floor, params.Zone, spotType, params.RateCentsPerHour)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	if err := u.spotRepo.Create(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.ErrDuplicateSpot
		}
		return nil, mapSpotRepoErr(err)
	}

	return u.GetSpot(ctx, entity.ID())
}

func (u *spotUseCaseImpl) UpdateSpot(ctx context.Context, actor Actor, id uuid.UUID, params UpdateSpotParams) (*readmodel.SpotRM, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	existing, err := u.spotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapSpotRepoErr(err)
	}

	spotType, err := spot.NewType(params.Type)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	updated, err := spot.NewSpot(params.SpotNumber, params.Floor, params.Zone, spotType, params.RateCentsPerHour)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	entity := spot.ReconstructSpot(
		existing.ID(),
		updated.SpotNumber(),
		updated.Floor(),
		updated.Zone(),
		updated.SpotType(),
		updated.RateCentsPerHour(),
		params.Maintenance,
		existing.CreatedAt(),
		existing.UpdatedAt(),
	)

	if err := u.spotRepo.Update(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.ErrDuplicateSpot
		}
		return nil, mapSpotRepoErr(err)
	}

	return u.GetSpot(ctx, id)
}

func (u *spotUseCaseImpl) DeleteSpot(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return errs.ErrForbidden
	}

	if err := u.spotRepo.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.ErrSpotInUse
		}
		return mapSpotRepoErr(err)
	}
	return nil
}

func (u *spotUseCaseImpl) GetSpot(ctx context.Context, id uuid.UUID) (*readmodel.SpotRM, error) {
	view, err := u.spotRepo.GetView(ctx, id)
	if err != nil {
		return nil, mapSpotRepoErr(err)
	}
	return view, nil
}

func (u *spotUseCaseImpl) ListSpots(ctx context.Context, filter SpotFilter) ([]*readmodel.SpotRM, error) {
	views, err := u.spotRepo.List(ctx, filter)
	if err != nil {
		return nil, mapSpotRepoErr(err)
	}
	return views, nil
}

func mapSpotRepoErr(err error) error {
	return mapRepoErr(err, errs.ErrSpotNotFound)
}
