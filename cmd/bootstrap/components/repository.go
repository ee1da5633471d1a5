package components

import (
	"smart-parking/internal/infra/repository"
	"smart-parking/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(usecase.BookingRepository)),
		),
		fx.Annotate(
			repository.NewSpotRepository,
			fx.As(new(usecase.SpotRepository)),
			fx.As(new(usecase.SpotReader)),
		),
		fx.Annotate(
			repository.NewUserRepository,
			fx.As(new(usecase.UserRepository)),
		),
	),
)
