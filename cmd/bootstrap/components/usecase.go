package components

import (
	"smart-parking/internal/domain/booking"
	"smart-parking/internal/pkg/clock"
	"smart-parking/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		fx.Annotate(
			booking.NewHourlyPriceCalculator,
			fx.As(new(booking.PriceCalculator)),
		),
		func(clock clock.Clock, calc booking.PriceCalculator) *booking.Services {
			return &booking.Services{
				Clock:           clock,
				PriceCalculator: calc,
			}
		},
		usecase.NewBookingUseCase,
		usecase.NewSpotUseCase,
		usecase.NewAuthUseCase,
		usecase.NewTokenValidator,
	),
)
