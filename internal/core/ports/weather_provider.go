package ports

import (
	"context"

	"github.com/hydrowise/hydration-service/internal/core/domain"
)

// WeatherProvider looks up current conditions. Failures are returned as
// *domain.WeatherError.
type WeatherProvider interface {
	Current(ctx context.Context, at domain.Coordinates) (domain.WeatherReport, error)
}
