package repository

import (
	"context"
	"time"

	"flightminder-service/internal/domain/entity"
)

// FlightProvider defines the interface for flight data lookups
type FlightProvider interface {
	// Lookup returns every known occurrence of the flight designator (or
	// stable identity) within the window. Failures surface as
	// *entity.ProviderError or a wrapped transport error.
	Lookup(ctx context.Context, ident string, start, end time.Time) ([]entity.FlightOccurrence, error)
}
