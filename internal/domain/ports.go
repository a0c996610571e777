package domain

import (
	"context"
	"time"
)

type InventoryClient interface {
	GetPackage(ctx context.Context, id string) (map[string]any, error)
	ListPackages(ctx context.Context, search string) ([]map[string]any, error)
	GetDestination(ctx context.Context, id string) (map[string]any, error)
	GetPackageHotels(ctx context.Context, packageID string) ([]map[string]any, error)
	ListAllHotels(ctx context.Context) ([]map[string]any, error)
}

type FlightClient interface {
	SearchFlightOffers(ctx context.Context, origin, destination string, date time.Time) ([]FlightOffer, error)
}

type CatalogSource interface {
	Rows(ctx context.Context) ([]CatalogRow, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type BookingRepository interface {
	// Write paths
	SaveBooking(ctx context.Context, b Booking) error
	LogMiss(ctx context.Context, packageID, stage, reason string) error

	// Read paths
	ListBookings(ctx context.Context, customer string, limit int) ([]Booking, error)
}
