// Package bootstrap is the composition root shared by the binaries.
package bootstrap

import (
	"errors"

	"github.com/rs/zerolog/log"

	"tripbook/internal/adapters/amadeus"
	"tripbook/internal/adapters/tripxplo"
	"tripbook/internal/app"
	"tripbook/internal/catalog"
	"tripbook/internal/domain"
	"tripbook/internal/shared"
)

// Infra carries the optional infrastructure. Nil fields disable the feature
// that needs them: no cache means every lookup goes upstream, no repo means
// bookings are not recorded.
type Infra struct {
	Cache domain.Cache
	Repo  domain.BookingRepository
}

type Services struct {
	Inventory    domain.InventoryClient
	Flights      domain.FlightClient
	Catalog      domain.CatalogSource
	Destinations *app.DestinationResolver
	Hotels       *app.HotelMatcher
	Directory    *app.HotelDirectory
	Booking      *app.BookingService
	Queries      *app.QueryService
}

// Clients builds the provider clients from configuration. Missing flight
// credentials are not an error: the returned FlightClient is nil.
func Clients(cfg shared.Config) (domain.InventoryClient, domain.FlightClient, error) {
	inv, err := tripxplo.New(cfg.InventoryBase, cfg.InventoryEmail, cfg.InventoryPassword, cfg.InventoryRPS)
	if err != nil {
		return nil, nil, err
	}
	fl, err := amadeus.New(cfg.FlightBase, cfg.FlightClientID, cfg.FlightClientSecret, cfg.FlightMaxOffers)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		log.Info().Msg("flight search disabled")
		return inv, nil, nil
	case err != nil:
		return nil, nil, err
	}
	return inv, fl, nil
}

// Build wires the application services over the given clients.
func Build(cfg shared.Config, inv domain.InventoryClient, flights domain.FlightClient, infra Infra) *Services {
	s := &Services{
		Inventory: inv,
		Flights:   flights,
		Catalog:   catalog.NewLoader(cfg.CatalogPath),
	}
	s.Destinations = app.NewDestinationResolver(inv, infra.Cache, cfg.CacheTTL)
	s.Hotels = app.NewHotelMatcher(s.Catalog, inv)
	s.Directory = app.NewHotelDirectory(inv)
	s.Booking = app.NewBookingService(app.BookingDeps{
		Inventory:    inv,
		Flights:      flights,
		Destinations: s.Destinations,
		Hotels:       s.Hotels,
		Directory:    s.Directory,
		Repo:         infra.Repo,
	}, app.BookingConfig{OriginHub: cfg.OriginHub, OriginLabel: cfg.OriginLabel})

	var opts []app.QueryOption
	if infra.Repo != nil {
		opts = append(opts, app.WithBookingRepository(infra.Repo))
	}
	s.Queries = app.NewQueryService(inv, infra.Cache, cfg.CacheTTL, opts...)
	return s
}
