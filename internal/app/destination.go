package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tripbook/internal/domain"
)

// ExtractDestinationID returns the first usable destination id carried by the
// package, or "" when none of its destination shapes holds one.
func ExtractDestinationID(pkg domain.Package) string {
	return destinationIDOf(pkg.Destination)
}

func destinationIDOf(ref domain.DestinationRef) string {
	switch ref.Kind {
	case domain.DestinationList:
		for _, it := range ref.Items {
			if it.Kind == domain.DestinationList {
				continue
			}
			if id := destinationIDOf(it); id != "" {
				return id
			}
		}
		return ""
	case domain.DestinationObject:
		return validDestinationID(ref.ID)
	case domain.DestinationCode:
		return validDestinationID(ref.Code)
	default:
		return ""
	}
}

func validDestinationID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) < domain.MinDestinationIDLen {
		return ""
	}
	return id
}

// directAirportCode returns a 3-letter code when the package names its
// destination airport directly.
func directAirportCode(ref domain.DestinationRef) string {
	switch ref.Kind {
	case domain.DestinationCode:
		if len(ref.Code) == 3 {
			return strings.ToUpper(ref.Code)
		}
	case domain.DestinationList:
		if len(ref.Items) > 0 {
			return directAirportCode(ref.Items[0])
		}
	}
	return ""
}

// DestinationResolver turns a package into an airport code, consulting the
// inventory provider for destination details behind a cache.
type DestinationResolver struct {
	inv   domain.InventoryClient
	cache domain.Cache
	ttl   time.Duration
}

func NewDestinationResolver(inv domain.InventoryClient, cache domain.Cache, ttl time.Duration) *DestinationResolver {
	return &DestinationResolver{inv: inv, cache: cache, ttl: ttl}
}

func destinationCacheKey(id string) string { return "destination:" + id }

// Destination fetches destination details by id, read-through cached.
func (r *DestinationResolver) Destination(ctx context.Context, id string) (domain.Destination, error) {
	if validDestinationID(id) == "" {
		return domain.Destination{}, domain.ErrNotFound
	}
	key := destinationCacheKey(id)
	if r.cache != nil {
		var d domain.Destination
		if ok, err := r.cache.Get(ctx, key, &d); err == nil && ok {
			return d, nil
		}
	}
	raw, err := r.inv.GetDestination(ctx, id)
	if err != nil {
		return domain.Destination{}, err
	}
	if raw == nil {
		return domain.Destination{}, domain.ErrNotFound
	}
	d := mapDestination(id, raw)
	if r.cache != nil {
		if err := r.cache.Set(ctx, key, d, int(r.ttl/time.Second)); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return d, nil
}

// ResolveDestinationCode returns the airport code for pkg, trying in order a
// literal 3-letter code, the destination record's name or city, the name
// embedded in the package's destination field, and finally a guess from the
// package title. "" means unresolved.
func (r *DestinationResolver) ResolveDestinationCode(ctx context.Context, pkg domain.Package) string {
	if code := directAirportCode(pkg.Destination); code != "" {
		return code
	}
	if id := ExtractDestinationID(pkg); id != "" {
		d, err := r.Destination(ctx, id)
		switch {
		case err == nil:
			if code := CityToIATA(d.Name); code != "" {
				return code
			}
			if code := CityToIATA(d.City); code != "" {
				return code
			}
		case errors.Is(err, domain.ErrNotFound):
			log.Debug().Str("destination_id", id).Msg("destination not found upstream")
		default:
			log.Warn().Err(err).Str("destination_id", id).Msg("destination lookup failed")
		}
	}
	if code := CityToIATA(destinationRefName(pkg.Destination)); code != "" {
		return code
	}
	return CityToIATA(ExtractCityFromPackageName(pkg.Name, pkg))
}

// destinationRefName is the display name carried by an object-shaped
// destination, or by the first named object in a list.
func destinationRefName(ref domain.DestinationRef) string {
	switch ref.Kind {
	case domain.DestinationObject:
		return ref.Name
	case domain.DestinationList:
		for _, it := range ref.Items {
			if n := destinationRefName(it); n != "" {
				return n
			}
		}
	}
	return ""
}
