package app

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"tripbook/internal/domain"
)

// HotelMatcher answers hotel questions from the bulk catalog, falling back to
// the inventory provider when the catalog has nothing for a package.
type HotelMatcher struct {
	catalog domain.CatalogSource
	inv     domain.InventoryClient
}

func NewHotelMatcher(catalog domain.CatalogSource, inv domain.InventoryClient) *HotelMatcher {
	return &HotelMatcher{catalog: catalog, inv: inv}
}

func (m *HotelMatcher) rows(ctx context.Context) []domain.CatalogRow {
	if m.catalog == nil {
		return nil
	}
	rows, err := m.catalog.Rows(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog unavailable")
		return nil
	}
	return rows
}

// scan maps every well-formed catalog row accepted by keep.
func (m *HotelMatcher) scan(ctx context.Context, keep func(domain.CatalogRow) bool) []domain.HotelRecord {
	var out []domain.HotelRecord
	for _, row := range m.rows(ctx) {
		if row.ParseErr != nil {
			log.Debug().Err(row.ParseErr).Str("hotel_id", row.HotelID).Msg("skip catalog row")
			continue
		}
		if !keep(row) {
			continue
		}
		h, skipped := mapCatalogHotel(row)
		if skipped > 0 {
			log.Debug().Int("skipped", skipped).Str("hotel_id", h.ID).Msg("malformed room entries")
		}
		out = append(out, h)
	}
	return out
}

// HotelsByDestination returns catalog hotels whose location destinationId
// equals id. Only rooms with meal plans and hotels with rooms are returned.
func (m *HotelMatcher) HotelsByDestination(ctx context.Context, id string) []domain.HotelRecord {
	if id == "" {
		return nil
	}
	all := m.scan(ctx, func(r domain.CatalogRow) bool {
		return lookupStr(r.Location, "destinationId") == id
	})
	out := all[:0]
	for _, h := range all {
		if len(h.Rooms) > 0 {
			out = append(out, h)
		}
	}
	return out
}

// HotelsByDestinationAndPackage narrows HotelsByDestination with the
// optional exact-match filters in f.
func (m *HotelMatcher) HotelsByDestinationAndPackage(ctx context.Context, id string, f domain.HotelFilter) []domain.HotelRecord {
	var out []domain.HotelRecord
	for _, h := range m.HotelsByDestination(ctx, id) {
		var rooms []domain.RoomRecord
		for _, r := range h.Rooms {
			if f.RoomType != "" && r.RoomType != f.RoomType {
				continue
			}
			var plans []domain.MealPlanRecord
			for _, mp := range r.MealPlans {
				if f.PackageType != "" && mp.Plan != f.PackageType {
					continue
				}
				if f.SeasonType != "" && mp.Season != f.SeasonType {
					continue
				}
				plans = append(plans, mp)
			}
			if len(plans) == 0 {
				continue
			}
			r.MealPlans = plans
			rooms = append(rooms, r)
		}
		if len(rooms) == 0 {
			continue
		}
		h.Rooms = rooms
		out = append(out, h)
	}
	return out
}

// HotelSummaryByDestination aggregates the destination's hotels. An unknown
// or empty id yields a zero summary with empty lists.
func (m *HotelMatcher) HotelSummaryByDestination(ctx context.Context, id string) domain.HotelSummary {
	s := domain.HotelSummary{
		DestinationID:      id,
		AvailablePackages:  []string{},
		AvailableRoomTypes: []string{},
		Hotels:             []domain.HotelBrief{},
	}
	hotels := m.HotelsByDestination(ctx, id)
	if len(hotels) == 0 {
		return s
	}

	plans := map[string]struct{}{}
	roomTypes := map[string]struct{}{}
	var sum float64
	var n int
	for _, h := range hotels {
		s.Hotels = append(s.Hotels, domain.HotelBrief{Name: h.Name, ID: h.ID, Review: h.Review})
		for _, r := range h.Rooms {
			if r.RoomType != "" {
				roomTypes[r.RoomType] = struct{}{}
			}
			for _, mp := range r.MealPlans {
				if mp.Plan != "" {
					plans[mp.Plan] = struct{}{}
				}
				if mp.Prices.Room == nil {
					continue
				}
				p := *mp.Prices.Room
				if n == 0 || p < s.PriceRange.Min {
					s.PriceRange.Min = p
				}
				if n == 0 || p > s.PriceRange.Max {
					s.PriceRange.Max = p
				}
				sum += p
				n++
			}
		}
	}
	if n > 0 {
		s.PriceRange.Average = sum / float64(n)
	}
	s.TotalHotels = len(hotels)
	s.AvailablePackages = sortedKeys(plans)
	s.AvailableRoomTypes = sortedKeys(roomTypes)
	return s
}

// AvailableDestinations lists the distinct destination ids in the catalog.
func (m *HotelMatcher) AvailableDestinations(ctx context.Context) []string {
	set := map[string]struct{}{}
	for _, row := range m.rows(ctx) {
		if row.ParseErr != nil {
			continue
		}
		if id := lookupStr(row.Location, "destinationId"); id != "" {
			set[id] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// SearchHotelsByName matches hotel names case-insensitively by substring,
// optionally restricted to one destination.
func (m *HotelMatcher) SearchHotelsByName(ctx context.Context, name, destinationID string) []domain.HotelRecord {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil
	}
	return m.scan(ctx, func(r domain.CatalogRow) bool {
		if destinationID != "" && lookupStr(r.Location, "destinationId") != destinationID {
			return false
		}
		return strings.Contains(strings.ToLower(r.HotelName), q)
	})
}

type HotelSource string

const (
	SourceCatalog HotelSource = "catalog"
	SourcePackage HotelSource = "package"
	SourceLive    HotelSource = "live"
	SourceNone    HotelSource = "none"
)

// HotelOptions is what the fallback chain found for one package. Exactly one
// of Catalog and Offers is populated, unless Source is SourceNone.
type HotelOptions struct {
	Source  HotelSource
	Catalog []domain.HotelRecord
	Offers  []HotelOffer
	Err     error // live fetch failure, other than not-found
}

// HotelOffers walks the fallback chain: catalog by destination id, then the
// hotels embedded in the package, then a live fetch for the package.
func (m *HotelMatcher) HotelOffers(ctx context.Context, pkg domain.Package, destinationID string) HotelOptions {
	if hotels := m.HotelsByDestination(ctx, destinationID); len(hotels) > 0 {
		return HotelOptions{Source: SourceCatalog, Catalog: hotels}
	}
	if len(pkg.Hotels) > 0 {
		return HotelOptions{Source: SourcePackage, Offers: mapOffers(pkg.Hotels)}
	}
	if m.inv == nil || pkg.ID == "" {
		return HotelOptions{Source: SourceNone}
	}
	live, err := m.inv.GetPackageHotels(ctx, pkg.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return HotelOptions{Source: SourceNone}
	case err != nil:
		return HotelOptions{Source: SourceNone, Err: err}
	case len(live) == 0:
		return HotelOptions{Source: SourceNone}
	}
	return HotelOptions{Source: SourceLive, Offers: mapOffers(live)}
}

func mapOffers(raw []map[string]any) []HotelOffer {
	out := make([]HotelOffer, 0, len(raw))
	for _, r := range raw {
		out = append(out, mapOffer(r))
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
