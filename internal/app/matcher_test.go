package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripbook/internal/app"
	"tripbook/internal/domain"
)

func TestHotelsByDestination_OnlyMatchingHotelsWithPricedRooms(t *testing.T) {
	m := app.NewHotelMatcher(parseCatalog(t, munnarCatalog), nil)

	hotels := m.HotelsByDestination(context.Background(), munnarDest)
	require.Len(t, hotels, 2)
	for _, h := range hotels {
		assert.Equal(t, munnarDest, h.DestinationID)
		require.NotEmpty(t, h.Rooms)
		for _, r := range h.Rooms {
			assert.NotEmpty(t, r.MealPlans, "room %s of %s", r.RoomType, h.Name)
		}
	}
	assert.Equal(t, "Tea Valley", hotels[0].Name)
	assert.Len(t, hotels[0].Rooms, 1, "suite without meal plans is dropped")
	require.NotNil(t, hotels[0].Rooms[0].IsAC)
	assert.True(t, *hotels[0].Rooms[0].IsAC)
	assert.Equal(t, 2, *hotels[0].Rooms[0].MaxAdult)

	assert.Empty(t, m.HotelsByDestination(context.Background(), ""))
	assert.Empty(t, m.HotelsByDestination(context.Background(), "dest-unknown-99"))
}

func TestHotelsByDestinationAndPackage_Filters(t *testing.T) {
	m := app.NewHotelMatcher(parseCatalog(t, munnarCatalog), nil)
	ctx := context.Background()

	cp := m.HotelsByDestinationAndPackage(ctx, munnarDest, domain.HotelFilter{PackageType: "cp"})
	require.Len(t, cp, 2)
	for _, h := range cp {
		for _, r := range h.Rooms {
			for _, mp := range r.MealPlans {
				assert.Equal(t, "cp", mp.Plan)
			}
		}
	}

	both := m.HotelsByDestinationAndPackage(ctx, munnarDest, domain.HotelFilter{RoomType: "Deluxe", SeasonType: "offSeason"})
	require.Len(t, both, 1)
	assert.Equal(t, "Tea Valley", both[0].Name)
	require.Len(t, both[0].Rooms, 1)
	require.Len(t, both[0].Rooms[0].MealPlans, 1)
	assert.Equal(t, "map", both[0].Rooms[0].MealPlans[0].Plan)

	none := m.HotelsByDestinationAndPackage(ctx, munnarDest, domain.HotelFilter{PackageType: "ep"})
	assert.Empty(t, none)

	all := m.HotelsByDestinationAndPackage(ctx, munnarDest, domain.HotelFilter{})
	assert.Equal(t, m.HotelsByDestination(ctx, munnarDest), all)
}

func TestHotelSummaryByDestination(t *testing.T) {
	m := app.NewHotelMatcher(parseCatalog(t, munnarCatalog), nil)

	s := m.HotelSummaryByDestination(context.Background(), munnarDest)
	assert.Equal(t, 2, s.TotalHotels)
	assert.Equal(t, 3000.0, s.PriceRange.Min)
	assert.Equal(t, 9500.0, s.PriceRange.Max)
	assert.InDelta(t, (8000.0+9500+3000)/3, s.PriceRange.Average, 1e-9)
	assert.Equal(t, []string{"ap", "cp", "map"}, s.AvailablePackages)
	assert.Equal(t, []string{"Deluxe", "Standard"}, s.AvailableRoomTypes)
	assert.Len(t, s.Hotels, 2)
}

func TestHotelSummaryByDestination_EmptyIsZero(t *testing.T) {
	m := app.NewHotelMatcher(parseCatalog(t, munnarCatalog), nil)
	for _, id := range []string{"", "dest-unknown-99"} {
		s := m.HotelSummaryByDestination(context.Background(), id)
		assert.Equal(t, 0, s.TotalHotels)
		assert.Equal(t, domain.PriceRange{}, s.PriceRange)
		assert.Empty(t, s.AvailablePackages)
		assert.Empty(t, s.AvailableRoomTypes)
		assert.NotNil(t, s.Hotels)
		assert.Empty(t, s.Hotels)
	}
}

func TestAvailableDestinationsAndSearch(t *testing.T) {
	m := app.NewHotelMatcher(parseCatalog(t, munnarCatalog), nil)
	ctx := context.Background()

	assert.Equal(t, []string{"dest-goa-000001", munnarDest}, m.AvailableDestinations(ctx))

	found := m.SearchHotelsByName(ctx, "  MIST ", "")
	require.Len(t, found, 1)
	assert.Equal(t, "H2", found[0].ID)

	assert.Len(t, m.SearchHotelsByName(ctx, "a", ""), 2)
	assert.Len(t, m.SearchHotelsByName(ctx, "a", munnarDest), 1)
	assert.Empty(t, m.SearchHotelsByName(ctx, "", ""))
}

func TestHotelOffers_FallbackChain(t *testing.T) {
	ctx := context.Background()
	inv := &fakeInventory{liveHotels: map[string][]map[string]any{
		"pkg-live": {{"hotelName": "Live Hotel", "price": 4000.0}},
	}}
	m := app.NewHotelMatcher(parseCatalog(t, munnarCatalog), inv)

	got := m.HotelOffers(ctx, domain.Package{ID: "pkg-1"}, munnarDest)
	assert.Equal(t, app.SourceCatalog, got.Source)
	assert.Len(t, got.Catalog, 2)

	embedded := domain.Package{ID: "pkg-2", Hotels: []domain.RawRecord{{"name": "Embedded", "price": 1000.0}}}
	got = m.HotelOffers(ctx, embedded, "dest-unknown-99")
	assert.Equal(t, app.SourcePackage, got.Source)
	require.Len(t, got.Offers, 1)
	assert.Equal(t, "Embedded", got.Offers[0].Name)
	assert.Equal(t, 0, inv.count("GetPackageHotels"))

	got = m.HotelOffers(ctx, domain.Package{ID: "pkg-live"}, "")
	assert.Equal(t, app.SourceLive, got.Source)
	require.Len(t, got.Offers, 1)

	got = m.HotelOffers(ctx, domain.Package{ID: "pkg-none"}, "")
	assert.Equal(t, app.SourceNone, got.Source)
	assert.NoError(t, got.Err)

	inv.liveErr = errors.New("upstream 503")
	got = m.HotelOffers(ctx, domain.Package{ID: "pkg-live"}, "")
	assert.Equal(t, app.SourceNone, got.Source)
	assert.Error(t, got.Err)
}
