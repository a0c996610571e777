package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tripbook/internal/domain"
)

func TestExtractDestinationID_Shapes(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"list of objects", map[string]any{"destination": []any{map[string]any{"destinationId": "abcdef123"}}}, "abcdef123"},
		{"list skips short ids", map[string]any{"destination": []any{
			map[string]any{"destinationId": "short"},
			"nope",
			map[string]any{"destinationId": "second-valid"},
		}}, "second-valid"},
		{"list of strings", map[string]any{"destination": []any{"abcdefgh"}}, "abcdefgh"},
		{"object", map[string]any{"destination": map[string]any{"destinationId": "abcdef123"}}, "abcdef123"},
		{"object short id", map[string]any{"destination": map[string]any{"destinationId": "abc"}}, ""},
		{"plain string", map[string]any{"destination": "abcdefgh"}, "abcdefgh"},
		{"three letter code is not an id", map[string]any{"destination": "COK"}, ""},
		{"alternate key", map[string]any{"cityCode": "zyxwvuts1"}, "zyxwvuts1"},
		{"absent", map[string]any{}, ""},
		{"number", map[string]any{"destination": 12345678.0}, ""},
		{"empty list falls through", map[string]any{"destination": []any{}, "to": map[string]any{"destinationId": "fallback-1"}}, "fallback-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractDestinationID(mapPackage(tc.raw, "p1"))
			assert.Equal(t, tc.want, got)
			if got != "" {
				assert.GreaterOrEqual(t, len(got), domain.MinDestinationIDLen)
			}
		})
	}
}

func TestCityToIATA(t *testing.T) {
	for _, in := range []string{" munnar ", "MUNNAR", "Munnar"} {
		assert.Equal(t, "COK", CityToIATA(in), in)
	}
	assert.Equal(t, "IXZ", CityToIATA("neil island"))
	assert.Equal(t, "", CityToIATA("Atlantis"))
	assert.Equal(t, "", CityToIATA(""))
}

func TestExtractCityFromPackageName_Tiers(t *testing.T) {
	assert.Equal(t, "Munnar", ExtractCityFromPackageName("Magical Munnar Escape", domain.Package{}))

	// Table order wins when a title names two cities.
	assert.Equal(t, "Munnar", ExtractCityFromPackageName("Kerala and Munnar", domain.Package{}))

	pkg := domain.Package{DestinationName: "Goa, Kochi"}
	assert.Equal(t, "Goa", ExtractCityFromPackageName("Beach Week", pkg))

	assert.Equal(t, "Hampi Ruins", ExtractCityFromPackageName("Three days in Hampi Ruins", domain.Package{}))
	assert.Equal(t, "", ExtractCityFromPackageName("Mystery Tour", domain.Package{}))
}

func TestResolveDestinationCode_Order(t *testing.T) {
	ctx := context.Background()
	inv := &stubInventory{destinations: map[string]map[string]any{
		"dest-munnar-01": {"name": "Munnar"},
		"dest-city-only": {"name": "Somewhere", "city": "Ooty"},
	}}
	cache := map[string]domain.Destination{}
	r := NewDestinationResolver(inv, mapCache(cache), time.Minute)

	code := func(raw map[string]any) string { return r.ResolveDestinationCode(ctx, mapPackage(raw, "p")) }

	assert.Equal(t, "GOX", code(map[string]any{"destination": "gox"}))
	assert.Equal(t, "COK", code(map[string]any{"destination": []any{map[string]any{"destinationId": "dest-munnar-01"}}}))
	assert.Equal(t, "CJB", code(map[string]any{"destination": map[string]any{"destinationId": "dest-city-only"}}))
	assert.Equal(t, "SXR", code(map[string]any{"packageName": "Srinagar Houseboats", "destination": map[string]any{"destinationId": "dest-missing-1"}}))
	assert.Equal(t, "", code(map[string]any{"packageName": "Mystery Tour"}))

	// Second lookup of the same id is served from the cache.
	before := inv.destinationCalls
	assert.Equal(t, "COK", code(map[string]any{"destination": map[string]any{"destinationId": "dest-munnar-01"}}))
	assert.Equal(t, before, inv.destinationCalls)
}

func TestResolveDestinationCode_EmbeddedDestinationName(t *testing.T) {
	ctx := context.Background()
	r := NewDestinationResolver(&stubInventory{}, nil, time.Minute)
	code := func(raw map[string]any) string { return r.ResolveDestinationCode(ctx, mapPackage(raw, "p")) }

	assert.Equal(t, "COK", code(map[string]any{"packageName": "Mystery Tour", "destination": map[string]any{"name": "Munnar"}}))
	assert.Equal(t, "SXR", code(map[string]any{"packageName": "Mystery Tour", "destination": []any{
		map[string]any{"destinationId": "dest-missing-1"},
		map[string]any{"destinationName": "kashmir"},
	}}))
	// The embedded name wins over the title guess.
	assert.Equal(t, "GOX", code(map[string]any{"packageName": "Srinagar Houseboats", "destination": map[string]any{"name": "Goa"}}))
}

func TestTravelDates(t *testing.T) {
	now := time.Date(2025, 8, 18, 22, 30, 0, 0, time.UTC)

	dep, ret := travelDates("2025-09-01", now)
	assert.Equal(t, "2025-09-01", dep.Format(dateLayout))
	assert.Equal(t, "2025-09-08", ret.Format(dateLayout))

	for _, in := range []string{"", "01/09/2025", "tomorrow"} {
		dep, ret = travelDates(in, now)
		assert.Equal(t, "2025-09-01", dep.Format(dateLayout), in)
		assert.Equal(t, "2025-09-08", ret.Format(dateLayout), in)
	}
}

// ---- internal fakes ----

type stubInventory struct {
	destinations     map[string]map[string]any
	destinationCalls int
}

func (s *stubInventory) GetPackage(context.Context, string) (map[string]any, error) {
	return nil, domain.ErrNotFound
}
func (s *stubInventory) ListPackages(context.Context, string) ([]map[string]any, error) {
	return nil, nil
}
func (s *stubInventory) GetDestination(_ context.Context, id string) (map[string]any, error) {
	s.destinationCalls++
	d, ok := s.destinations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}
func (s *stubInventory) GetPackageHotels(context.Context, string) ([]map[string]any, error) {
	return nil, nil
}
func (s *stubInventory) ListAllHotels(context.Context) ([]map[string]any, error) {
	return nil, nil
}

type mapCache map[string]domain.Destination

func (c mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	d, ok := c[key]
	if !ok {
		return false, nil
	}
	*(dst.(*domain.Destination)) = d
	return true, nil
}
func (c mapCache) Set(_ context.Context, key string, v any, _ int) error {
	c[key] = v.(domain.Destination)
	return nil
}
func (c mapCache) Del(_ context.Context, key string) error {
	delete(c, key)
	return nil
}
