package app_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"tripbook/internal/catalog"
	"tripbook/internal/domain"
)

// ---- fakes ----

type fakeInventory struct {
	mu           sync.Mutex
	packages     map[string]map[string]any
	destinations map[string]map[string]any
	liveHotels   map[string][]map[string]any
	allHotels    []map[string]any
	liveErr      error
	calls        map[string]int
}

func (f *fakeInventory) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeInventory) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeInventory) GetPackage(ctx context.Context, id string) (map[string]any, error) {
	f.hit("GetPackage")
	p, ok := f.packages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeInventory) ListPackages(ctx context.Context, search string) ([]map[string]any, error) {
	f.hit("ListPackages")
	var out []map[string]any
	for _, p := range f.packages {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeInventory) GetDestination(ctx context.Context, id string) (map[string]any, error) {
	f.hit("GetDestination")
	d, ok := f.destinations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (f *fakeInventory) GetPackageHotels(ctx context.Context, packageID string) ([]map[string]any, error) {
	f.hit("GetPackageHotels")
	if f.liveErr != nil {
		return nil, f.liveErr
	}
	return f.liveHotels[packageID], nil
}

func (f *fakeInventory) ListAllHotels(ctx context.Context) ([]map[string]any, error) {
	f.hit("ListAllHotels")
	return f.allHotels, nil
}

type fakeFlights struct {
	offers []domain.FlightOffer
	err    error
	gotDst string
	gotDay time.Time
}

func (f *fakeFlights) SearchFlightOffers(ctx context.Context, origin, destination string, date time.Time) ([]domain.FlightOffer, error) {
	f.gotDst, f.gotDay = destination, date
	return f.offers, f.err
}

type staticCatalog []domain.CatalogRow

func (s staticCatalog) Rows(ctx context.Context) ([]domain.CatalogRow, error) { return s, nil }

func parseCatalog(t *testing.T, csv string) staticCatalog {
	t.Helper()
	rows, err := catalog.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	return staticCatalog(rows)
}

// fakeCache stores JSON so Get behaves like the redis adapter.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

type fakeRepo struct {
	mu       sync.Mutex
	bookings []domain.Booking
	misses   []string
}

func (r *fakeRepo) SaveBooking(ctx context.Context, b domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, b)
	return nil
}

func (r *fakeRepo) LogMiss(ctx context.Context, packageID, stage, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses = append(r.misses, packageID+":"+stage)
	return nil
}

func (r *fakeRepo) ListBookings(ctx context.Context, customer string, limit int) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.bookings {
		if customer == "" || b.Customer == customer {
			out = append(out, b)
		}
	}
	return out, nil
}

// ---- fixtures ----

const munnarDest = "dest-munnar-01"

const munnarCatalog = "hotelName,hotelId,review,viewPoint,location,hotelRoomDetails\n" +
	`Tea Valley,H1,4.5,Hills,"{'destinationId': 'dest-munnar-01'}","[{'hotelRoomType': 'Deluxe', 'maxAdult': 2, 'isAc': True, 'mealPlan': [{'mealPlan': 'cp', 'roomPrice': 8000, 'adultPrice': 1500, 'seasonType': 'peakSeason'}, {'mealPlan': 'map', 'roomPrice': 9500, 'seasonType': 'offSeason'}]}, {'hotelRoomType': 'Suite', 'mealPlan': []}]"` + "\n" +
	`Mist Inn,H2,4.0,Lake,"{'destinationId': 'dest-munnar-01'}","[{'hotelRoomType': 'Standard', 'mealPlan': [{'mealPlan': 'ap', 'roomPrice': 3000, 'childPrice': 500, 'seasonType': 'peakSeason'}, {'mealPlan': 'cp', 'seasonType': 'peakSeason'}]}]"` + "\n" +
	`Empty Rooms,H3,3.0,,"{'destinationId': 'dest-munnar-01'}","[{'hotelRoomType': 'Standard', 'mealPlan': []}]"` + "\n" +
	`Goa Sands,H4,4.2,Beach,"{'destinationId': 'dest-goa-000001'}","[{'hotelRoomType': 'Deluxe', 'mealPlan': [{'mealPlan': 'cp', 'roomPrice': 6000}]}]"` + "\n" +
	`Broken,H5,,,"{'destinationId': ","[]"` + "\n"
