package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"tripbook/internal/domain"
)

// EURToINR is the fixed display conversion rate for flight prices.
const EURToINR = 99.7

const priceNotAvailable = "price not available"

// PriceRecord is what the normalizer knows about one hotel offer before
// consulting any strategy.
type PriceRecord struct {
	HotelID   string
	HotelName string
	Nested    *domain.PriceSet
	TopLevel  domain.PriceSet
}

// PriceLookup is one source of price fields. It returns whatever subset of
// fields it can find; absent fields stay nil.
type PriceLookup func(ctx context.Context, rec PriceRecord) domain.PriceSet

// PriceChain evaluates lookups in order until every field is filled. A field
// is taken from the first lookup that yields it and never overwritten, and
// later lookups are not called once the set is complete.
type PriceChain []PriceLookup

func (c PriceChain) Resolve(ctx context.Context, rec PriceRecord) domain.PriceSet {
	var out domain.PriceSet
	for _, lookup := range c {
		if out.Complete() {
			break
		}
		out = mergePrices(out, lookup(ctx, rec))
	}
	return out
}

// NestedPrices reads the first room detail of the offer.
func NestedPrices(_ context.Context, rec PriceRecord) domain.PriceSet {
	if rec.Nested == nil {
		return domain.PriceSet{}
	}
	return *rec.Nested
}

// TopLevelPrices reads the offer's own price fields.
func TopLevelPrices(_ context.Context, rec PriceRecord) domain.PriceSet {
	return rec.TopLevel
}

// DefaultPriceChain is nested room detail, then top level, then the
// all-hotels directory.
func DefaultPriceChain(dir *HotelDirectory) PriceChain {
	chain := PriceChain{NestedPrices, TopLevelPrices}
	if dir != nil {
		chain = append(chain, dir.Prices)
	}
	return chain
}

func mergePrices(dst, src domain.PriceSet) domain.PriceSet {
	if dst.Room == nil {
		dst.Room = src.Room
	}
	if dst.Adult == nil {
		dst.Adult = src.Adult
	}
	if dst.Child == nil {
		dst.Child = src.Child
	}
	return dst
}

// FormatPrice renders a hotel price cell.
func FormatPrice(p *float64) string {
	if p == nil {
		return priceNotAvailable
	}
	return "₹" + strconv.FormatFloat(*p, 'f', -1, 64)
}

// ConvertToDisplayCurrency converts a EUR amount to INR for display.
// Anything that is not a number renders as "- INR".
func ConvertToDisplayCurrency(amount any) string {
	var f float64
	switch v := amount.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		x, err := v.Float64()
		if err != nil {
			return "- INR"
		}
		f = x
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return "- INR"
		}
		f = x
	default:
		return "- INR"
	}
	return fmt.Sprintf("%.2f INR", f*EURToINR)
}

// HotelDirectory is a process-wide snapshot of the provider's full hotel
// list, fetched on first use. A failed fetch is not cached.
type HotelDirectory struct {
	inv domain.InventoryClient

	mu     sync.RWMutex
	loaded bool
	byID   map[string]map[string]any
	byName map[string]map[string]any
	sf     singleflight.Group
}

func NewHotelDirectory(inv domain.InventoryClient) *HotelDirectory {
	return &HotelDirectory{inv: inv}
}

func (d *HotelDirectory) ensure(ctx context.Context) bool {
	d.mu.RLock()
	loaded := d.loaded
	d.mu.RUnlock()
	if loaded {
		return true
	}
	_, err, _ := d.sf.Do("all-hotels", func() (any, error) {
		all, err := d.inv.ListAllHotels(ctx)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]map[string]any, len(all))
		byName := make(map[string]map[string]any, len(all))
		for _, h := range all {
			if id := firstNonEmptyAlias(h, offerAliases, "hotel_id"); id != "" {
				if _, dup := byID[id]; !dup {
					byID[id] = h
				}
			}
			if n := firstNonEmptyAlias(h, hotelNameAliases, "name"); n != "" {
				if _, dup := byName[n]; !dup {
					byName[n] = h
				}
			}
		}
		d.mu.Lock()
		d.byID, d.byName, d.loaded = byID, byName, true
		d.mu.Unlock()
		log.Debug().Int("hotels", len(all)).Msg("hotel directory loaded")
		return nil, nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("hotel directory unavailable")
		return false
	}
	return true
}

func (d *HotelDirectory) find(ctx context.Context, id, name string) map[string]any {
	if d == nil || (id == "" && name == "") || !d.ensure(ctx) {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id != "" {
		if h, ok := d.byID[id]; ok {
			return h
		}
	}
	if name != "" {
		return d.byName[name]
	}
	return nil
}

// Prices matches the record by hotel id, else exact name, and returns the
// directory entry's prices.
func (d *HotelDirectory) Prices(ctx context.Context, rec PriceRecord) domain.PriceSet {
	h := d.find(ctx, rec.HotelID, rec.HotelName)
	if h == nil {
		return domain.PriceSet{}
	}
	ps := pricesOf(h)
	if rooms := records(firstList(h, "hotelRoomDetails")); len(rooms) > 0 {
		ps = mergePrices(ps, pricesOf(rooms[0]))
	}
	return ps
}

// HotelName returns the directory's name for a hotel id, or "".
func (d *HotelDirectory) HotelName(ctx context.Context, id string) string {
	h := d.find(ctx, id, "")
	if h == nil {
		return ""
	}
	return firstNonEmptyAlias(h, hotelNameAliases, "name")
}
