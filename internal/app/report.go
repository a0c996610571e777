package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"tripbook/internal/domain"
)

const dateLayout = "2006-01-02"

const (
	msgNoFlights     = "No flights found."
	msgNoFlightCreds = "No flight API credentials configured."
	msgNoHotels      = "No hotels found."
)

func packageNotFound(id string) string {
	return fmt.Sprintf("Package with ID '%s' not found.", id)
}

func destinationNotFound(pkg domain.Package) string {
	return fmt.Sprintf("Destination code not found or invalid in package. Package: %s. Raw destination data: %s",
		pkg.Name, describeDestination(pkg.Destination))
}

/********** flights **********/

// sortFlights orders offers by price ascending; unpriced offers go last.
func sortFlights(offers []domain.FlightOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if a.PriceOK != b.PriceOK {
			return a.PriceOK
		}
		return a.PriceOK && a.Price < b.Price
	})
}

func renderFlights(offers []domain.FlightOffer) string {
	var b strings.Builder
	b.WriteString("| From | To | Departure | Arrival | Carrier | Price |\n")
	b.WriteString("|------|----|-----------|---------|---------|-------|")
	for _, o := range offers {
		price := ConvertToDisplayCurrency(nil)
		if o.PriceOK {
			price = ConvertToDisplayCurrency(o.Price)
		}
		fmt.Fprintf(&b, "\n| %s | %s | %s | %s | %s | %s |",
			cell(o.Origin), cell(o.Destination), cell(o.DepartureAt), cell(o.ArrivalAt), cell(o.Carrier), price)
	}
	return b.String()
}

/********** hotels **********/

type hotelRow struct {
	Hotel    string
	RoomType string
	MealPlan string
	Season   string
	Nights   string
	Prices   domain.PriceSet
}

func (r hotelRow) render() string {
	return fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |",
		cell(r.Hotel), cell(r.RoomType), cell(r.MealPlan), cell(r.Season), cell(r.Nights),
		FormatPrice(r.Prices.Room), FormatPrice(r.Prices.Adult), FormatPrice(r.Prices.Child))
}

// catalogRows flattens hotel → room → meal plan. Meal plan prices come
// first; missing fields go through chain like any other offer.
func catalogRows(ctx context.Context, hotels []domain.HotelRecord, chain PriceChain) []hotelRow {
	var out []hotelRow
	for _, h := range hotels {
		for _, r := range h.Rooms {
			for _, mp := range r.MealPlans {
				nested := mp.Prices
				out = append(out, hotelRow{
					Hotel:    h.Name,
					RoomType: r.RoomType,
					MealPlan: mp.Plan,
					Season:   mp.Season,
					Prices: chain.Resolve(ctx, PriceRecord{
						HotelID:   h.ID,
						HotelName: h.Name,
						Nested:    &nested,
					}),
				})
			}
		}
	}
	return out
}

// offerRows resolves names and prices for package or live offers.
func offerRows(ctx context.Context, offers []HotelOffer, idx hotelNameIndex, dir *HotelDirectory, chain PriceChain) []hotelRow {
	out := make([]hotelRow, 0, len(offers))
	for _, o := range offers {
		name := idx.resolve(o)
		if name == "" && o.HotelID != "" {
			name = dir.HotelName(ctx, o.HotelID)
		}
		prices := chain.Resolve(ctx, PriceRecord{
			HotelID:   o.HotelID,
			HotelName: name,
			Nested:    o.Nested,
			TopLevel:  o.TopLevel,
		})
		if name == "" {
			name = "Unknown hotel"
		}
		out = append(out, hotelRow{
			Hotel:    name,
			RoomType: o.RoomType,
			MealPlan: o.MealPlan,
			Nights:   o.Nights,
			Prices:   prices,
		})
	}
	return out
}

// sortAndDedupe orders rows by room price ascending, rows without a room
// price last, keeping input order among equals, then drops repeated rows.
func sortAndDedupe(rows []hotelRow) []hotelRow {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Prices.Room, rows[j].Prices.Room
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a < *b
	})
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, r := range rows {
		key := r.render()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func renderHotels(rows []hotelRow) string {
	var b strings.Builder
	b.WriteString("| Hotel Name | Room Type | Meal Plan | Season | Nights | Room Price | Adult Price | Child Price |\n")
	b.WriteString("|------------|-----------|-----------|--------|--------|------------|-------------|-------------|")
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(r.render())
	}
	return b.String()
}

func cell(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "|", "/"))
	if s == "" {
		return "-"
	}
	return s
}

/********** report **********/

type reportParts struct {
	PackageName string
	Customer    string
	Departure   time.Time
	Return      time.Time
	OriginLabel string
	Destination string
	Flights     string
	Hotels      string
	Reference   string
}

func renderReport(p reportParts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Package: %s\n", p.PackageName)
	if p.Customer != "" {
		fmt.Fprintf(&b, "Customer: %s\n", p.Customer)
	}
	fmt.Fprintf(&b, "Travel Dates: %s to %s\n", p.Departure.Format(dateLayout), p.Return.Format(dateLayout))
	b.WriteString("Status: ✅ Complete\n\n")
	fmt.Fprintf(&b, "✈️ Flight Details (%s to %s)\n", p.OriginLabel, p.Destination)
	b.WriteString(p.Flights)
	b.WriteString("\n\n🏨 Hotel Details\n")
	b.WriteString(p.Hotels)
	fmt.Fprintf(&b, "\n\nBooking Reference: %s", p.Reference)
	return b.String()
}
