package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tripbook/internal/domain"
)

/********** alias registries (single source of truth) **********/

var packageAliases = map[string][]string{
	"id":               {"_id", "id", "packageId"},
	"name":             {"packageName", "name", "title"},
	"description":      {"description", "packageDescription"},
	"destination_name": {"destinationName", "destination_name"},
}

// Fields that may hold the package destination, in precedence order.
var packageDestinationKeys = []string{"destination", "to", "city_code", "cityCode"}

// Fields that may hold hotel offers embedded in a package, in precedence order.
var packageHotelKeys = []string{"hotel", "hotels", "hotelOptions", "availableHotels"}

// Fields scanned when building the package's hotel-id → name index.
var packageHotelIndexKeys = []string{"hotels", "hotelList", "hotel", "hotelOptions", "availableHotels"}

var destinationAliases = map[string][]string{
	"id":   {"destinationId", "_id", "id"},
	"name": {"destinationName", "name"},
	"city": {"city", "cityName"},
}

var offerAliases = map[string][]string{
	"hotel_id":  {"hotelId", "hotel_id", "hotel._id"},
	"name":      {"name", "hotel", "hotelName", "hotel.name"},
	"record_id": {"_id"},
	"meal_plan": {"mealPlan", "meal_plan"},
	"room_type": {"hotelRoomType", "roomType"},
	"nights":    {"noOfNight", "nights", "noOfNights"},
}

// Name lookups for directory and package hotel lists, and destination records.
var hotelNameAliases = map[string][]string{
	"name":        {"hotelName", "name"},
	"id":          {"hotelId", "_id"},
	"destination": {"name", "destinationName"},
}

var priceAliases = map[string][]string{
	"room":  {"price", "roomPrice"},
	"adult": {"adultPrice"},
	"child": {"childPrice"},
}

var roomAliases = map[string][]string{
	"type":      {"hotelRoomType", "roomType"},
	"max_adult": {"maxAdult"},
	"max_child": {"maxChild"},
	"max_inf":   {"maxInf"},
	"capacity":  {"roomCapacity"},
	"is_ac":     {"isAc", "isAC"},
	"meal_plan": {"mealPlan", "mealPlans"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the value at path as a string, or "".
// Numbers are rendered without exponent so numeric ids survive.
func lookupStr(m map[string]any, path string) string {
	return anyString(lookupAny(m, path))
}

func anyString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstList returns the first non-empty list found under keys.
func firstList(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if l, ok := lookupAny(m, k).([]any); ok && len(l) > 0 {
			return l
		}
	}
	return nil
}

// records keeps the mapping elements of a list, dropping anything else.
func records(l []any) []map[string]any {
	out := make([]map[string]any, 0, len(l))
	for _, it := range l {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// parsePrice accepts numbers and numeric strings ("4,500", "₹4500", "4500 INR").
// Zero, negative and non-numeric values count as absent: the catalog uses 0 as
// "not priced", so a literal 0 renders as a missing price, never as a free room.
func parsePrice(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return nil
		}
		f = x
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "₹")
		s = strings.TrimSuffix(s, "INR")
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
		if s == "" {
			return nil
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = x
	default:
		return nil
	}
	if f <= 0 {
		return nil
	}
	return &f
}

func firstPrice(m map[string]any, paths ...string) *float64 {
	for _, p := range paths {
		if f := parsePrice(lookupAny(m, p)); f != nil {
			return f
		}
	}
	return nil
}

func pricesOf(m map[string]any) domain.PriceSet {
	return domain.PriceSet{
		Room:  firstPrice(m, priceAliases["room"]...),
		Adult: firstPrice(m, priceAliases["adult"]...),
		Child: firstPrice(m, priceAliases["child"]...),
	}
}

// firstIntFlexible: int from several paths (float64/int/string).
func firstIntFlexible(m map[string]any, paths ...string) *int {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int(v)
			return &x
		case int:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				x := int(f)
				return &x
			}
		}
	}
	return nil
}

func firstBoolFlexible(m map[string]any, paths ...string) *bool {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case bool:
			b := v
			return &b
		case float64:
			b := v != 0
			return &b
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return &b
			}
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "yes", "y":
				b := true
				return &b
			case "no", "n":
				b := false
				return &b
			}
		}
	}
	return nil
}

// stringList accepts a list of scalars or a single scalar.
func stringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s := anyString(it); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := anyString(t); s != "" {
			return []string{s}
		}
		return nil
	}
}

/********** package mapper **********/

func mapPackage(raw map[string]any, fallbackID string) domain.Package {
	p := domain.Package{
		ID:          firstNonEmptyAlias(raw, packageAliases, "id"),
		Name:        firstNonEmptyAlias(raw, packageAliases, "name"),
		Description: firstNonEmptyAlias(raw, packageAliases, "description"),
		Raw:         raw,
	}
	if p.ID == "" {
		p.ID = fallbackID
	}
	if p.Name == "" {
		p.Name = p.ID
	}

	// destinationName is usually "A, B" but some payloads send a list.
	for _, k := range packageAliases["destination_name"] {
		if names := stringList(lookupAny(raw, k)); len(names) > 0 {
			p.DestinationName = strings.Join(names, ", ")
			break
		}
	}

	for _, k := range packageDestinationKeys {
		if ref := mapDestinationRef(raw[k]); ref.Kind != domain.DestinationNone {
			p.Destination = ref
			break
		}
	}

	p.Hotels = records(firstList(raw, packageHotelKeys...))
	return p
}

// mapDestinationRef is the single place where the destination field's
// upstream shape is inspected.
func mapDestinationRef(v any) domain.DestinationRef {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return domain.DestinationRef{}
		}
		ref := domain.DestinationRef{Kind: domain.DestinationList, Items: make([]domain.DestinationRef, 0, len(t))}
		for _, it := range t {
			if _, nested := it.([]any); nested {
				ref.Items = append(ref.Items, domain.DestinationRef{})
				continue
			}
			ref.Items = append(ref.Items, mapDestinationRef(it))
		}
		return ref
	case map[string]any:
		return domain.DestinationRef{
			Kind: domain.DestinationObject,
			ID:   firstNonEmptyAlias(t, destinationAliases, "id"),
			Name: firstNonEmptyAlias(t, destinationAliases, "name"),
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return domain.DestinationRef{}
		}
		return domain.DestinationRef{Kind: domain.DestinationCode, Code: s}
	default:
		return domain.DestinationRef{}
	}
}

func describeDestination(ref domain.DestinationRef) string {
	switch ref.Kind {
	case domain.DestinationList:
		parts := make([]string, 0, len(ref.Items))
		for _, it := range ref.Items {
			parts = append(parts, describeDestination(it))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case domain.DestinationObject:
		return fmt.Sprintf("{destinationId: %q, name: %q}", ref.ID, ref.Name)
	case domain.DestinationCode:
		return strconv.Quote(ref.Code)
	default:
		return "none"
	}
}

func mapDestination(id string, raw map[string]any) domain.Destination {
	return domain.Destination{
		ID:   id,
		Name: firstNonEmptyAlias(raw, hotelNameAliases, "destination"),
		City: firstNonEmptyAlias(raw, destinationAliases, "city"),
	}
}

/********** catalog hotel mapper **********/

// mapCatalogHotel builds a HotelRecord from a decoded catalog row. Rooms with
// no meal plans are dropped. Malformed room or meal-plan entries are skipped
// and reported through the returned count.
func mapCatalogHotel(row domain.CatalogRow) (domain.HotelRecord, int) {
	h := domain.HotelRecord{
		ID:            row.HotelID,
		Name:          row.HotelName,
		Review:        row.Review,
		ViewPoint:     row.ViewPoint,
		DestinationID: lookupStr(row.Location, "destinationId"),
		Location:      row.Location,
	}
	skipped := 0
	for _, it := range row.RoomDetails {
		rm, ok := it.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		room := domain.RoomRecord{
			RoomType:     firstNonEmptyAlias(rm, roomAliases, "type"),
			MaxAdult:     firstIntFlexible(rm, roomAliases["max_adult"]...),
			MaxChild:     firstIntFlexible(rm, roomAliases["max_child"]...),
			MaxInf:       firstIntFlexible(rm, roomAliases["max_inf"]...),
			RoomCapacity: firstIntFlexible(rm, roomAliases["capacity"]...),
			IsAC:         firstBoolFlexible(rm, roomAliases["is_ac"]...),
		}
		plans, _ := firstAny(rm, roomAliases["meal_plan"]...).([]any)
		for _, mp := range plans {
			mm, ok := mp.(map[string]any)
			if !ok {
				skipped++
				continue
			}
			room.MealPlans = append(room.MealPlans, domain.MealPlanRecord{
				Plan:   lookupStr(mm, "mealPlan"),
				Season: lookupStr(mm, "seasonType"),
				Prices: domain.PriceSet{
					Room:  parsePrice(mm["roomPrice"]),
					Adult: parsePrice(mm["adultPrice"]),
					Child: parsePrice(mm["childPrice"]),
				},
				StartDates: stringList(mm["startDate"]),
				EndDates:   stringList(mm["endDate"]),
			})
		}
		if len(room.MealPlans) > 0 {
			h.Rooms = append(h.Rooms, room)
		}
	}
	return h, skipped
}

func firstAny(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v := lookupAny(m, k); v != nil {
			return v
		}
	}
	return nil
}

/********** hotel offer mapper (package-embedded / live availability) **********/

// HotelOffer is one priced option from a package or the live availability
// endpoint. Its price fields may live in the first room detail or at top level.
type HotelOffer struct {
	HotelID  string
	Name     string
	RecordID string
	MealPlan string
	RoomType string
	Nights   string
	Nested   *domain.PriceSet
	TopLevel domain.PriceSet
}

func mapOffer(raw map[string]any) HotelOffer {
	o := HotelOffer{
		HotelID:  firstNonEmptyAlias(raw, offerAliases, "hotel_id"),
		Name:     firstNonEmptyAlias(raw, offerAliases, "name"),
		RecordID: firstNonEmptyAlias(raw, offerAliases, "record_id"),
		MealPlan: firstNonEmptyAlias(raw, offerAliases, "meal_plan"),
		RoomType: firstNonEmptyAlias(raw, offerAliases, "room_type"),
		Nights:   firstNonEmptyAlias(raw, offerAliases, "nights"),
		TopLevel: pricesOf(raw),
	}
	if rooms := records(firstList(raw, "hotelRoomDetails")); len(rooms) > 0 {
		first := rooms[0]
		ps := pricesOf(first)
		o.Nested = &ps
		if o.RoomType == "" {
			o.RoomType = firstNonEmptyAlias(first, roomAliases, "type")
		}
	}
	return o
}

// hotelNameIndex resolves names for offers that only carry ids.
type hotelNameIndex struct {
	byHotelID  map[string]string
	byRecordID map[string]string // room and meal-plan _id → hotel name
}

func buildHotelNameIndex(pkg domain.Package) hotelNameIndex {
	idx := hotelNameIndex{byHotelID: map[string]string{}, byRecordID: map[string]string{}}
	for _, key := range packageHotelIndexKeys {
		hotels, ok := pkg.Raw[key].([]any)
		if !ok {
			continue
		}
		for _, h := range records(hotels) {
			name := firstNonEmptyAlias(h, hotelNameAliases, "name")
			if name == "" {
				continue
			}
			if id := firstNonEmptyAlias(h, hotelNameAliases, "id"); id != "" {
				idx.byHotelID[id] = name
			}
			roomList, _ := h["hotelRoomDetails"].([]any)
			for _, room := range records(roomList) {
				if rid := lookupStr(room, "_id"); rid != "" {
					idx.byRecordID[rid] = name
				}
				mealList, _ := room["mealPlan"].([]any)
				for _, meal := range records(mealList) {
					if mid := lookupStr(meal, "_id"); mid != "" {
						idx.byRecordID[mid] = name
					}
				}
			}
		}
	}
	return idx
}

func (i hotelNameIndex) resolve(o HotelOffer) string {
	if o.Name != "" {
		return o.Name
	}
	if o.HotelID != "" {
		if n := i.byHotelID[o.HotelID]; n != "" {
			return n
		}
	}
	if o.RecordID != "" {
		return i.byRecordID[o.RecordID]
	}
	return ""
}
