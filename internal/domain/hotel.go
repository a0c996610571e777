package domain

type PriceSet struct {
	Room  *float64 `json:"room_price"`
	Adult *float64 `json:"adult_price"`
	Child *float64 `json:"child_price"`
}

// Complete reports whether every price field is present.
func (p PriceSet) Complete() bool {
	return p.Room != nil && p.Adult != nil && p.Child != nil
}

type MealPlanRecord struct {
	Plan       string   `json:"meal_plan"`   // e.g. cp, map, ap
	Season     string   `json:"season_type"` // e.g. peakSeason, offSeason
	Prices     PriceSet `json:"prices"`
	StartDates []string `json:"start_dates,omitempty"`
	EndDates   []string `json:"end_dates,omitempty"`
}

type RoomRecord struct {
	RoomType     string           `json:"room_type"`
	MaxAdult     *int             `json:"max_adult,omitempty"`
	MaxChild     *int             `json:"max_child,omitempty"`
	MaxInf       *int             `json:"max_inf,omitempty"`
	RoomCapacity *int             `json:"room_capacity,omitempty"`
	IsAC         *bool            `json:"is_ac,omitempty"`
	MealPlans    []MealPlanRecord `json:"meal_plans"`
}

type HotelRecord struct {
	ID            string       `json:"hotel_id"`
	Name          string       `json:"hotel_name"`
	Review        string       `json:"review,omitempty"`
	ViewPoint     string       `json:"view_point,omitempty"`
	DestinationID string       `json:"destination_id"`
	Location      RawRecord    `json:"location,omitempty"`
	Rooms         []RoomRecord `json:"rooms"`
}

// CatalogRow is one line of the bulk hotel catalog with its nested
// columns already decoded. ParseErr is set when a nested column was malformed.
type CatalogRow struct {
	HotelID     string
	HotelName   string
	Review      string
	ViewPoint   string
	Location    RawRecord
	RoomDetails []any
	ParseErr    error
}

type HotelFilter struct {
	PackageType string
	RoomType    string
	SeasonType  string
}

type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

type HotelBrief struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Review string `json:"review"`
}

type HotelSummary struct {
	DestinationID      string       `json:"destination_id"`
	TotalHotels        int          `json:"total_hotels"`
	PriceRange         PriceRange   `json:"price_range"`
	AvailablePackages  []string     `json:"available_packages"`
	AvailableRoomTypes []string     `json:"available_room_types"`
	Hotels             []HotelBrief `json:"hotels"`
}
