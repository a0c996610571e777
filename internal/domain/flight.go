package domain

// FlightOffer is a single priced itinerary in the provider's currency.
// PriceOK is false when the provider's total could not be parsed.
type FlightOffer struct {
	Origin      string
	Destination string
	DepartureAt string
	ArrivalAt   string
	Carrier     string
	Currency    string
	Price       float64
	PriceOK     bool
}
