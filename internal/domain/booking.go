package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingOutcome string

const (
	OutcomeComplete            BookingOutcome = "complete"
	OutcomePackageNotFound     BookingOutcome = "package_not_found"
	OutcomeDestinationNotFound BookingOutcome = "destination_not_found"
	OutcomeFailed              BookingOutcome = "failed"
)

// Booking is the ledger entry written for every BookTravel call.
type Booking struct {
	Reference       uuid.UUID
	PackageID       string
	PackageName     string
	Customer        string
	DestinationCode string
	Departure       time.Time
	Return          time.Time
	FlightOffers    int
	HotelRows       int
	Outcome         BookingOutcome
	Report          string
	CreatedAt       time.Time
}
