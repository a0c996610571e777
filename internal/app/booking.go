package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tripbook/internal/adapters/observability"
	"tripbook/internal/domain"
)

const (
	defaultLeadDays = 14
	tripNights      = 7
)

type BookingConfig struct {
	OriginHub   string // departure airport, e.g. MAA
	OriginLabel string // shown in the flight section heading
}

// BookingDeps are the collaborators of BookingService. Flights and Repo may
// be nil: flights then degrade to a message and nothing is persisted.
type BookingDeps struct {
	Inventory    domain.InventoryClient
	Flights      domain.FlightClient
	Destinations *DestinationResolver
	Hotels       *HotelMatcher
	Directory    *HotelDirectory
	Repo         domain.BookingRepository
}

type BookingService struct {
	inv       domain.InventoryClient
	flights   domain.FlightClient
	dest      *DestinationResolver
	hotels    *HotelMatcher
	directory *HotelDirectory
	prices    PriceChain
	repo      domain.BookingRepository
	cfg       BookingConfig

	now    func() time.Time
	newRef func() uuid.UUID
}

func NewBookingService(d BookingDeps, cfg BookingConfig) *BookingService {
	if cfg.OriginHub == "" {
		cfg.OriginHub = "MAA"
	}
	if cfg.OriginLabel == "" {
		cfg.OriginLabel = "Chennai"
	}
	return &BookingService{
		inv:       d.Inventory,
		flights:   d.Flights,
		dest:      d.Destinations,
		hotels:    d.Hotels,
		directory: d.Directory,
		prices:    DefaultPriceChain(d.Directory),
		repo:      d.Repo,
		cfg:       cfg,
		now:       time.Now,
		newRef:    uuid.New,
	}
}

type BookingRequest struct {
	PackageID string
	Customer  string
	Date      string // YYYY-MM-DD, optional
}

// BookTravel returns the human-readable booking report for a package.
func (s *BookingService) BookTravel(ctx context.Context, packageID, customer, date string) string {
	return s.Book(ctx, BookingRequest{PackageID: packageID, Customer: customer, Date: date}).Report
}

// Book runs the whole booking flow and returns the ledger entry, report
// included. It never fails: every problem ends up in the report text.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (b domain.Booking) {
	now := s.now()
	dep, ret := travelDates(req.Date, now)
	b = domain.Booking{
		Reference: s.newRef(),
		PackageID: strings.TrimSpace(req.PackageID),
		Customer:  strings.TrimSpace(req.Customer),
		Departure: dep,
		Return:    ret,
		CreatedAt: now.UTC(),
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("package_id", b.PackageID).Msg("booking panicked")
			b.Outcome = domain.OutcomeFailed
			b.Report = fmt.Sprintf("Package: %s\nStatus: ❌ Booking failed: internal error", orDash(b.PackageName))
		}
		s.finish(ctx, &b)
	}()

	raw, err := s.inv.GetPackage(ctx, b.PackageID)
	if err != nil || raw == nil {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("package_id", b.PackageID).Msg("package lookup failed")
		}
		b.Outcome = domain.OutcomePackageNotFound
		b.Report = packageNotFound(b.PackageID)
		return b
	}
	pkg := mapPackage(raw, b.PackageID)
	b.PackageName = pkg.Name

	code := s.dest.ResolveDestinationCode(ctx, pkg)
	if code == "" {
		b.Outcome = domain.OutcomeDestinationNotFound
		b.Report = destinationNotFound(pkg)
		return b
	}
	b.DestinationCode = code
	destID := ExtractDestinationID(pkg)

	var (
		flightText string
		hotelText  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		flightText, b.FlightOffers = s.flightSection(gctx, code, dep)
		return nil
	})
	g.Go(func() error {
		hotelText, b.HotelRows = s.hotelSection(gctx, pkg, destID)
		return nil
	})
	_ = g.Wait()

	b.Outcome = domain.OutcomeComplete
	b.Report = renderReport(reportParts{
		PackageName: pkg.Name,
		Customer:    b.Customer,
		Departure:   dep,
		Return:      ret,
		OriginLabel: s.cfg.OriginLabel,
		Destination: code,
		Flights:     flightText,
		Hotels:      hotelText,
		Reference:   b.Reference.String(),
	})
	return b
}

// flightSection never fails; problems become the section text.
func (s *BookingService) flightSection(ctx context.Context, dest string, dep time.Time) (text string, n int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("flight branch panicked")
			text, n = fmt.Sprintf("Flight search error: %v", r), 0
			observability.ObserveBranch("flight", "error")
		}
	}()
	if s.flights == nil {
		observability.ObserveBranch("flight", "unconfigured")
		return msgNoFlightCreds, 0
	}
	offers, err := s.flights.SearchFlightOffers(ctx, s.cfg.OriginHub, dest, dep)
	if err != nil {
		log.Warn().Err(err).Str("destination", dest).Msg("flight search failed")
		observability.ObserveBranch("flight", "error")
		return "Flight search error: " + err.Error(), 0
	}
	if len(offers) == 0 {
		observability.ObserveBranch("flight", "empty")
		return msgNoFlights, 0
	}
	sortFlights(offers)
	observability.ObserveBranch("flight", "ok")
	return renderFlights(offers), len(offers)
}

// hotelSection never fails; problems become the section text.
func (s *BookingService) hotelSection(ctx context.Context, pkg domain.Package, destID string) (text string, n int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("hotel branch panicked")
			text, n = fmt.Sprintf("Hotel search error: %v", r), 0
			observability.ObserveBranch("hotel", "error")
		}
	}()
	opts := s.hotels.HotelOffers(ctx, pkg, destID)
	if opts.Err != nil {
		log.Warn().Err(opts.Err).Str("package_id", pkg.ID).Msg("live hotel fetch failed")
		observability.ObserveBranch("hotel", "error")
		return "Hotel search error: " + opts.Err.Error(), 0
	}

	var rows []hotelRow
	switch opts.Source {
	case SourceCatalog:
		rows = catalogRows(ctx, opts.Catalog, s.prices)
	case SourcePackage, SourceLive:
		rows = offerRows(ctx, opts.Offers, buildHotelNameIndex(pkg), s.directory, s.prices)
	}
	rows = sortAndDedupe(rows)
	if len(rows) == 0 {
		observability.ObserveBranch("hotel", "empty")
		return msgNoHotels, 0
	}
	observability.ObserveBranch("hotel", string(opts.Source))
	return renderHotels(rows), len(rows)
}

// finish records metrics and writes the ledger entry; failures are logged only.
func (s *BookingService) finish(ctx context.Context, b *domain.Booking) {
	observability.ObserveBooking(string(b.Outcome))
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveBooking(ctx, *b); err != nil {
		log.Warn().Err(err).Str("reference", b.Reference.String()).Msg("booking not persisted")
	}
	var stage, reason string
	switch b.Outcome {
	case domain.OutcomePackageNotFound:
		stage, reason = "package", "package not found"
	case domain.OutcomeDestinationNotFound:
		stage, reason = "destination", "no airport code for destination"
	default:
		return
	}
	if err := s.repo.LogMiss(ctx, b.PackageID, stage, reason); err != nil {
		log.Warn().Err(err).Str("package_id", b.PackageID).Msg("lookup miss not logged")
	}
}

// travelDates parses date as YYYY-MM-DD, defaulting to two weeks from now.
// The return date is always a week after departure.
func travelDates(date string, now time.Time) (time.Time, time.Time) {
	dep, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		y, m, d := now.AddDate(0, 0, defaultLeadDays).Date()
		dep = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return dep, dep.AddDate(0, 0, tripNights)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
