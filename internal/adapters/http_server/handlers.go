package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tripbook/internal/app"
	"tripbook/internal/domain"
)

type Handlers struct {
	Book   *app.BookingService
	Hotels *app.HotelMatcher
	Q      *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/bookings", h.createBooking)
		r.Get("/bookings", h.listBookings)

		r.Get("/plans", h.listPlans)
		r.Get("/destinations", h.listDestinations)
		r.Get("/packages", h.listPackages)

		r.Get("/hotels/destinations", h.hotelDestinations)
		r.Get("/hotels/destination/{id}", h.hotelsByDestination)
		r.Get("/hotels/destination/{id}/filter", h.filteredHotels)
		r.Get("/hotels/search", h.searchHotels)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeUpstreamProblem maps errors from the inventory provider and the ledger.
func writeUpstreamProblem(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrNotConfigured):
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
	default:
		log.Warn().Err(err).Msg("upstream failure")
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "upstream provider failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers GETs with a weak ETag and honours If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if etag == "" {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// ---- bookings ----

type bookingRequest struct {
	PackageID string `json:"package_id"`
	Customer  string `json:"customer"`
	Date      string `json:"date"`
}

type bookingView struct {
	Reference       string `json:"reference"`
	Status          string `json:"status"`
	PackageID       string `json:"package_id"`
	PackageName     string `json:"package_name,omitempty"`
	Customer        string `json:"customer,omitempty"`
	DestinationCode string `json:"destination_code,omitempty"`
	Departure       string `json:"departure_date"`
	Return          string `json:"return_date"`
	FlightOffers    int    `json:"flight_offers"`
	HotelRows       int    `json:"hotel_rows"`
	Report          string `json:"report"`
	CreatedAt       string `json:"created_at"`
}

func toBookingView(b domain.Booking) bookingView {
	return bookingView{
		Reference:       b.Reference.String(),
		Status:          string(b.Outcome),
		PackageID:       b.PackageID,
		PackageName:     b.PackageName,
		Customer:        b.Customer,
		DestinationCode: b.DestinationCode,
		Departure:       b.Departure.Format("2006-01-02"),
		Return:          b.Return.Format("2006-01-02"),
		FlightOffers:    b.FlightOffers,
		HotelRows:       b.HotelRows,
		Report:          b.Report,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON with package_id, customer and optional date")
		return
	}
	if strings.TrimSpace(req.PackageID) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "package_id is required")
		return
	}
	b := h.Book.Book(r.Context(), app.BookingRequest{PackageID: req.PackageID, Customer: req.Customer, Date: req.Date})

	status := http.StatusCreated
	if b.Outcome != domain.OutcomeComplete {
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(toBookingView(b)); err != nil {
		log.Error().Err(err).Msg("failed to write booking body")
	}
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
			return
		}
		limit = l
	}
	bs, err := h.Q.ListBookings(r.Context(), r.URL.Query().Get("customer"), limit)
	if err != nil {
		writeUpstreamProblem(w, err)
		return
	}
	out := make([]bookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingView(b))
	}
	writeJSON(w, r, map[string]any{"bookings": out})
}

// ---- packages ----

func (h *Handlers) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Q.ListPlans(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeUpstreamProblem(w, err)
		return
	}
	writeJSON(w, r, map[string]any{"plans": plans})
}

func (h *Handlers) listDestinations(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Q.Destinations(r.Context())
	if err != nil {
		writeUpstreamProblem(w, err)
		return
	}
	writeJSON(w, r, map[string]any{"destinations": ds})
}

func (h *Handlers) listPackages(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Q.PackagesByDestination(r.Context(), r.URL.Query().Get("destination"))
	if err != nil {
		writeUpstreamProblem(w, err)
		return
	}
	writeJSON(w, r, map[string]any{"packages": ps})
}

// ---- hotel catalog ----

func (h *Handlers) hotelDestinations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{"destinations": h.Hotels.AvailableDestinations(r.Context())})
}

func (h *Handlers) hotelsByDestination(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hotels := h.Hotels.HotelsByDestination(r.Context(), id)
	if hotels == nil {
		hotels = []domain.HotelRecord{}
	}
	writeJSON(w, r, map[string]any{
		"destination_id": id,
		"summary":        h.Hotels.HotelSummaryByDestination(r.Context(), id),
		"hotels":         hotels,
	})
}

func (h *Handlers) filteredHotels(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()
	f := domain.HotelFilter{
		PackageType: q.Get("package_type"),
		RoomType:    q.Get("room_type"),
		SeasonType:  q.Get("season_type"),
	}
	hotels := h.Hotels.HotelsByDestinationAndPackage(r.Context(), id, f)
	if hotels == nil {
		hotels = []domain.HotelRecord{}
	}
	writeJSON(w, r, map[string]any{
		"destination_id": id,
		"filters": map[string]string{
			"package_type": f.PackageType,
			"room_type":    f.RoomType,
			"season_type":  f.SeasonType,
		},
		"hotels": hotels,
	})
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("hotel_name"))
	if name == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "hotel_name is required")
		return
	}
	destID := q.Get("destination_id")
	hotels := h.Hotels.SearchHotelsByName(r.Context(), name, destID)
	if hotels == nil {
		hotels = []domain.HotelRecord{}
	}
	writeJSON(w, r, map[string]any{
		"search_term":    name,
		"destination_id": destID,
		"hotels":         hotels,
	})
}
