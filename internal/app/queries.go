package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"tripbook/internal/domain"
)

// PackageListing is the cached, compact form of a provider package.
type PackageListing struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Destinations []string `json:"destinations"`
}

type PlanView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PackageRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type QueryService struct {
	inv      domain.InventoryClient
	cache    domain.Cache
	repo     domain.BookingRepository
	cacheTTL time.Duration
}

type QueryOption func(*QueryService)

// WithBookingRepository enables ListBookings.
func WithBookingRepository(r domain.BookingRepository) QueryOption {
	return func(s *QueryService) { s.repo = r }
}

func NewQueryService(inv domain.InventoryClient, c domain.Cache, ttl time.Duration, opts ...QueryOption) *QueryService {
	s := &QueryService{inv: inv, cache: c, cacheTTL: ttl}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Listings returns the provider's packages matching search, read-through cached.
func (s *QueryService) Listings(ctx context.Context, search string) ([]PackageListing, error) {
	key := fmt.Sprintf("packages:%s", strings.ToLower(strings.TrimSpace(search)))
	var out []PackageListing
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	raw, err := s.inv.ListPackages(ctx, search)
	if err != nil {
		return nil, err
	}
	out = make([]PackageListing, 0, len(raw))
	for _, r := range raw {
		p := mapPackage(r, "")
		out = append(out, PackageListing{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Destinations: splitDestinationNames(p.DestinationName),
		})
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *QueryService) ListPlans(ctx context.Context, search string) ([]PlanView, error) {
	ls, err := s.Listings(ctx, search)
	if err != nil {
		return nil, err
	}
	out := make([]PlanView, 0, len(ls))
	for _, l := range ls {
		out = append(out, PlanView{ID: l.ID, Name: l.Name, Description: l.Description})
	}
	return out, nil
}

// Destinations lists every destination name mentioned by any package, sorted.
func (s *QueryService) Destinations(ctx context.Context) ([]string, error) {
	ls, err := s.Listings(ctx, "")
	if err != nil {
		return nil, err
	}
	set := map[string]struct{}{}
	for _, l := range ls {
		for _, d := range l.Destinations {
			set[d] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

// PackagesByDestination returns packages whose destination names include
// destination exactly.
func (s *QueryService) PackagesByDestination(ctx context.Context, destination string) ([]PackageRef, error) {
	destination = strings.TrimSpace(destination)
	ls, err := s.Listings(ctx, "")
	if err != nil {
		return nil, err
	}
	out := []PackageRef{}
	for _, l := range ls {
		for _, d := range l.Destinations {
			if d == destination {
				out = append(out, PackageRef{ID: l.ID, Name: l.Name})
				break
			}
		}
	}
	return out, nil
}

// ListBookings reads the ledger, newest first.
func (s *QueryService) ListBookings(ctx context.Context, customer string, limit int) ([]domain.Booking, error) {
	if s.repo == nil {
		return nil, domain.ErrNotConfigured
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListBookings(ctx, strings.TrimSpace(customer), limit)
}

func splitDestinationNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
