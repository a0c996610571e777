// Package amadeus is the flight-offer provider client.
package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tripbook/internal/adapters/upstream"
	"tripbook/internal/domain"
)

const service = "amadeus"

type Client struct {
	base      string
	maxOffers int
	http      *upstream.Client
	tokens    *upstream.TokenCache
}

func New(base, clientID, clientSecret string, maxOffers int) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%s: client id and secret are required: %w", service, domain.ErrNotConfigured)
	}
	if maxOffers <= 0 {
		maxOffers = 5
	}
	c := &Client{
		base:      strings.TrimRight(base, "/"),
		maxOffers: maxOffers,
		http:      upstream.New(service, 5, 30*time.Second),
	}
	c.tokens = upstream.NewTokenCache(service, func(ctx context.Context) (string, time.Duration, error) {
		return c.fetchToken(ctx, clientID, clientSecret)
	})
	return c, nil
}

type flightOffersResponse struct {
	Data []flightOffer `json:"data"`
}

type flightOffer struct {
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	Itineraries []struct {
		Segments []struct {
			Departure struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"departure"`
			Arrival struct {
				IataCode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"arrival"`
			CarrierCode string `json:"carrierCode"`
		} `json:"segments"`
	} `json:"itineraries"`
}

// SearchFlightOffers returns one-adult offers for origin→destination on date,
// in the order the provider sent them.
func (c *Client) SearchFlightOffers(ctx context.Context, origin, destination string, date time.Time) ([]domain.FlightOffer, error) {
	q := url.Values{
		"originLocationCode":      {origin},
		"destinationLocationCode": {destination},
		"departureDate":           {date.Format("2006-01-02")},
		"adults":                  {"1"},
		"max":                     {strconv.Itoa(c.maxOffers)},
	}
	var resp flightOffersResponse
	if err := c.authorized(ctx, "flight_offers", "/v2/shopping/flight-offers?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	out := make([]domain.FlightOffer, 0, len(resp.Data))
	for _, o := range resp.Data {
		fo := domain.FlightOffer{
			Origin:      origin,
			Destination: destination,
			Currency:    o.Price.Currency,
		}
		if p, err := strconv.ParseFloat(strings.TrimSpace(o.Price.Total), 64); err == nil {
			fo.Price, fo.PriceOK = p, true
		}
		if len(o.Itineraries) > 0 && len(o.Itineraries[0].Segments) > 0 {
			segs := o.Itineraries[0].Segments
			fo.Carrier = segs[0].CarrierCode
			fo.DepartureAt = segs[0].Departure.At
			fo.ArrivalAt = segs[len(segs)-1].Arrival.At
		}
		out = append(out, fo)
	}
	return out, nil
}

func (c *Client) fetchToken(ctx context.Context, clientID, clientSecret string) (string, time.Duration, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
	}.Encode()
	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	err := c.http.Do(ctx, "token", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/security/oauth2/token", strings.NewReader(form))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, &out)
	if err != nil {
		return "", 0, fmt.Errorf("%s token: %w", service, err)
	}
	return out.AccessToken, time.Duration(out.ExpiresIn) * time.Second, nil
}

func (c *Client) authorized(ctx context.Context, endpoint, path string, out any) error {
	for attempt := 0; ; attempt++ {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		err = c.http.Do(ctx, endpoint, func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+tok)
			return req, nil
		}, out)
		if errors.Is(err, domain.ErrUnauthorized) && attempt == 0 {
			c.tokens.Invalidate()
			continue
		}
		return err
	}
}

// compile-time check
var _ domain.FlightClient = (*Client)(nil)
