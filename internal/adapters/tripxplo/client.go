// Package tripxplo is the inventory provider client (packages, destinations, hotels).
package tripxplo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripbook/internal/adapters/upstream"
	"tripbook/internal/domain"
)

const service = "tripxplo"

type Client struct {
	base   string
	http   *upstream.Client
	tokens *upstream.TokenCache
}

func New(base, email, password string, rps int) (*Client, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%s: email and password are required: %w", service, domain.ErrNotConfigured)
	}
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: upstream.New(service, rps, 20*time.Second),
	}
	c.tokens = upstream.NewTokenCache(service, func(ctx context.Context) (string, time.Duration, error) {
		return c.login(ctx, email, password)
	})
	return c, nil
}

// ---- Public API ----

// GetPackage scans the package listing for id; the provider has no by-id endpoint.
func (c *Client) GetPackage(ctx context.Context, id string) (map[string]any, error) {
	docs, err := c.listPackages(ctx, url.Values{"limit": {"1000"}, "offset": {"0"}})
	if err != nil {
		return nil, err
	}
	for _, p := range docs {
		if fmt.Sprint(p["_id"]) == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%s: package %s: %w", service, id, domain.ErrNotFound)
}

func (c *Client) ListPackages(ctx context.Context, search string) ([]map[string]any, error) {
	q := url.Values{"limit": {"100"}, "offset": {"0"}}
	if search != "" {
		q.Set("search", search)
	}
	return c.listPackages(ctx, q)
}

func (c *Client) GetDestination(ctx context.Context, id string) (map[string]any, error) {
	if len(id) < domain.MinDestinationIDLen {
		return nil, fmt.Errorf("%s: destination id %q: %w", service, id, domain.ErrNotFound)
	}
	var out struct {
		Result map[string]any `json:"result"`
	}
	if err := c.authorized(ctx, "destination", "/admin/destination/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *Client) GetPackageHotels(ctx context.Context, packageID string) ([]map[string]any, error) {
	var out struct {
		Result []map[string]any `json:"result"`
	}
	path := "/admin/package/" + url.PathEscape(packageID) + "/available/get"
	if err := c.authorized(ctx, "package_hotels", path, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *Client) ListAllHotels(ctx context.Context) ([]map[string]any, error) {
	var out struct {
		Result []map[string]any `json:"result"`
	}
	q := url.Values{"limit": {"1000"}, "offset": {"0"}}
	if err := c.authorized(ctx, "hotels", "/admin/hotel?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// ---- Internals ----

func (c *Client) listPackages(ctx context.Context, q url.Values) ([]map[string]any, error) {
	var out struct {
		Result struct {
			Docs []map[string]any `json:"docs"`
		} `json:"result"`
	}
	if err := c.authorized(ctx, "packages", "/admin/package?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Result.Docs, nil
}

func (c *Client) login(ctx context.Context, email, password string) (string, time.Duration, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	err := c.http.Do(ctx, "login", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.base+"/admin/auth/login", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &out)
	if err != nil {
		return "", 0, fmt.Errorf("%s login: %w", service, err)
	}
	// The login response carries no expiry; the token lives until a 401.
	return out.AccessToken, 0, nil
}

// authorized sends a bearer-authenticated GET. A 401 drops the cached
// token and the call is retried once with a fresh one.
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
var _ domain.InventoryClient = (*Client)(nil)
