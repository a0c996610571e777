package tripxplo_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tripbook/internal/adapters/tripxplo"
	"tripbook/internal/domain"
)

type fakeProvider struct {
	logins     int32
	expireOnce int32 // when 1, the next authorized call answers 401
}

func (f *fakeProvider) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("login method %s", r.Method)
		}
		n := atomic.AddInt32(&f.logins, 1)
		_ = json.NewEncoder(w).Encode(map[string]any{"accessToken": "tok-" + string(rune('0'+n))})
	})
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if atomic.CompareAndSwapInt32(&f.expireOnce, 1, 0) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("/admin/package", auth(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"docs": []any{
			map[string]any{"_id": "pkg-1", "packageName": "Munnar Escape"},
			map[string]any{"_id": "pkg-2", "packageName": "Goa Beach Break"},
		}}})
	}))
	mux.HandleFunc("/admin/destination/dest-0001", auth(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"name": "Munnar"}})
	}))
	mux.HandleFunc("/admin/package/pkg-1/available/get", auth(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"result": []any{map[string]any{"hotelId": "h1"}}})
	}))
	mux.HandleFunc("/admin/hotel", auth(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"result": []any{
			map[string]any{"hotelId": "h1", "name": "Tea Valley", "price": 4200.0},
		}})
	}))
	return mux
}

func newClient(t *testing.T) (*tripxplo.Client, *fakeProvider) {
	t.Helper()
	fp := &fakeProvider{}
	ts := httptest.NewServer(fp.handler(t))
	t.Cleanup(ts.Close)
	cl, err := tripxplo.New(ts.URL, "ops@example.com", "pw", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl, fp
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := tripxplo.New("http://x", "", "", 1)
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestClient_GetPackage_FindsByID(t *testing.T) {
	cl, fp := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	p, err := cl.GetPackage(ctx, "pkg-2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p["packageName"] != "Goa Beach Break" {
		t.Fatalf("unexpected package: %+v", p)
	}

	_, err = cl.GetPackage(ctx, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := atomic.LoadInt32(&fp.logins); n != 1 {
		t.Fatalf("expected token reuse, got %d logins", n)
	}
}

func TestClient_ReloginOnUnauthorized(t *testing.T) {
	cl, fp := newClient(t)
	ctx := context.Background()

	if _, err := cl.ListAllHotels(ctx); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	atomic.StoreInt32(&fp.expireOnce, 1)

	hotels, err := cl.ListAllHotels(ctx)
	if err != nil {
		t.Fatalf("unexpected err after token expiry: %v", err)
	}
	if len(hotels) != 1 || hotels[0]["name"] != "Tea Valley" {
		t.Fatalf("unexpected hotels: %+v", hotels)
	}
	if n := atomic.LoadInt32(&fp.logins); n != 2 {
		t.Fatalf("expected a second login, got %d", n)
	}
}

func TestClient_DestinationAndPackageHotels(t *testing.T) {
	cl, _ := newClient(t)
	ctx := context.Background()

	d, err := cl.GetDestination(ctx, "dest-0001")
	if err != nil || d["name"] != "Munnar" {
		t.Fatalf("destination: %+v %v", d, err)
	}
	if _, err := cl.GetDestination(ctx, "short"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected short id to be rejected, got %v", err)
	}

	hs, err := cl.GetPackageHotels(ctx, "pkg-1")
	if err != nil || len(hs) != 1 {
		t.Fatalf("package hotels: %+v %v", hs, err)
	}
}
