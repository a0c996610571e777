package upstream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// TokenFetcher obtains a fresh bearer token. ttl <= 0 means the provider
// did not say; such tokens are kept until Invalidate.
type TokenFetcher func(ctx context.Context) (token string, ttl time.Duration, err error)

// TokenCache holds one bearer token per provider. Concurrent callers share
// a single in-flight fetch.
type TokenCache struct {
	name  string
	fetch TokenFetcher
	now   func() time.Time

	mu      sync.RWMutex
	token   string
	expires time.Time
	sf      singleflight.Group
}

// expirySkew refreshes tokens slightly before the provider expires them.
const expirySkew = 30 * time.Second

func NewTokenCache(name string, fetch TokenFetcher) *TokenCache {
	return &TokenCache{name: name, fetch: fetch, now: time.Now}
}

func (t *TokenCache) Token(ctx context.Context) (string, error) {
	t.mu.RLock()
	tok, exp := t.token, t.expires
	t.mu.RUnlock()
	if tok != "" && (exp.IsZero() || t.now().Before(exp)) {
		return tok, nil
	}

	v, err, _ := t.sf.Do(t.name, func() (any, error) {
		log.Info().Str("provider", t.name).Msg("fetching access token")
		tok, ttl, err := t.fetch(ctx)
		if err != nil {
			return "", err
		}
		if tok == "" {
			return "", errors.New(t.name + ": empty access token")
		}
		var exp time.Time
		if ttl > 0 {
			if ttl > 2*expirySkew {
				ttl -= expirySkew
			}
			exp = t.now().Add(ttl)
		}
		t.mu.Lock()
		t.token, t.expires = tok, exp
		t.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token; the next Token call refetches.
func (t *TokenCache) Invalidate() {
	t.mu.Lock()
	t.token, t.expires = "", time.Time{}
	t.mu.Unlock()
	log.Debug().Str("provider", t.name).Msg("access token invalidated")
}
