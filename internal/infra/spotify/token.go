package spotify

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// tokenRefreshLeeway is how long before expiry a cached token is replaced.
const tokenRefreshLeeway = 60 * time.Second

// defaultTokenLifetime applies when the token endpoint omits expires_in.
const defaultTokenLifetime = time.Hour

// tokenCache holds the current access token.
type tokenCache struct {
	value     string
	expiresAt time.Time
}

// valid reports whether the token can still be used at now.
func (c tokenCache) valid(now time.Time) bool {
	return c.value != "" && now.Add(tokenRefreshLeeway).Before(c.expiresAt)
}

// tokenFetcher obtains a fresh token from the authorization server.
type tokenFetcher func(ctx context.Context) (*oauth2.Token, error)

// cachingTokenSource is an oauth2.TokenSource backed by an explicit tokenCache.
type cachingTokenSource struct {
	mu    sync.Mutex
	ctx   context.Context
	fetch tokenFetcher
	cache tokenCache
	now   func() time.Time
}

func newCachingTokenSource(ctx context.Context, fetch tokenFetcher) *cachingTokenSource {
	return &cachingTokenSource{
		ctx:   ctx,
		fetch: fetch,
		now:   time.Now,
	}
}

// Token returns the cached token or fetches a new one.
func (s *cachingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cache.valid(now) {
		return s.tokenLocked(), nil
	}

	tok, err := s.fetch(s.ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch spotify access token")
	}
	if tok.AccessToken == "" {
		return nil, errors.New("spotify token endpoint returned an empty access token")
	}

	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		expiresAt = now.Add(defaultTokenLifetime)
	}
	s.cache = tokenCache{value: tok.AccessToken, expiresAt: expiresAt}
	zlog.Debug().Msgf("spotify access token refreshed: expires_at=%s", expiresAt.Format(time.RFC3339))
	return s.tokenLocked(), nil
}

// Invalidate drops the cached token.
func (s *cachingTokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = tokenCache{}
}

func (s *cachingTokenSource) tokenLocked() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: s.cache.value,
		TokenType:   "Bearer",
		Expiry:      s.cache.expiresAt,
	}
}
