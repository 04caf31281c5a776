// Package refreshloop keeps an app-local provider token fresh on a fixed tick.
package refreshloop

import (
	"sync/atomic"
	"time"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
)

// Result is the outcome of the most recent refresh attempt.
type Result struct {
	At  time.Time
	Err error
}

// TokenCache holds the current token. The Runner is its only writer; reads are lock-free.
type TokenCache struct {
	tokens atomic.Pointer[domainauth.ProviderTokens]
	last   atomic.Pointer[Result]
}

// NewTokenCache returns an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Load returns the cached tokens, if any.
func (c *TokenCache) Load() (domainauth.ProviderTokens, bool) {
	t := c.tokens.Load()
	if t == nil {
		return domainauth.ProviderTokens{}, false
	}
	return *t, true
}

// AccessToken returns the cached access token or "".
func (c *TokenCache) AccessToken() string {
	if t := c.tokens.Load(); t != nil {
		return t.AccessToken
	}
	return ""
}

// LastResult returns the outcome of the last refresh or authentication attempt.
func (c *TokenCache) LastResult() (Result, bool) {
	r := c.last.Load()
	if r == nil {
		return Result{}, false
	}
	return *r, true
}

func (c *TokenCache) store(t domainauth.ProviderTokens, at time.Time) {
	c.tokens.Store(&t)
	c.last.Store(&Result{At: at})
}

func (c *TokenCache) fail(err error, at time.Time) {
	c.tokens.Store(nil)
	c.last.Store(&Result{At: at, Err: err})
}
