package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
)

const (
	// MinSessionMaxAge and MaxSessionMaxAge bound the configured session lifetime.
	MinSessionMaxAge     = time.Hour
	MaxSessionMaxAge     = 30 * 24 * time.Hour
	DefaultSessionMaxAge = 7 * 24 * time.Hour

	minSessionSecretLen = 32
)

// SessionConfig configures the session token and the cookie that carries it.
// Apps sharing sign-on must agree on CookieName, CookieDomain, Secret, and EncryptionKey.
type SessionConfig struct {
	Secret string `env:"SECRET"`
	// EncryptionKey enables the encrypted token form. Hex-encoded 32 bytes are used
	// directly; any other value is hashed.
	EncryptionKey string        `env:"ENCRYPTION_KEY"`
	Issuer        string        `env:"ISSUER"         envDefault:"fleet-broker"`
	CookieName    string        `env:"COOKIE_NAME"    envDefault:"fleet_session"`
	CookieDomain  string        `env:"COOKIE_DOMAIN"`
	CookiePath    string        `env:"COOKIE_PATH"    envDefault:"/"`
	CookieSecure  string        `env:"COOKIE_SECURE"`
	SameSite      string        `env:"COOKIE_SAMESITE" envDefault:"lax"`
	MaxAge        time.Duration `env:"MAX_AGE"        envDefault:"168h"`

	secure bool
}

// Sanitize normalises values, clamps MaxAge, and resolves the Secure flag
// (explicit value, else true outside dev).
func (c *SessionConfig) Sanitize(isDev bool) {
	c.CookieName = strings.TrimSpace(c.CookieName)
	if c.CookieName == "" {
		c.CookieName = "fleet_session"
	}
	c.CookieDomain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.CookieDomain), "."))
	if !strings.HasPrefix(c.CookiePath, "/") {
		c.CookiePath = "/"
	}
	switch {
	case c.MaxAge <= 0:
		c.MaxAge = DefaultSessionMaxAge
	case c.MaxAge < MinSessionMaxAge:
		c.MaxAge = MinSessionMaxAge
	case c.MaxAge > MaxSessionMaxAge:
		c.MaxAge = MaxSessionMaxAge
	}
	c.MaxAge = c.MaxAge.Truncate(time.Second)

	c.secure = !isDev
	if v, err := strconv.ParseBool(strings.TrimSpace(c.CookieSecure)); err == nil {
		c.secure = v
	}
	if domainauth.ParseSameSite(c.SameSite) == domainauth.SameSiteNone {
		c.secure = true
	}
}

// Validate checks the signing secret and the cookie domain.
func (c *SessionConfig) Validate() error {
	var errs []error
	if len(c.Secret) < minSessionSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen))
	}
	if err := c.ValidateCookie(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateCookie rejects a cookie domain browsers would refuse.
func (c *SessionConfig) ValidateCookie() error {
	if c.CookieDomain == "" {
		return nil
	}
	if strings.ContainsAny(c.CookieDomain, ":/ ") {
		return fmt.Errorf("SESSION_COOKIE_DOMAIN %q must be a bare host name", c.CookieDomain)
	}
	if ps, icann := publicsuffix.PublicSuffix(c.CookieDomain); ps == c.CookieDomain && (icann || strings.Contains(ps, ".")) {
		return fmt.Errorf("SESSION_COOKIE_DOMAIN %q is a public suffix", c.CookieDomain)
	}
	return nil
}

// Policy returns the cookie policy for this app.
func (c SessionConfig) Policy() domainauth.CookiePolicy {
	return domainauth.CookiePolicy{
		Name:     c.CookieName,
		Domain:   c.CookieDomain,
		Path:     c.CookiePath,
		Secure:   c.secure,
		SameSite: domainauth.ParseSameSite(c.SameSite),
		MaxAge:   c.MaxAge,
	}
}
