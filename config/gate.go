package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// GuardConfig configures the per-app session guard.
type GuardConfig struct {
	// PublicPaths replaces the default public allow-list when set.
	PublicPaths []string `env:"GUARD_PUBLIC_PATHS"    envSeparator:","`
	SignInURL   string   `env:"GUARD_SIGNIN_URL"      envDefault:"/signin"`
	// PublicBaseURL makes sign-in callbacks absolute (e.g. "https://docs.example.com").
	PublicBaseURL string `env:"GUARD_PUBLIC_BASE_URL"`
	// Verify decodes the session token instead of checking only for its presence.
	Verify bool `env:"GUARD_VERIFY" envDefault:"false"`
}

// Sanitize normalises guard values.
func (c *GuardConfig) Sanitize() {
	if c.PublicPaths != nil {
		c.PublicPaths = trimAll(c.PublicPaths)
	}
	c.SignInURL = strings.TrimSpace(c.SignInURL)
	if c.SignInURL == "" {
		c.SignInURL = "/signin"
	}
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
}

// Validate checks the sign-in and base URLs.
func (c *GuardConfig) Validate() error {
	var errs []error
	if !strings.HasPrefix(c.SignInURL, "/") {
		errs = append(errs, validateAbsoluteURL("GUARD_SIGNIN_URL", c.SignInURL))
	}
	if c.PublicBaseURL != "" {
		errs = append(errs, validateAbsoluteURL("GUARD_PUBLIC_BASE_URL", c.PublicBaseURL))
	}
	return errors.Join(errs...)
}

// LocalAuthConfig configures the app-local provider session kept fresh by the refresh loop.
type LocalAuthConfig struct {
	Enabled      bool          `env:"ENABLED"       envDefault:"false"`
	ClientID     string        `env:"CLIENT_ID"`
	ClientSecret string        `env:"CLIENT_SECRET"`
	TokenURL     string        `env:"TOKEN_URL"`
	Scopes       []string      `env:"SCOPES"        envSeparator:" "`
	Interval     time.Duration `env:"INTERVAL"      envDefault:"60s"`
	Threshold    time.Duration `env:"THRESHOLD"     envDefault:"70s"`
}

// Sanitize applies defaults to non-positive durations.
func (c *LocalAuthConfig) Sanitize() {
	c.TokenURL = strings.TrimSpace(c.TokenURL)
	c.Scopes = trimAll(c.Scopes)
	if c.Interval <= 0 {
		c.Interval = 60 * time.Second
	}
	if c.Threshold <= 0 {
		c.Threshold = 70 * time.Second
	}
}

// Validate requires credentials when the local session is enabled.
func (c *LocalAuthConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if c.ClientID == "" {
		errs = append(errs, errors.New("LOCAL_AUTH_CLIENT_ID is required"))
	}
	errs = append(errs, validateAbsoluteURL("LOCAL_AUTH_TOKEN_URL", c.TokenURL))
	return errors.Join(errs...)
}

func validateAbsoluteURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL", name)
	}
	return nil
}
