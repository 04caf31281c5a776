package config

import (
	"errors"
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the broker.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	IssuerURL    string `env:"ISSUER_URL"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/api/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
}

// Scopes splits Scope on whitespace.
func (c OAuthConfig) Scopes() []string {
	return strings.Fields(c.Scope)
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string   `env:"USER_ID"      envDefault:"dev-user"`
	Email       string   `env:"EMAIL"        envDefault:"dev@example.com"`
	DisplayName string   `env:"DISPLAY_NAME" envDefault:"Dev User"`
	Groups      []string `env:"GROUPS"       envDefault:"users"           envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Validate requires provider credentials in oauth mode and refuses mock mode outside dev.
func (c *AuthConfig) Validate(isDev bool) error {
	var errs []error
	if c.OAuth.RedirectURL == "" {
		errs = append(errs, errors.New("OAUTH_REDIRECT_URL is required"))
	}
	switch c.Mode {
	case AuthModeMock:
		if !isDev {
			errs = append(errs, errors.New("AUTH_MODE=mock requires DEV=true"))
		}
	default:
		if c.OAuth.ClientID == "" {
			errs = append(errs, errors.New("OAUTH_CLIENT_ID is required"))
		}
		if c.OAuth.IssuerURL == "" {
			errs = append(errs, errors.New("OAUTH_ISSUER_URL is required"))
		}
	}
	return errors.Join(errs...)
}
