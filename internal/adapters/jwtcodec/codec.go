// Package jwtcodec encodes session records as HS256-signed JWTs, optionally sealed with AES-GCM.
package jwtcodec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/data/cryptoutil"
	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
)

// MinSecretLen is the minimum HS256 secret length in bytes.
const MinSecretLen = 32

var errSubSecond = errors.New("session times must be whole seconds")

// Config configures a Codec.
type Config struct {
	Secret []byte
	Issuer string
	// Encryptor, when set, seals the signed token so claims are not readable by the browser.
	Encryptor cryptoutil.Encryptor
	Now       func() time.Time
}

// Codec implements ports.SessionCodec.
type Codec struct {
	secret    []byte
	issuer    string
	encryptor cryptoutil.Encryptor
	now       func() time.Time
	parser    *jwt.Parser
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	AccessToken  string `json:"pat,omitempty"`
	RefreshToken string `json:"prt,omitempty"`
	IDToken      string `json:"pit,omitempty"`
}

// New validates cfg and returns a Codec.
func New(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < MinSecretLen {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSecretLen)
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("session issuer is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	c := &Codec{
		secret:    append([]byte(nil), cfg.Secret...),
		issuer:    cfg.Issuer,
		encryptor: cfg.Encryptor,
		now:       now,
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	return c, nil
}

// Encrypted reports whether tokens are sealed in addition to being signed.
func (c *Codec) Encrypted() bool { return c.encryptor != nil }

// Encode signs rec (and seals it when encryption is configured).
func (c *Codec) Encode(rec domainauth.SessionRecord) (string, error) {
	if rec.Subject == "" {
		return "", errors.New("session subject is required")
	}
	if rec.IssuedAt.IsZero() || rec.ExpiresAt.IsZero() {
		return "", errors.New("session times are required")
	}
	if rec.IssuedAt.Nanosecond() != 0 || rec.ExpiresAt.Nanosecond() != 0 {
		return "", errSubSecond
	}
	if !rec.ExpiresAt.After(rec.IssuedAt) {
		return "", errors.New("session must expire after it is issued")
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.ID,
			Subject:   rec.Subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(rec.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt),
		},
		Email:        rec.Email,
		Name:         rec.DisplayName,
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		IDToken:      rec.IDToken,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	if c.encryptor == nil {
		return signed, nil
	}
	sealed, err := c.encryptor.Encrypt([]byte(signed))
	if err != nil {
		return "", fmt.Errorf("encrypt session: %w", err)
	}
	return sealed, nil
}

// Decode verifies token and returns the record. Every failure is an InvalidToken error.
func (c *Codec) Decode(token string) (domainauth.SessionRecord, error) {
	rec, err := c.decode(token)
	if err != nil {
		return domainauth.SessionRecord{}, apperrors.InvalidToken(err)
	}
	return rec, nil
}

func (c *Codec) decode(token string) (domainauth.SessionRecord, error) {
	if token == "" {
		return domainauth.SessionRecord{}, errors.New("empty token")
	}
	raw := token
	if c.encryptor != nil {
		pt, err := c.encryptor.Decrypt(token)
		if err != nil {
			return domainauth.SessionRecord{}, fmt.Errorf("decrypt: %w", err)
		}
		raw = string(pt)
	}

	var claims sessionClaims
	if _, err := c.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}); err != nil {
		return domainauth.SessionRecord{}, err
	}
	if claims.Subject == "" {
		return domainauth.SessionRecord{}, errors.New("missing subject")
	}
	if claims.IssuedAt == nil {
		return domainauth.SessionRecord{}, errors.New("missing issued-at")
	}

	return domainauth.SessionRecord{
		ID:           claims.ID,
		Subject:      claims.Subject,
		Email:        claims.Email,
		DisplayName:  claims.Name,
		AccessToken:  claims.AccessToken,
		RefreshToken: claims.RefreshToken,
		IDToken:      claims.IDToken,
		IssuedAt:     claims.IssuedAt.UTC(),
		ExpiresAt:    claims.ExpiresAt.UTC(),
	}, nil
}
