package jwtcodec

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/data/cryptoutil"
	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/testutil"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newCodec(t *testing.T, clock *testutil.TestTimeProvider, encrypted bool) *Codec {
	t.Helper()
	cfg := Config{Secret: testSecret, Issuer: "https://auth.example.com", Now: clock.Now}
	if encrypted {
		key, err := cryptoutil.DeriveKey("session-encryption-material")
		require.NoError(t, err)
		enc, err := cryptoutil.NewAESGCMEncryptor(key)
		require.NoError(t, err)
		cfg.Encryptor = enc
	}
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func sampleRecord() domainauth.SessionRecord {
	issued := testutil.TestTime()
	return domainauth.SessionRecord{
		ID:           "c5a1f7f2-4a43-4f7a-9d8c-2f4a8c0b7e11",
		Subject:      "user-42",
		Email:        "ada@example.com",
		DisplayName:  "Ada Lovelace",
		AccessToken:  "provider-access",
		RefreshToken: "provider-refresh",
		IDToken:      "provider-id",
		IssuedAt:     issued,
		ExpiresAt:    issued.Add(7 * 24 * time.Hour),
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, encrypted := range []bool{false, true} {
		name := "signed"
		if encrypted {
			name = "signed+encrypted"
		}
		t.Run(name, func(t *testing.T) {
			clock := testutil.NewTestTimeProvider(testutil.TestTime().Add(time.Hour))
			c := newCodec(t, clock, encrypted)
			assert.Equal(t, encrypted, c.Encrypted())

			rec := sampleRecord()
			tok, err := c.Encode(rec)
			require.NoError(t, err)

			got, err := c.Decode(tok)
			require.NoError(t, err)
			assert.Equal(t, rec, got)
		})
	}
}

func TestCodec_EncryptedHidesClaims(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	c := newCodec(t, clock, true)
	tok, err := c.Encode(sampleRecord())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tok, "v1."))
	_, _, err = jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	assert.Error(t, err, "sealed token must not parse as a JWT")
	assert.NotContains(t, tok, "ada@example.com")
}

func TestCodec_DecodeRejections(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime().Add(time.Minute))
	signing := newCodec(t, clock, false)
	sealed := newCodec(t, clock, true)

	good, err := signing.Encode(sampleRecord())
	require.NoError(t, err)
	goodSealed, err := sealed.Encode(sampleRecord())
	require.NoError(t, err)

	otherKey, err := New(Config{Secret: []byte("ffffffffffffffffffffffffffffffff"), Issuer: "https://auth.example.com", Now: clock.Now})
	require.NoError(t, err)
	foreign, err := otherKey.Encode(sampleRecord())
	require.NoError(t, err)

	otherIssuer, err := New(Config{Secret: testSecret, Issuer: "https://evil.example.com", Now: clock.Now})
	require.NoError(t, err)
	wrongIss, err := otherIssuer.Encode(sampleRecord())
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	tamperedPayload := parts[0] + "." + flipChar(parts[1]) + "." + parts[2]

	tests := []struct {
		name  string
		codec *Codec
		token string
	}{
		{"absent", signing, ""},
		{"garbage", signing, "not-a-token"},
		{"truncated", signing, good[:len(good)-5]},
		{"tampered payload", signing, tamperedPayload},
		{"tampered signature", signing, parts[0] + "." + parts[1] + "." + flipChar(parts[2])},
		{"wrong key", signing, foreign},
		{"wrong issuer", signing, wrongIss},
		{"hs384", signing, signWith(t, jwt.SigningMethodHS384, testSecret)},
		{"alg none", signing, signWith(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)},
		{"missing subject", signing, signClaims(t, jwt.MapClaims{"iss": "https://auth.example.com", "iat": testutil.TestTime().Unix(), "exp": testutil.TestTime().Add(time.Hour).Unix()})},
		{"missing exp", signing, signClaims(t, jwt.MapClaims{"iss": "https://auth.example.com", "sub": "u", "iat": testutil.TestTime().Unix()})},
		{"plain token to sealing codec", sealed, good},
		{"sealed token to signing codec", signing, goodSealed},
		{"tampered ciphertext", sealed, goodSealed[:len(goodSealed)-2] + flipChar(goodSealed[len(goodSealed)-2:])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.codec.Decode(tt.token)
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidToken(err), "expected InvalidToken, got %v", err)
		})
	}
}

func TestCodec_ExpiryUsesInjectedClock(t *testing.T) {
	rec := sampleRecord()
	clock := testutil.NewTestTimeProvider(rec.ExpiresAt.Add(-time.Second))
	c := newCodec(t, clock, false)

	tok, err := c.Encode(rec)
	require.NoError(t, err)

	_, err = c.Decode(tok)
	require.NoError(t, err)

	clock.SetTime(rec.ExpiresAt)
	_, err = c.Decode(tok)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidToken(err))
}

func TestCodec_EncodeValidation(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	c := newCodec(t, clock, false)

	noSubject := sampleRecord()
	noSubject.Subject = ""
	_, err := c.Encode(noSubject)
	require.Error(t, err)

	subSecond := sampleRecord()
	subSecond.IssuedAt = subSecond.IssuedAt.Add(250 * time.Millisecond)
	_, err = c.Encode(subSecond)
	require.ErrorIs(t, err, errSubSecond)

	backwards := sampleRecord()
	backwards.ExpiresAt = backwards.IssuedAt
	_, err = c.Encode(backwards)
	require.Error(t, err)

	zero := sampleRecord()
	zero.IssuedAt = time.Time{}
	_, err = c.Encode(zero)
	require.Error(t, err)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Secret: []byte("short"), Issuer: "x"})
	require.Error(t, err)

	_, err = New(Config{Secret: testSecret, Issuer: "  "})
	require.Error(t, err)
}

func flipChar(s string) string {
	b := []byte(s)
	if b[0] == 'A' {
		b[0] = 'B'
	} else {
		b[0] = 'A'
	}
	return string(b)
}

func signWith(t *testing.T, method jwt.SigningMethod, key any) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss": "https://auth.example.com",
		"sub": "user-42",
		"iat": testutil.TestTime().Unix(),
		"exp": testutil.TestTime().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func signClaims(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return tok
}
