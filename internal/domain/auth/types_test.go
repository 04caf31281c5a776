package auth

import (
	"testing"
	"time"
)

func TestProviderTokens_Remaining(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tok := ProviderTokens{Expiry: now.Add(50 * time.Second)}
	if got := tok.Remaining(now); got != 50*time.Second {
		t.Fatalf("Remaining() = %v, want 50s", got)
	}
	if got := (ProviderTokens{}).Remaining(now); got != 0 {
		t.Fatalf("zero expiry Remaining() = %v, want 0", got)
	}
}

func TestSessionRecord_Expired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rec := SessionRecord{ExpiresAt: now.Add(time.Minute)}
	if rec.Expired(now) {
		t.Fatalf("did not expect expired")
	}
	if !rec.Expired(now.Add(time.Minute)) {
		t.Fatalf("expected expired at the boundary")
	}
}

func TestParseSameSite(t *testing.T) {
	tests := map[string]SameSite{
		"":        SameSiteLax,
		"LAX":     SameSiteLax,
		" strict": SameSiteStrict,
		"none":    SameSiteNone,
		"bogus":   SameSiteLax,
	}
	for in, want := range tests {
		if got := ParseSameSite(in); got != want {
			t.Fatalf("ParseSameSite(%q) = %q, want %q", in, got, want)
		}
	}
}
