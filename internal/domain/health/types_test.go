package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnlineRecordCarriesLatency(t *testing.T) {
	rec := Online(Endpoint{Name: "docs", URL: "http://docs/health"}, 42*time.Millisecond)

	assert.Equal(t, StatusOnline, rec.Status)
	require.NotNil(t, rec.LatencyMS)
	assert.Equal(t, int64(42), *rec.LatencyMS)
}

func TestOfflineRecordHasNilLatency(t *testing.T) {
	rec := Offline(Endpoint{Name: "mail", URL: "http://mail/health"})

	assert.Equal(t, StatusOffline, rec.Status)
	assert.Nil(t, rec.LatencyMS)
	assert.Equal(t, "mail", rec.Name)
}

func TestNewAppHealth(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600))
	h := NewAppHealth("sheets", now)

	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "sheets", h.Service)
	assert.Equal(t, "2025-03-04T04:06:07Z", h.Timestamp)
}
