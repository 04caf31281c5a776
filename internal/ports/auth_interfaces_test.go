package ports_test

import (
	"testing"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/mocks"
	mockauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/mocks/auth"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.IdentityProvider = (*mockauth.MockIdentityProvider)(nil)
	var _ ports.PendingStore = (*mockauth.MemoryPendingStore)(nil)
	var _ ports.SessionCodec = (*mockauth.PlainCodec)(nil)
	var _ ports.Prober = (*mocks.MockProber)(nil)
	var _ ports.TokenAuthority = (*mocks.MockTokenAuthority)(nil)
}
