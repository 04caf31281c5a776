package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	mockauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/mocks/auth"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/service"
)

var testPolicy = domainauth.CookiePolicy{
	Name:     "fleet_session",
	Domain:   "example.com",
	Path:     "/",
	Secure:   true,
	SameSite: domainauth.SameSiteLax,
	MaxAge:   7 * 24 * time.Hour,
}

type brokerHarness struct {
	handlers *BrokerHandlers
	router   http.Handler
	provider *mockauth.MockIdentityProvider
	pending  *mockauth.MemoryPendingStore
	broker   *service.SessionBroker
}

func newBrokerHarness(t *testing.T) *brokerHarness {
	t.Helper()
	h := &brokerHarness{
		provider: mockauth.NewMockIdentityProvider(),
		pending:  mockauth.NewMemoryPendingStore(),
	}
	b, err := service.NewSessionBroker(service.SessionBrokerOptions{
		Provider:    h.provider,
		Pending:     h.pending,
		Codec:       mockauth.PlainCodec{},
		RedirectURL: "https://auth.example.com/api/auth/callback",
		SessionTTL:  testPolicy.MaxAge,
	})
	require.NoError(t, err)
	h.broker = b
	h.handlers = &BrokerHandlers{
		Svc:       b,
		Policy:    testPolicy,
		Callbacks: NewCallbackValidator(testPolicy.Domain, []string{"partner.test"}),
	}
	h.router = NewBrokerRouter(BrokerRouterOptions{Handlers: h.handlers, ServiceName: "broker"})
	return h
}

func findCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func serve(h http.Handler, req *http.Request) *http.Response {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}
