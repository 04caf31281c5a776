package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// BrokerRouterOptions holds what the broker router needs.
type BrokerRouterOptions struct {
	Handlers    *BrokerHandlers
	ServiceName string
	Logger      *slog.Logger
}

// NewBrokerRouter wires the broker's routes.
func NewBrokerRouter(opts BrokerRouterOptions) http.Handler {
	logger := loggerOrDefault(opts.Logger)
	h := opts.Handlers
	mux := http.NewServeMux()

	mux.Handle("GET /signin", NoStore(http.HandlerFunc(h.SignIn)))
	mux.Handle("GET /api/auth/callback", NoStore(http.HandlerFunc(h.Callback)))
	mux.Handle("GET /signout", NoStore(http.HandlerFunc(h.SignOut)))
	mux.Handle("POST /signout", NoStore(http.HandlerFunc(h.SignOut)))
	mux.Handle("GET /api/auth/session", NoStore(http.HandlerFunc(h.Session)))
	mux.Handle("GET /error", NoStore(http.HandlerFunc(h.ErrorPage)))
	registerAppHealth(mux, opts.ServiceName, nil)

	return Chain(mux, Recover(logger), Logging(logger))
}

// GateRouterOptions holds what an app's gate router needs.
type GateRouterOptions struct {
	Guard       GuardConfig
	Upstream    http.Handler
	ServiceName string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewGateRouter puts the Guard in front of the app and serves the app's own /health.
func NewGateRouter(opts GateRouterOptions) http.Handler {
	logger := loggerOrDefault(opts.Logger)
	mux := http.NewServeMux()
	registerAppHealth(mux, opts.ServiceName, opts.Now)
	upstream := opts.Upstream
	if upstream == nil {
		upstream = http.NotFoundHandler()
	}
	mux.Handle("/", upstream)

	if opts.Guard.Logger == nil {
		opts.Guard.Logger = logger
	}
	return Chain(mux, Recover(logger), Logging(logger), Guard(opts.Guard))
}

// AggregatorRouterOptions holds what the health aggregator router needs.
type AggregatorRouterOptions struct {
	Fleet   FleetSource
	Metrics http.Handler
	Logger  *slog.Logger
}

// NewAggregatorRouter serves fleet health and metrics.
func NewAggregatorRouter(opts AggregatorRouterOptions) http.Handler {
	logger := loggerOrDefault(opts.Logger)
	mux := http.NewServeMux()
	mux.Handle("GET /health", FleetHealthHandler(opts.Fleet))
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics)
	}
	return Chain(mux, Recover(logger), Logging(logger))
}

func registerAppHealth(mux *http.ServeMux, serviceName string, now func() time.Time) {
	h := AppHealthHandler(serviceName, now)
	mux.Handle("GET /health", h)
	mux.Handle("HEAD /health", h)
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
