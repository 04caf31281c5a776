package httpx

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// AccessTokenSource supplies the app-local bearer token, or "" when none is held.
type AccessTokenSource interface {
	AccessToken() string
}

// UpstreamProxyOptions configures the gate's reverse proxy.
type UpstreamProxyOptions struct {
	Target *url.URL
	// Tokens, when set, adds the local session as a bearer token; requests arriving
	// while no token is held get 503.
	Tokens AccessTokenSource
	Logger *slog.Logger
}

// NewUpstreamProxy forwards guarded requests to the fronted application.
func NewUpstreamProxy(opts UpstreamProxyOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(opts.Target)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host
			pr.Out.Header.Del("Authorization")
			if opts.Tokens != nil {
				pr.Out.Header.Set("Authorization", "Bearer "+opts.Tokens.AccessToken())
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.WarnContext(r.Context(), "upstream request failed", "path", r.URL.Path, "error", err)
			WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "upstream_unavailable"})
		},
	}
	if opts.Tokens == nil {
		return rp
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if opts.Tokens.AccessToken() == "" {
			WriteError(w, ErrorParams{
				Code:    http.StatusServiceUnavailable,
				ErrCode: "local_session_unavailable",
				Message: "service is re-authenticating",
			})
			return
		}
		rp.ServeHTTP(w, r)
	})
}
