package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

// DefaultSignInURL is where the Guard sends unauthenticated browsers.
const DefaultSignInURL = "/signin"

// DefaultPublicPaths are reachable without a session on every app.
func DefaultPublicPaths() []string {
	return []string{"/signin", "/signup", "/error", "/api/auth/", "/health", "/static/", "/favicon.ico"}
}

// GuardConfig configures the per-app session guard.
type GuardConfig struct {
	CookieName string
	// SignInURL may be relative or point at the central broker.
	SignInURL string
	// PublicPaths are exact paths, or prefixes when an entry ends in "/" or "/*".
	PublicPaths []string
	// PublicBaseURL, when set, makes the callback absolute so a remote broker can return here.
	PublicBaseURL string
	// Reader enables verify mode: tokens are decoded and a valid record is put on the context.
	// With a nil Reader the Guard only checks that the cookie is present.
	Reader ports.SessionReader
	Logger *slog.Logger
}

type guard struct {
	cfg      GuardConfig
	exact    map[string]struct{}
	prefixes []string
}

// Guard returns a middleware that redirects requests without a session to sign-in.
// It never modifies cookies or stored state.
func Guard(cfg GuardConfig) func(http.Handler) http.Handler {
	if cfg.SignInURL == "" {
		cfg.SignInURL = DefaultSignInURL
	}
	if cfg.PublicPaths == nil {
		cfg.PublicPaths = DefaultPublicPaths()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	g := &guard{cfg: cfg, exact: map[string]struct{}{}}
	for _, p := range cfg.PublicPaths {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasSuffix(p, "/*"):
			g.prefixes = append(g.prefixes, strings.TrimSuffix(p, "*"))
		case strings.HasSuffix(p, "/"):
			g.prefixes = append(g.prefixes, p)
		default:
			g.exact[p] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if canonicalPath(r.URL) && g.isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token := SessionToken(r, cfg.CookieName)
			if token == "" {
				g.redirect(w, r)
				return
			}
			if cfg.Reader == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec, err := cfg.Reader.ReadSession(r.Context(), token)
			if err != nil {
				g.redirect(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), &rec)))
		})
	}
}

func (g *guard) isPublic(path string) bool {
	if _, ok := g.exact[path]; ok {
		return true
	}
	for _, p := range g.prefixes {
		if strings.HasPrefix(path, p) || path == strings.TrimSuffix(p, "/") {
			return true
		}
	}
	return false
}

// canonicalPath reports whether u's path is already clean and free of encoded
// separators or dots. Anything else is never classified as public.
func canonicalPath(u *url.URL) bool {
	p := u.Path
	if p == "" || p[0] != '/' {
		return false
	}
	clean := path.Clean(p)
	if strings.HasSuffix(p, "/") && clean != "/" {
		clean += "/"
	}
	if clean != p {
		return false
	}
	raw := strings.ToLower(u.RawPath)
	return !strings.Contains(raw, "%2f") && !strings.Contains(raw, "%2e") && !strings.Contains(raw, "%5c")
}

// redirect sends 303 See Other to the sign-in URL carrying the original request URI.
func (g *guard) redirect(w http.ResponseWriter, r *http.Request) {
	callback := r.URL.RequestURI()
	if g.cfg.PublicBaseURL != "" {
		callback = g.cfg.PublicBaseURL + callback
	}
	sep := "?"
	if strings.Contains(g.cfg.SignInURL, "?") {
		sep = "&"
	}
	target := g.cfg.SignInURL + sep + "callbackUrl=" + url.QueryEscape(callback)
	g.cfg.Logger.DebugContext(r.Context(), "guard redirect", "path", r.URL.Path)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
