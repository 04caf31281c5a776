package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
)

const (
	// StateCookieName binds a pending sign-in to the browser that started it.
	StateCookieName = "signin_state"
	stateCookieTTL  = 10 * time.Minute
)

// isSecure reports whether the request arrived over TLS, directly or via a proxy.
func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func sameSiteMode(s domainauth.SameSite) http.SameSite {
	switch s {
	case domainauth.SameSiteStrict:
		return http.SameSiteStrictMode
	case domainauth.SameSiteNone:
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// SetSessionCookie writes the session token according to the app's policy.
func SetSessionCookie(w http.ResponseWriter, p domainauth.CookiePolicy, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    token,
		Path:     cookiePath(p),
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: sameSiteMode(p.SameSite),
		MaxAge:   int(p.MaxAge.Seconds()),
	})
}

// ClearSessionCookie expires the session cookie. It mirrors Path, Domain, Secure, and SameSite
// so browsers match it to the cookie being removed.
func ClearSessionCookie(w http.ResponseWriter, p domainauth.CookiePolicy) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    "",
		Path:     cookiePath(p),
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: sameSiteMode(p.SameSite),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

// SessionToken returns the session cookie value, or "" when absent.
func SessionToken(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// setStateCookie binds state to this browser. It is host-only and Lax so it survives the
// top-level redirect back from the provider.
func setStateCookie(w http.ResponseWriter, r *http.Request, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateCookieTTL.Seconds()),
	})
}

func clearStateCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

func cookiePath(p domainauth.CookiePolicy) string {
	if p.Path == "" {
		return "/"
	}
	return p.Path
}
