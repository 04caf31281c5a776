package httpx

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/service"
)

// DefaultErrorPath is where failed sign-ins land.
const DefaultErrorPath = "/error"

// BrokerService defines the broker operations the handlers depend on.
type BrokerService interface {
	InitiateSignIn(ctx context.Context, callbackURL string) (*service.InitiateResult, error)
	CompleteSignIn(ctx context.Context, in service.CompleteInput) (*service.CompleteResult, error)
	ReadSession(ctx context.Context, token string) (domainauth.SessionRecord, error)
}

// BrokerHandlers provides the HTTP surface of the session broker.
type BrokerHandlers struct {
	Svc       BrokerService
	Policy    domainauth.CookiePolicy
	Callbacks CallbackValidator
	ErrorPath string
	Logger    *slog.Logger
}

func (h *BrokerHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *BrokerHandlers) errorPath() string {
	if h.ErrorPath != "" {
		return h.ErrorPath
	}
	return DefaultErrorPath
}

// SignIn starts a sign-in.
// GET /signin?callbackUrl=<url>.
func (h *BrokerHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	callback := h.Callbacks.Sanitize(r.URL.Query().Get("callbackUrl"))

	res, err := h.Svc.InitiateSignIn(r.Context(), callback)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "sign-in initiation failed", "event", "signin_initiate_failed", "error", err)
		http.Redirect(w, r, h.errorPath(), http.StatusFound)
		return
	}

	setStateCookie(w, r, res.State)
	http.Redirect(w, r, res.AuthURL, http.StatusFound)
}

// Callback completes a sign-in. Any failure redirects to the error page without a session cookie.
// GET /api/auth/callback?code=<code>&state=<state>.
func (h *BrokerHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := service.CompleteInput{Code: q.Get("code"), State: q.Get("state")}
	if c, err := r.Cookie(StateCookieName); err == nil {
		in.BoundState = c.Value
	}
	clearStateCookie(w, r)

	res, err := h.Svc.CompleteSignIn(r.Context(), in)
	if err != nil {
		http.Redirect(w, r, h.errorPath(), http.StatusFound)
		return
	}

	SetSessionCookie(w, h.Policy, res.Token)
	http.Redirect(w, r, h.Callbacks.Sanitize(res.CallbackURL), http.StatusFound)
}

// SignOut clears the session cookie and redirects.
// GET|POST /signout?callbackUrl=<url>.
func (h *BrokerHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	ClearSessionCookie(w, h.Policy)
	target := r.FormValue("callbackUrl")
	http.Redirect(w, r, h.Callbacks.Sanitize(target), http.StatusFound)
}

type sessionUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
}

type sessionStatus struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
}

// Session reports whether the caller holds a valid session. Provider tokens are never included.
// GET /api/auth/session.
func (h *BrokerHandlers) Session(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Svc.ReadSession(r.Context(), SessionToken(r, h.Policy.Name))
	if err != nil {
		if !errors.Is(err, service.ErrUnauthenticated) {
			h.logger().WarnContext(r.Context(), "session status failed", "error", err)
		}
		WriteJSON(w, http.StatusOK, sessionStatus{Authenticated: false})
		return
	}
	exp := rec.ExpiresAt
	WriteJSON(w, http.StatusOK, sessionStatus{
		Authenticated: true,
		User:          &sessionUser{ID: rec.Subject, Email: rec.Email, DisplayName: rec.DisplayName},
		ExpiresAt:     &exp,
	})
}

var errorPage = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Sign-in failed</title></head>
<body>
<h1>Sign-in failed</h1>
<p>We could not complete your sign-in. Please try again.</p>
<p><a href="{{.}}">Sign in</a></p>
</body>
</html>
`))

// ErrorPage renders a generic sign-in failure page.
// GET /error.
func (h *BrokerHandlers) ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := errorPage.Execute(w, DefaultSignInURL); err != nil {
		h.logger().WarnContext(r.Context(), "render error page", "error", err)
	}
}
