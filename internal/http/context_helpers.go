package httpx

import (
	"context"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.SessionRecord) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the verified session placed by the Guard, if any.
// It is only populated when the Guard runs in verify mode.
func SessionFromContext(ctx context.Context) (*domainauth.SessionRecord, bool) {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.SessionRecord); ok && s != nil {
		return s, true
	}
	return nil, false
}
