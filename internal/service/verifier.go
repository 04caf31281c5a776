package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/metrics"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/statsd"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

// SessionVerifierOptions groups dependencies for SessionVerifier.
type SessionVerifierOptions struct {
	Codec ports.SessionCodec
	// Component tags metrics, e.g. "broker" or "guard".
	Component string
	Metrics   statsd.Sink
	Logger    *slog.Logger
	Now       func() time.Time
}

// SessionVerifier decodes session tokens for any app holding the codec keys.
type SessionVerifier struct {
	codec     ports.SessionCodec
	component string
	metrics   statsd.Sink
	logger    *slog.Logger
	now       func() time.Time
}

// NewSessionVerifier constructs a SessionVerifier.
func NewSessionVerifier(opts SessionVerifierOptions) (*SessionVerifier, error) {
	if opts.Codec == nil {
		return nil, errors.New("codec is required")
	}
	if opts.Component == "" {
		opts.Component = "guard"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionVerifier{
		codec:     opts.Codec,
		component: opts.Component,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		now:       opts.Now,
	}, nil
}

// ReadSession verifies token and returns its record, or ErrUnauthenticated for any failure.
// It has no side effects beyond metrics and debug logs.
func (v *SessionVerifier) ReadSession(ctx context.Context, token string) (domainauth.SessionRecord, error) {
	rec, err := v.read(token)
	metrics.EmitSessionCheck(v.metrics, v.component, err)
	if err != nil {
		v.logger.DebugContext(ctx, "session rejected", "component", v.component, "error", err)
		return domainauth.SessionRecord{}, ErrUnauthenticated
	}
	return rec, nil
}

func (v *SessionVerifier) read(token string) (domainauth.SessionRecord, error) {
	if token == "" {
		return domainauth.SessionRecord{}, apperrors.InvalidToken(errors.New("absent"))
	}
	rec, err := v.codec.Decode(token)
	if err != nil {
		return domainauth.SessionRecord{}, apperrors.InvalidToken(err)
	}
	if rec.Expired(v.now()) {
		return domainauth.SessionRecord{}, apperrors.InvalidToken(errors.New("expired"))
	}
	return rec, nil
}
