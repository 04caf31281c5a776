package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/metrics"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/statsd"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/ports"
)

// ErrUnauthenticated is the only error ReadSession returns.
// Absent, malformed, tampered, and expired tokens are indistinguishable to callers.
var ErrUnauthenticated = errors.New("unauthenticated")

// DefaultPendingTTL bounds how long a sign-in may stay in the pending state.
const DefaultPendingTTL = 10 * time.Minute

// SessionBrokerOptions groups dependencies for SessionBroker.
type SessionBrokerOptions struct {
	Provider ports.IdentityProvider
	Pending  ports.PendingStore
	Codec    ports.SessionCodec

	// RedirectURL is our callback endpoint as registered with the provider.
	RedirectURL string
	SessionTTL  time.Duration
	PendingTTL  time.Duration
	// OmitProviderTokens keeps provider tokens out of the session record to stay under cookie size limits.
	OmitProviderTokens bool

	Metrics statsd.Sink
	Logger  *slog.Logger
	Now     func() time.Time
	NewID   func() string
}

// SessionBroker turns a completed provider sign-in into a signed session record.
type SessionBroker struct {
	provider    ports.IdentityProvider
	pending     ports.PendingStore
	codec       ports.SessionCodec
	redirectURL string
	sessionTTL  time.Duration
	pendingTTL  time.Duration
	omitTokens  bool
	metrics     statsd.Sink
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
	verifier    *SessionVerifier
}

// NewSessionBroker constructs a SessionBroker.
func NewSessionBroker(opts SessionBrokerOptions) (*SessionBroker, error) {
	if opts.Provider == nil || opts.Pending == nil || opts.Codec == nil {
		return nil, errors.New("provider, pending store, and codec are required")
	}
	if opts.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if opts.SessionTTL < time.Second {
		return nil, errors.New("session TTL must be at least one second")
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = DefaultPendingTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	verifier, err := NewSessionVerifier(SessionVerifierOptions{
		Codec:     opts.Codec,
		Component: "broker",
		Metrics:   opts.Metrics,
		Logger:    opts.Logger,
		Now:       opts.Now,
	})
	if err != nil {
		return nil, err
	}
	return &SessionBroker{
		verifier:    verifier,
		provider:    opts.Provider,
		pending:     opts.Pending,
		codec:       opts.Codec,
		redirectURL: opts.RedirectURL,
		sessionTTL:  opts.SessionTTL,
		pendingTTL:  opts.PendingTTL,
		omitTokens:  opts.OmitProviderTokens,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		now:         opts.Now,
		newID:       opts.NewID,
	}, nil
}

// InitiateResult carries what the HTTP layer needs to redirect and bind the browser.
type InitiateResult struct {
	AuthURL string
	State   string
}

// InitiateSignIn records a pending sign-in and returns the provider authorization URL.
// callbackURL must already be validated by the caller.
func (s *SessionBroker) InitiateSignIn(ctx context.Context, callbackURL string) (*InitiateResult, error) {
	start := s.now()
	res, err := s.initiate(ctx, callbackURL)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.EmitSignIn(s.metrics, metrics.SignInMetric{
		Stage:    metrics.StageInitiate,
		Result:   result,
		Duration: s.now().Sub(start),
		Err:      err,
	})
	return res, err
}

func (s *SessionBroker) initiate(ctx context.Context, callbackURL string) (*InitiateResult, error) {
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: s.redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	if state == "" {
		return nil, apperrors.Internal("provider returned an empty state")
	}

	p := domainauth.PendingSignIn{
		State:       state,
		Nonce:       nonce,
		CallbackURL: callbackURL,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.pending.Save(ctx, p, s.pendingTTL); err != nil {
		return nil, fmt.Errorf("save pending sign-in: %w", err)
	}
	return &InitiateResult{AuthURL: authURL, State: state}, nil
}

// CompleteInput groups the callback parameters.
type CompleteInput struct {
	Code  string
	State string
	// BoundState is the state the browser carried in its binding cookie.
	BoundState string
}

// CompleteResult is a minted session ready to be set as a cookie.
type CompleteResult struct {
	Record      domainauth.SessionRecord
	Token       string
	CallbackURL string
}

// CompleteSignIn consumes the pending state, exchanges the code, and mints a session.
// It fails with a StateMismatch or ProviderExchange error; the pending state is consumed either way.
func (s *SessionBroker) CompleteSignIn(ctx context.Context, in CompleteInput) (*CompleteResult, error) {
	start := s.now()
	res, err := s.complete(ctx, in)

	result := metrics.ResultSuccess
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "sign-in completed",
			"event", "signin_completed",
			"session_id", res.Record.ID,
			"subject", res.Record.Subject)
	case apperrors.IsStateMismatch(err):
		result = metrics.ResultError
		s.logger.WarnContext(ctx, "sign-in callback rejected", "event", "state_mismatch", "error", err)
	case apperrors.IsProviderExchange(err):
		result = metrics.ResultError
		s.logger.WarnContext(ctx, "provider rejected code exchange", "event", "provider_exchange_failed", "error", err)
	default:
		result = metrics.ResultError
		s.logger.ErrorContext(ctx, "sign-in failed", "event", "signin_failed", "error", err)
	}
	metrics.EmitSignIn(s.metrics, metrics.SignInMetric{
		Stage:    metrics.StageComplete,
		Result:   result,
		Duration: s.now().Sub(start),
		Err:      err,
	})
	return res, err
}

func (s *SessionBroker) complete(ctx context.Context, in CompleteInput) (*CompleteResult, error) {
	if in.Code == "" || in.State == "" {
		return nil, apperrors.StateMismatch("missing code or state")
	}

	p, err := s.pending.Take(ctx, in.State)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.StateMismatch("unknown, expired, or already used state")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load pending sign-in")
	}
	if subtle.ConstantTimeCompare([]byte(in.BoundState), []byte(in.State)) != 1 {
		return nil, apperrors.StateMismatch("state not bound to this browser")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: in.Code, State: in.State, Nonce: p.Nonce})
	if err != nil {
		return nil, apperrors.ProviderExchange(err)
	}

	rec := s.mint(identity)
	token, err := s.codec.Encode(rec)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode session")
	}
	return &CompleteResult{Record: rec, Token: token, CallbackURL: p.CallbackURL}, nil
}

// mint builds the session record. Times are UTC whole seconds so they survive the token round trip.
func (s *SessionBroker) mint(id domainauth.Identity) domainauth.SessionRecord {
	issued := s.now().UTC().Truncate(time.Second)
	rec := domainauth.SessionRecord{
		ID:          s.newID(),
		Subject:     id.Subject,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(s.sessionTTL.Truncate(time.Second)),
	}
	if !s.omitTokens {
		rec.AccessToken = id.Tokens.AccessToken
		rec.RefreshToken = id.Tokens.RefreshToken
		rec.IDToken = id.Tokens.IDToken
	}
	return rec
}

// ReadSession verifies token and returns its record, or ErrUnauthenticated for any failure.
func (s *SessionBroker) ReadSession(ctx context.Context, token string) (domainauth.SessionRecord, error) {
	return s.verifier.ReadSession(ctx, token)
}

// SessionTTL reports the lifetime given to minted sessions.
func (s *SessionBroker) SessionTTL() time.Duration { return s.sessionTTL }
