package metrics

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/statsd"
)

func TestEmitSignIn(t *testing.T) {
	var rec statsd.Recorder
	EmitSignIn(&rec, SignInMetric{
		Stage:    StageComplete,
		Result:   ResultError,
		Duration: 20 * time.Millisecond,
		Err:      apperrors.StateMismatch("unknown state"),
	})

	got := rec.CountWith("auth.signin", map[string]string{
		"stage":       StageComplete,
		"result":      ResultError,
		"error_class": "state_mismatch",
	})
	if got != 1 {
		t.Fatalf("auth.signin count = %d, want 1", got)
	}
	if len(rec.Find("auth.signin_duration")) != 1 {
		t.Fatal("expected a duration timing")
	}
}

func TestEmitSessionCheck(t *testing.T) {
	var rec statsd.Recorder
	EmitSessionCheck(&rec, "guard", nil)
	EmitSessionCheck(&rec, "guard", apperrors.InvalidToken(errors.New("sig")))

	if got := rec.CountWith("auth.session_check", map[string]string{"result": ResultSuccess}); got != 1 {
		t.Fatalf("success count = %d", got)
	}
	if got := rec.CountWith("auth.session_check", map[string]string{"error_class": "invalid_token"}); got != 1 {
		t.Fatalf("invalid_token count = %d", got)
	}
}

func TestEmitRefreshTick(t *testing.T) {
	var rec statsd.Recorder
	EmitRefreshTick(&rec, RefreshMetric{Result: ResultSuccess, Duration: time.Millisecond})
	EmitRefreshTick(&rec, RefreshMetric{Result: ResultSkipped})

	if got := rec.CountWith("refresh.tick", nil); got != 2 {
		t.Fatalf("refresh.tick count = %d, want 2", got)
	}
	if len(rec.Find("refresh.last_success_epoch")) != 1 {
		t.Fatal("expected last success gauge once")
	}
}

func TestEmittersTolerateNilSink(t *testing.T) {
	EmitSignIn(nil, SignInMetric{})
	EmitSessionCheck(nil, "broker", nil)
	EmitRefreshTick(nil, RefreshMetric{})
}

func TestCloneTags(t *testing.T) {
	if CloneTags(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
	src := map[string]string{"a": "1"}
	cp := CloneTags(src)
	cp["a"] = "2"
	if src["a"] != "1" {
		t.Fatal("CloneTags must copy")
	}
}
