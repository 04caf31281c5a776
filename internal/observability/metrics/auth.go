// Package metrics holds the StatsD emitters for sign-in, session verification, and token refresh.
package metrics

import (
	"time"

	obserrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
	ResultSkipped = "skipped"
)

// Sign-in stages.
const (
	StageInitiate = "initiate"
	StageComplete = "complete"
)

// SignInMetric describes one broker sign-in step.
type SignInMetric struct {
	Stage    string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitSignIn emits broker sign-in outcome metrics.
func EmitSignIn(sink statsd.Sink, in SignInMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"stage":  in.Stage,
		"result": in.Result,
	}
	addErrorClass(tags, in.Result, in.Err)

	sink.Count("auth.signin", 1, tags)
	if in.Duration > 0 {
		sink.Timing("auth.signin_duration", in.Duration, CloneTags(tags))
	}
}

// EmitSessionCheck counts session verifications by component ("broker" or "guard").
func EmitSessionCheck(sink statsd.Sink, component string, err error) {
	if sink == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	tags := map[string]string{"component": component, "result": result}
	addErrorClass(tags, result, err)
	sink.Count("auth.session_check", 1, tags)
}

// RefreshMetric describes one refresh-loop tick.
type RefreshMetric struct {
	Result   string
	Duration time.Duration
	Err      error
}

// EmitRefreshTick emits refresh-loop tick metrics.
func EmitRefreshTick(sink statsd.Sink, in RefreshMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": in.Result}
	addErrorClass(tags, in.Result, in.Err)

	sink.Count("refresh.tick", 1, tags)
	if in.Duration > 0 {
		sink.Timing("refresh.duration", in.Duration, CloneTags(tags))
	}
	if in.Result == ResultSuccess {
		sink.Gauge("refresh.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

func addErrorClass(tags map[string]string, result string, err error) {
	if err == nil || result != ResultError {
		return
	}
	if class := obserrors.Classify(err); class != "" {
		tags["error_class"] = class
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
