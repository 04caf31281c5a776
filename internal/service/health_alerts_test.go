package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/health"
	apperrors "github.com/HARI5KRISHNAN/darevel-sub005/internal/errors"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/mocks"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/observability/notify"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type changeRecorder struct {
	mu      sync.Mutex
	changes []notify.StatusChange
}

func (r *changeRecorder) sink() notify.Sink {
	return notify.SinkFunc(func(_ context.Context, c notify.StatusChange) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.changes = append(r.changes, c)
		return nil
	})
}

func (r *changeRecorder) take() []notify.StatusChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.changes
	r.changes = nil
	return out
}

func TestStatusChangeNotifier_Transitions(t *testing.T) {
	rec := &changeRecorder{}
	n := NewStatusChangeNotifier(StatusChangeNotifierOptions{
		Sinks:  []notify.Sink{rec.sink()},
		Logger: discardLogger(),
	})
	docs := health.Endpoint{Name: "docs", URL: "http://docs/health"}
	mail := health.Endpoint{Name: "mail", URL: "http://mail/health"}
	probeErr := apperrors.Wrap(errors.New("refused"), apperrors.ErrCodeProbeConnection, "probe")

	cycle := func(docsUp, mailUp bool) []notify.StatusChange {
		for _, p := range []struct {
			ep health.Endpoint
			up bool
		}{{docs, docsUp}, {mail, mailUp}} {
			if p.up {
				n.ObserveProbe(health.Online(p.ep, time.Millisecond), nil)
			} else {
				n.ObserveProbe(health.Offline(p.ep), probeErr)
			}
		}
		n.ObserveCycle(time.Millisecond, time.Now())
		n.Wait()
		return rec.take()
	}

	// first sighting: only the offline app alerts
	got := cycle(true, false)
	require.Len(t, got, 1)
	assert.Equal(t, "mail", got[0].App)
	assert.Equal(t, health.Status(""), got[0].From)
	assert.Equal(t, health.StatusOffline, got[0].To)
	assert.Equal(t, string(apperrors.ErrCodeProbeConnection), got[0].ErrorClass)

	assert.Empty(t, cycle(true, false), "steady state must not alert")

	got = cycle(false, true)
	require.Len(t, got, 2)
	assert.Equal(t, "docs", got[0].App)
	assert.Equal(t, health.StatusOffline, got[0].To)
	assert.Equal(t, "mail", got[1].App)
	assert.True(t, got[1].Recovered())
}

func TestStatusChangeNotifier_IgnoresCancelledProbes(t *testing.T) {
	rec := &changeRecorder{}
	n := NewStatusChangeNotifier(StatusChangeNotifierOptions{Sinks: []notify.Sink{rec.sink()}, Logger: discardLogger()})
	ep := health.Endpoint{Name: "docs", URL: "http://docs/health"}

	n.ObserveProbe(health.Online(ep, time.Millisecond), nil)
	n.ObserveProbe(health.Offline(ep), apperrors.Wrap(context.Canceled, apperrors.ErrCodeProbeTimeout, "probe"))
	n.ObserveCycle(0, time.Now())
	n.Wait()
	assert.Empty(t, rec.take())
}

func TestStatusChangeNotifier_SinkFailureDoesNotStopOthers(t *testing.T) {
	rec := &changeRecorder{}
	failing := notify.SinkFunc(func(context.Context, notify.StatusChange) error { return errors.New("webhook down") })
	n := NewStatusChangeNotifier(StatusChangeNotifierOptions{
		Sinks:  []notify.Sink{failing, rec.sink()},
		Logger: discardLogger(),
	})
	n.ObserveProbe(health.Offline(health.Endpoint{Name: "mail"}), errors.New("x"))
	n.ObserveCycle(0, time.Now())
	n.Wait()
	assert.Len(t, rec.take(), 1)
}

func TestHealthAggregator_WithNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ep health.Endpoint) (time.Duration, error) {
			if ep.Name == "mail" {
				return 0, apperrors.Wrap(errors.New("503"), apperrors.ErrCodeProbeConnection, "probe")
			}
			return 5 * time.Millisecond, nil
		}).Times(len(fleet))

	rec := &changeRecorder{}
	notifier := NewStatusChangeNotifier(StatusChangeNotifierOptions{Sinks: []notify.Sink{rec.sink()}, Logger: discardLogger()})
	observer := &recordingObserver{}

	agg, err := NewHealthAggregator(HealthAggregatorOptions{
		Endpoints: fleet,
		Prober:    prober,
		Observer:  Observers{observer, notifier},
		Logger:    discardLogger(),
	})
	require.NoError(t, err)

	agg.Cycle(context.Background())
	notifier.Wait()

	changes := rec.take()
	require.Len(t, changes, 1)
	assert.Equal(t, "mail", changes[0].App)
	assert.Equal(t, 1, observer.cycles)
}
