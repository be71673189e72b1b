package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ruteri/medusa-provisioning/api/clients"
	"github.com/ruteri/medusa-provisioning/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type pollResult struct {
	attempts int
	err      error
}

// advanceUntil moves the mock clock forward in steps until done is closed.
func advanceUntil(t *testing.T, mock *clock.Mock, step time.Duration, done <-chan struct{}) {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case <-done:
			return
		case <-timeout:
			t.Fatal("timed out advancing mock clock")
		default:
			mock.Add(step)
		}
	}
}

func startPoll(ctx context.Context, poller *HealthPoller) (<-chan struct{}, *pollResult) {
	done := make(chan struct{})
	res := &pollResult{}
	go func() {
		defer close(done)
		res.attempts, res.err = poller.WaitHealthy(ctx)
	}()
	return done, res
}

func TestWaitHealthy_HealthyOnSixthAttempt(t *testing.T) {
	backend := clients.NewMockBackend("a@b.c", "pw")
	backend.HealthyAfter = 5
	defer backend.Close()

	mock := clock.NewMock()
	poller := NewHealthPoller(clients.NewAdminClient(backend.URL(), nil), mock, DefaultPollInterval, DefaultMaxHealthAttempts, discardLogger)

	done, res := startPoll(context.Background(), poller)
	advanceUntil(t, mock, DefaultPollInterval, done)

	require.NoError(t, res.err)
	assert.Equal(t, 6, res.attempts)
	assert.EqualValues(t, 6, backend.HealthChecks.Load())
}

func TestWaitHealthy_ExhaustsRetryBudget(t *testing.T) {
	backend := clients.NewMockBackend("a@b.c", "pw")
	backend.HealthyAfter = -1
	defer backend.Close()

	mock := clock.NewMock()
	poller := NewHealthPoller(clients.NewAdminClient(backend.URL(), nil), mock, DefaultPollInterval, DefaultMaxHealthAttempts, discardLogger)

	done, res := startPoll(context.Background(), poller)
	advanceUntil(t, mock, DefaultPollInterval, done)

	require.ErrorIs(t, res.err, interfaces.ErrHealthTimeout)
	assert.Equal(t, 30, res.attempts)
	assert.EqualValues(t, 30, backend.HealthChecks.Load())
}

func TestWaitHealthy_UnreachableCountsAsAttempt(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var seen []int
	mock := clock.NewMock()
	poller := NewHealthPoller(clients.NewAdminClient(url, nil), mock, time.Second, 3, discardLogger)
	poller.OnAttempt = func(attempt int) { seen = append(seen, attempt) }

	done, res := startPoll(context.Background(), poller)
	advanceUntil(t, mock, time.Second, done)

	require.ErrorIs(t, res.err, interfaces.ErrHealthTimeout)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestWaitHealthy_Cancelled(t *testing.T) {
	backend := clients.NewMockBackend("a@b.c", "pw")
	backend.HealthyAfter = -1
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	mock := clock.NewMock()
	poller := NewHealthPoller(clients.NewAdminClient(backend.URL(), nil), mock, DefaultPollInterval, DefaultMaxHealthAttempts, discardLogger)

	done, res := startPoll(ctx, poller)
	require.Eventually(t, func() bool { return backend.HealthChecks.Load() == 1 }, 5*time.Second, time.Millisecond)
	cancel()
	<-done

	require.ErrorIs(t, res.err, context.Canceled)
	assert.Equal(t, 1, res.attempts)
}
