package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	runs    atomic.Int32
	pending atomic.Bool
	err     error
}

func (r *fakeReconciler) Reconcile(context.Context) error {
	r.runs.Add(1)
	return r.err
}

func (r *fakeReconciler) HasPending() bool {
	return r.pending.Load()
}

type fakeAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *fakeAlerter) SendAlert(_ context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
	return nil
}

func (a *fakeAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.messages)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReconciliationNextRun(t *testing.T) {
	r := &fakeReconciler{}
	job := NewReconciliation(r, 15*time.Second, 5*time.Second, 15*time.Minute)
	now := time.Unix(1700000000, 0)

	assert.Equal(t, now.Add(5*time.Second), job.NextRun(now))

	r.pending.Store(true)
	assert.Equal(t, now.Add(15*time.Second), job.NextRun(now))

	assert.Empty(t, job.RetryDelays())
	assert.Equal(t, 15*time.Minute, job.AlertCooldown())
	assert.Equal(t, "payment-reconciliation", job.Name())
}

func TestSchedulerRunsJobUntilCancelled(t *testing.T) {
	r := &fakeReconciler{}
	s := NewScheduler(testLogger(), nil)
	s.Register(NewReconciliation(r, 5*time.Millisecond, 5*time.Millisecond, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return r.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerKeepsRunningAfterFailure(t *testing.T) {
	r := &fakeReconciler{err: errors.New("reconcile: order 42-1 of user 42: order missing from ledger")}
	alerter := &fakeAlerter{}
	s := NewScheduler(testLogger(), alerter)
	s.Register(NewReconciliation(r, 5*time.Millisecond, 5*time.Millisecond, 0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	// без ретраев каждая ошибка сразу финальная и алертится
	require.Eventually(t, func() bool { return alerter.count() >= 2 }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, r.runs.Load(), int32(2))

	alerter.mu.Lock()
	assert.Contains(t, alerter.messages[0], "payment-reconciliation")
	assert.Contains(t, alerter.messages[0], "order missing from ledger")
	alerter.mu.Unlock()
}

func TestSchedulerAlertCooldown(t *testing.T) {
	r := &fakeReconciler{err: errors.New("reconcile: order 42-1 of user 42: order missing from ledger")}
	alerter := &fakeAlerter{}
	s := NewScheduler(testLogger(), alerter)
	s.Register(NewReconciliation(r, 5*time.Millisecond, 5*time.Millisecond, time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	require.Eventually(t, func() bool { return r.runs.Load() >= 5 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, alerter.count())
}

func TestAlertLimiter(t *testing.T) {
	l := &alertLimiter{cooldown: time.Minute}
	start := time.Unix(1700000000, 0)

	ok, suppressed := l.allow(start)
	assert.True(t, ok)
	assert.Zero(t, suppressed)

	ok, _ = l.allow(start.Add(15 * time.Second))
	assert.False(t, ok)
	ok, _ = l.allow(start.Add(30 * time.Second))
	assert.False(t, ok)

	ok, suppressed = l.allow(start.Add(time.Minute))
	assert.True(t, ok)
	assert.Equal(t, 2, suppressed)

	unlimited := &alertLimiter{}
	for i := 0; i < 3; i++ {
		ok, _ = unlimited.allow(start)
		assert.True(t, ok)
	}
}

func TestSendAlertMentionsSuppressed(t *testing.T) {
	alerter := &fakeAlerter{}
	s := NewScheduler(testLogger(), alerter)

	s.sendAlert(context.Background(), "payment-reconciliation", []jobAttemptError{{attempt: 1, err: errors.New("boom")}}, 7)

	require.Equal(t, 1, alerter.count())
	assert.Contains(t, alerter.messages[0], "Повторных ошибок с прошлого алерта: 7")
}

func TestSchedulerWithoutJobs(t *testing.T) {
	s := NewScheduler(testLogger(), nil)
	assert.NoError(t, s.Run(context.Background()))
}
