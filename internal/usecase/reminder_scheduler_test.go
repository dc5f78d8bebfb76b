package usecase

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightminder-service/internal/domain/entity"
	"flightminder-service/pkg/logger"
)

// deliveries implements repository.MessageSender and records every send the
// scheduler fires, for assertions.
type deliveries struct {
	mu    sync.Mutex
	sent  []string
	users []int64
	fail  bool
}

func (d *deliveries) SendText(userID int64, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return errors.New("transport down")
	}
	d.users = append(d.users, userID)
	d.sent = append(d.sent, text)
	return nil
}

func (d *deliveries) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

func newTestScheduler(d *deliveries) *ReminderScheduler {
	s := NewReminderScheduler(entity.DefaultLadder(), logger.NewNop(), nil)
	if d != nil {
		s.SetSender(d)
	}
	return s
}

func TestRebuild_InstallsAllFutureRungs(t *testing.T) {
	s := newTestScheduler(nil)

	// Reference scenario: departure 2025-12-18T05:00Z, rebuilt a full day
	// ahead. Every rung (2h/1h/45m/30m) lands after now.
	departure := time.Date(2025, 12, 18, 5, 0, 0, 0, time.UTC)
	now := time.Date(2025, 12, 17, 0, 0, 0, 0, time.UTC)

	installed := s.Rebuild(42, "BTI767", departure, now)
	assert.Equal(t, 4, installed)
}

func TestRebuild_SkipsElapsedRungs(t *testing.T) {
	s := newTestScheduler(nil)

	// Same flight, rebuilt at 04:15. The 2h (03:00) and 1h (04:00) rungs
	// are past, the 45m rung lands exactly on now and is skipped (strictly
	// future only), leaving just the 30-minute reminder at 04:30.
	departure := time.Date(2025, 12, 18, 5, 0, 0, 0, time.UTC)
	now := time.Date(2025, 12, 18, 4, 15, 0, 0, time.UTC)

	installed := s.Rebuild(42, "BTI767", departure, now)
	assert.Equal(t, 1, installed)
}

func TestRebuild_NeverInstallsPastJobs(t *testing.T) {
	s := newTestScheduler(nil)

	departure := time.Date(2025, 12, 18, 5, 0, 0, 0, time.UTC)
	now := departure.Add(time.Hour) // already departed

	assert.Equal(t, 0, s.Rebuild(42, "BTI767", departure, now))
	assert.Equal(t, 0, s.LiveJobs(42))
}

func TestRebuild_ReplacesPreviousSet(t *testing.T) {
	s := newTestScheduler(nil)
	now := time.Now().UTC()

	first := now.Add(48 * time.Hour)
	s.Rebuild(42, "BTI767", first, now)
	require.Equal(t, 4, s.LiveJobs(42))

	// Departure slid by two hours: the old set must be fully torn down,
	// not merged with the new one.
	s.Rebuild(42, "BTI767", first.Add(2*time.Hour), now)
	assert.Equal(t, 4, s.LiveJobs(42))
}

func TestRebuild_IdempotentForUnchangedInputs(t *testing.T) {
	s := newTestScheduler(nil)
	now := time.Now().UTC()
	departure := now.Add(48 * time.Hour)

	s.Rebuild(42, "BTI767", departure, now)
	s.Rebuild(42, "BTI767", departure, now)
	assert.Equal(t, 4, s.LiveJobs(42))
}

func TestCancelAll_Idempotent(t *testing.T) {
	s := newTestScheduler(nil)
	now := time.Now().UTC()

	s.Rebuild(42, "BTI767", now.Add(48*time.Hour), now)
	require.Equal(t, 4, s.LiveJobs(42))

	s.CancelAll(42)
	assert.Equal(t, 0, s.LiveJobs(42))

	// Second cancel and cancel of an unknown user are both no-ops.
	s.CancelAll(42)
	s.CancelAll(99)
	assert.Equal(t, 0, s.LiveJobs(42))
	assert.Equal(t, 0, s.LiveJobs(99))
}

func TestUsersAreIndependent(t *testing.T) {
	s := newTestScheduler(nil)
	now := time.Now().UTC()
	departure := now.Add(48 * time.Hour)

	s.Rebuild(1, "BTI767", departure, now)
	s.Rebuild(2, "AFL100", departure, now)

	s.CancelAll(1)
	assert.Equal(t, 0, s.LiveJobs(1))
	assert.Equal(t, 4, s.LiveJobs(2))
}

func TestFire_DeliversOnceAndConsumesJob(t *testing.T) {
	d := &deliveries{}
	s := newTestScheduler(d)

	// A departure in the past relative to the wall clock makes every
	// installed timer fire immediately.
	departure := time.Date(2025, 12, 18, 5, 0, 0, 0, time.UTC)
	now := time.Date(2025, 12, 17, 0, 0, 0, 0, time.UTC)

	installed := s.Rebuild(7, "BTI767", departure, now)
	require.Equal(t, 4, installed)

	require.Eventually(t, func() bool { return d.count() == 4 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, s.LiveJobs(7))

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, userID := range d.users {
		assert.Equal(t, int64(7), userID)
	}
	for _, text := range d.sent {
		assert.Contains(t, text, "Flight BTI767")
		assert.Contains(t, text, "UTC")
	}
}

func TestFire_DeliveryFailureConsumesJob(t *testing.T) {
	d := &deliveries{fail: true}
	s := newTestScheduler(d)

	departure := time.Date(2025, 12, 18, 5, 0, 0, 0, time.UTC)
	now := time.Date(2025, 12, 18, 4, 15, 0, 0, time.UTC)

	require.Equal(t, 1, s.Rebuild(7, "BTI767", departure, now))

	// At-most-once: the failed job is consumed, never re-armed.
	require.Eventually(t, func() bool { return s.LiveJobs(7) == 0 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, d.count())
}

func TestLastIdentity(t *testing.T) {
	s := newTestScheduler(nil)

	_, ok := s.LastIdentity(42)
	assert.False(t, ok)

	s.Remember(42, "BTI767")
	ident, ok := s.LastIdentity(42)
	require.True(t, ok)
	assert.Equal(t, "BTI767", ident)

	// CancelAll keeps the identity so a later refresh still works.
	now := time.Now().UTC()
	s.Rebuild(42, "BTI768", now.Add(48*time.Hour), now)
	s.CancelAll(42)
	ident, ok = s.LastIdentity(42)
	require.True(t, ok)
	assert.Equal(t, "BTI768", ident)
}

func TestTracked_OnlyUsersWithLiveJobs(t *testing.T) {
	s := newTestScheduler(nil)
	now := time.Now().UTC()

	s.Rebuild(1, "BTI767", now.Add(48*time.Hour), now)
	s.Remember(2, "AFL100") // identity but no jobs

	tracked := s.Tracked()
	assert.Equal(t, map[int64]string{1: "BTI767"}, tracked)

	s.CancelAll(1)
	assert.Empty(t, s.Tracked())
}

func TestConcurrentRebuildAndCancel(t *testing.T) {
	s := newTestScheduler(nil)
	now := time.Now().UTC()
	departure := now.Add(48 * time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Rebuild(42, "BTI767", departure, now)
		}()
		go func() {
			defer wg.Done()
			s.CancelAll(42)
		}()
	}
	wg.Wait()

	// Whatever interleaving happened, the user ends with exactly one
	// consistent job set: empty or a full ladder.
	n := s.LiveJobs(42)
	assert.True(t, n == 0 || n == 4, "live jobs = %d", n)
}
