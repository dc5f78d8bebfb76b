package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightminder-service/internal/domain/entity"
	"flightminder-service/pkg/logger"
)

// identProvider serves a canned response per flight identity, so one sweep
// over several users can mix successes and failures.
type identProvider struct {
	occurrences map[string][]entity.FlightOccurrence
	errs        map[string]error
	calls       map[string]int
}

func (p *identProvider) Lookup(ctx context.Context, ident string, start, end time.Time) ([]entity.FlightOccurrence, error) {
	p.calls[ident]++
	if err := p.errs[ident]; err != nil {
		return nil, err
	}
	return p.occurrences[ident], nil
}

func newTestWatchdog(p *identProvider, now time.Time) (*Watchdog, *ReminderScheduler) {
	scheduler := NewReminderScheduler(entity.DefaultLadder(), logger.NewNop(), nil)
	tracker := NewTracker(p, scheduler, logger.NewNop())
	tracker.now = func() time.Time { return now }
	return NewWatchdog(tracker, time.Minute, time.Second, logger.NewNop()), scheduler
}

// fireInstants reports the user's live fire instants in RFC3339, which keeps
// the assertions free of time.Time deep-equality quirks.
func fireInstants(s *ReminderScheduler, userID int64) []string {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]string, 0, len(st.jobs))
	for _, job := range st.jobs {
		out = append(out, job.fireAt.Format(time.RFC3339))
	}
	return out
}

func TestSweep_ReanchorsSlidDeparture(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Minute)
	oldDeparture := now.Add(48 * time.Hour)
	newDeparture := oldDeparture.Add(2 * time.Hour)

	provider := &identProvider{
		occurrences: map[string][]entity.FlightOccurrence{
			"BTI767": {{Ident: "BTI767", EstimatedOut: newDeparture.Format(time.RFC3339)}},
		},
		calls: map[string]int{},
	}
	w, scheduler := newTestWatchdog(provider, now)

	scheduler.Rebuild(42, "BTI767", oldDeparture, now)
	require.Equal(t, 4, scheduler.LiveJobs(42))

	w.sweep()

	// The set is rebuilt against the slid departure, not merged with the
	// old instants.
	assert.Equal(t, 4, scheduler.LiveJobs(42))
	assert.ElementsMatch(t, []string{
		newDeparture.Add(-2 * time.Hour).Format(time.RFC3339),
		newDeparture.Add(-time.Hour).Format(time.RFC3339),
		newDeparture.Add(-45 * time.Minute).Format(time.RFC3339),
		newDeparture.Add(-30 * time.Minute).Format(time.RFC3339),
	}, fireInstants(scheduler, 42))
}

func TestSweep_FailedRefreshDoesNotAbortOtherUsers(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Minute)
	departure := now.Add(48 * time.Hour)
	slid := departure.Add(time.Hour)

	provider := &identProvider{
		occurrences: map[string][]entity.FlightOccurrence{
			"BTI767": {{Ident: "BTI767", EstimatedOut: slid.Format(time.RFC3339)}},
		},
		errs:  map[string]error{"AFL100": &entity.ProviderError{StatusCode: 502, Body: "bad gateway"}},
		calls: map[string]int{},
	}
	w, scheduler := newTestWatchdog(provider, now)

	scheduler.Rebuild(1, "AFL100", departure, now)
	scheduler.Rebuild(2, "BTI767", departure, now)

	w.sweep()

	// Both users were attempted despite the first failure.
	assert.Equal(t, 1, provider.calls["AFL100"])
	assert.Equal(t, 1, provider.calls["BTI767"])

	// The failed user keeps the prior set untouched, the other re-anchors.
	assert.Equal(t, 4, scheduler.LiveJobs(1))
	assert.Contains(t, fireInstants(scheduler, 1), departure.Add(-2*time.Hour).Format(time.RFC3339))
	assert.Contains(t, fireInstants(scheduler, 2), slid.Add(-2*time.Hour).Format(time.RFC3339))
}

func TestSweep_SkipsUsersWithoutLiveJobs(t *testing.T) {
	now := time.Now().UTC()
	provider := &identProvider{calls: map[string]int{}}
	w, scheduler := newTestWatchdog(provider, now)

	// Identity without jobs: remembered for manual refresh, not swept.
	scheduler.Remember(7, "BTI767")

	w.sweep()
	assert.Empty(t, provider.calls)
}

func TestWatchdog_StartStop(t *testing.T) {
	provider := &identProvider{calls: map[string]int{}}
	w, _ := newTestWatchdog(provider, time.Now().UTC())

	// Start registers the @every spec with cron; a bad interval format
	// would surface here. Stop drains cleanly with no sweep in flight.
	require.NoError(t, w.Start())
	w.Stop()
}
