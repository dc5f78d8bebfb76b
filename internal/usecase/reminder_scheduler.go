package usecase

import (
	"fmt"
	"sync"
	"time"

	"flightminder-service/internal/domain/entity"
	"flightminder-service/internal/domain/repository"
	"flightminder-service/pkg/logger"
	"flightminder-service/pkg/metrics"
	"flightminder-service/templates"
)

// ReminderScheduler owns every user's set of future-firing reminder jobs.
// State is in-memory only; a restart forgets everything, which is accepted.
//
// Locking: the scheduler mutex only fetches or creates the per-user entry
// and is never held across timer work. Each entry has its own mutex held for
// the full duration of Rebuild/CancelAll, so operations on one user are
// serialized while independent users never block each other.
type ReminderScheduler struct {
	mu    sync.Mutex
	users map[int64]*userState

	ladder  []entity.ReminderRule
	sender  repository.MessageSender
	logger  logger.Logger
	metrics *metrics.Metrics
}

// userState is the per-user live job set plus the last stable flight
// identity, kept so "refresh" works without re-entering designator and date.
type userState struct {
	mu        sync.Mutex
	jobs      map[string]*scheduledJob
	lastIdent string
}

type scheduledJob struct {
	id     string
	userID int64
	ident  string
	fireAt time.Time
	text   string
	timer  *time.Timer
}

// NewReminderScheduler creates a scheduler with the given ladder. The
// outbound transport is attached later via SetSender; jobs firing before
// that are dropped with a warning.
func NewReminderScheduler(ladder []entity.ReminderRule, log logger.Logger, m *metrics.Metrics) *ReminderScheduler {
	return &ReminderScheduler{
		users:   make(map[int64]*userState),
		ladder:  ladder,
		logger:  log,
		metrics: m,
	}
}

// SetSender attaches the outbound transport. Called once during wiring,
// before any job can fire. Delivery failures are logged and counted but
// never retried: at-most-once, not at-least-once.
func (s *ReminderScheduler) SetSender(sender repository.MessageSender) {
	s.sender = sender
}

// Rebuild atomically replaces the user's reminder set: the previous set is
// torn down first, then one job per ladder rung whose fire instant is
// strictly after now is installed. Job IDs derive from (user, identity,
// fire instant), so re-running an unchanged rebuild replaces rather than
// duplicates. Returns the number of live jobs installed.
func (s *ReminderScheduler) Rebuild(userID int64, ident string, departure, now time.Time) int {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()

	s.cancelLocked(st)
	st.lastIdent = ident

	for _, rule := range s.ladder {
		fireAt := departure.Add(-rule.Lead).UTC()
		if !fireAt.After(now) {
			// Already in the past relative to scheduling time. Never
			// fire retroactively.
			continue
		}

		job := &scheduledJob{
			id:     jobID(userID, ident, fireAt),
			userID: userID,
			ident:  ident,
			fireAt: fireAt,
			text:   templates.ReminderText(rule.Label, ident, fireAt),
		}
		st.jobs[job.id] = job
		job.timer = time.AfterFunc(time.Until(fireAt), func() { s.fire(st, job) })

		if s.metrics != nil {
			s.metrics.RemindersScheduled.Inc()
		}
		s.logger.Info("Reminder scheduled",
			"userId", userID,
			"ident", ident,
			"fireAt", fireAt,
			"label", rule.Label)
	}

	return len(st.jobs)
}

// CancelAll removes every live job for the user. Idempotent: jobs that
// already fired or a user with no jobs are a no-op. A job whose delivery has
// already begun completes delivery.
func (s *ReminderScheduler) CancelAll(userID int64) {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	s.cancelLocked(st)
}

// Remember records the user's last stable flight identity without touching
// the job set. Used when a flight is shown but no departure time is known
// yet, so a later refresh can still re-query it.
func (s *ReminderScheduler) Remember(userID int64, ident string) {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.lastIdent = ident
}

// LastIdentity returns the user's last stable flight identity.
func (s *ReminderScheduler) LastIdentity(userID int64) (string, bool) {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lastIdent, st.lastIdent != ""
}

// LiveJobs returns the number of live jobs for the user.
func (s *ReminderScheduler) LiveJobs(userID int64) int {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.jobs)
}

// Tracked returns a snapshot of users with at least one live job, mapped to
// their flight identity. Consumed by the watchdog sweep.
func (s *ReminderScheduler) Tracked() map[int64]string {
	s.mu.Lock()
	users := make([]*userState, 0, len(s.users))
	ids := make([]int64, 0, len(s.users))
	for id, st := range s.users {
		users = append(users, st)
		ids = append(ids, id)
	}
	s.mu.Unlock()

	tracked := make(map[int64]string)
	for i, st := range users {
		st.mu.Lock()
		if len(st.jobs) > 0 && st.lastIdent != "" {
			tracked[ids[i]] = st.lastIdent
		}
		st.mu.Unlock()
	}
	return tracked
}

// state fetches or creates the per-user entry. The scheduler mutex is held
// only for the map access.
func (s *ReminderScheduler) state(userID int64) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.users[userID]
	if !ok {
		st = &userState{jobs: make(map[string]*scheduledJob)}
		s.users[userID] = st
	}
	return st
}

// cancelLocked tears down every job in the set. Caller holds st.mu.
// Stop on an already-fired timer returns false and is harmless: the fire
// callback re-checks membership before delivering.
func (s *ReminderScheduler) cancelLocked(st *userState) {
	for id, job := range st.jobs {
		job.timer.Stop()
		delete(st.jobs, id)
		if s.metrics != nil {
			s.metrics.RemindersCanceled.Inc()
		}
	}
}

// fire runs on the timer goroutine at the job's fire instant. The job is
// removed from the live set under the user lock (one-shot), then delivered
// outside any lock. Losing the removal race to a concurrent CancelAll means
// delivery never began and the job stays silent.
func (s *ReminderScheduler) fire(st *userState, job *scheduledJob) {
	st.mu.Lock()
	if _, live := st.jobs[job.id]; !live {
		st.mu.Unlock()
		return
	}
	delete(st.jobs, job.id)
	st.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RemindersFired.Inc()
	}

	if s.sender == nil {
		s.logger.Warn("Reminder fired with no sender attached", "jobId", job.id)
		return
	}
	if err := s.sender.SendText(job.userID, job.text); err != nil {
		// The job is consumed regardless: no retry, no re-arm.
		s.logger.Error("Failed to deliver reminder",
			"userId", job.userID,
			"ident", job.ident,
			"error", err)
		if s.metrics != nil {
			s.metrics.DeliveryFailures.Inc()
		}
		return
	}
	s.logger.Info("Reminder delivered", "userId", job.userID, "ident", job.ident, "fireAt", job.fireAt)
}

func jobID(userID int64, ident string, fireAt time.Time) string {
	return fmt.Sprintf("%d:%s:%d", userID, ident, fireAt.Unix())
}
