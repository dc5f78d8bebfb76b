package usecase

import (
	"context"
	"errors"
	"time"

	"flightminder-service/internal/domain/entity"
	"flightminder-service/internal/domain/repository"
	"flightminder-service/pkg/logger"
)

// Window-selection policy. An initial lookup by designator and date spans
// 12h before to 36h after the date's 00:00 UTC anchor (a 48h window keeps
// the provider happy); a refresh by stable identity spans 24h around now.
const (
	lookupWindowBefore = 12 * time.Hour
	lookupWindowAfter  = 36 * time.Hour
	refreshWindow      = 24 * time.Hour
)

var (
	// ErrNoOccurrence means the provider returned nothing usable for the
	// window: either no flights at all or none with an out time to match
	// against the date. Recoverable: the user restarts the flow.
	ErrNoOccurrence = errors.New("no flight occurrence matched")
	// ErrNotTracked means a refresh was requested before any flight was
	// looked up.
	ErrNotTracked = errors.New("no tracked flight for user")
)

// TrackResult is what a successful lookup produces: the chosen occurrence,
// its stable identity and how many reminders were installed.
type TrackResult struct {
	Occurrence *entity.FlightOccurrence
	Identity   string
	// DepartureKnown is false when no fidelity tier yielded a departure
	// instant; the card is still shown but reminders are unavailable.
	DepartureKnown bool
	Departure      time.Time
	Reminders      int
}

// Tracker orchestrates one user's flow: provider lookup, occurrence
// selection, departure resolution and reminder rebuild.
type Tracker struct {
	provider  repository.FlightProvider
	scheduler *ReminderScheduler
	logger    logger.Logger

	now func() time.Time
}

// NewTracker creates a new tracker
func NewTracker(provider repository.FlightProvider, scheduler *ReminderScheduler, log logger.Logger) *Tracker {
	return &Tracker{
		provider:  provider,
		scheduler: scheduler,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Track looks up the designator around the target date, selects the best
// occurrence and rebuilds the user's reminder set. The returned result is
// valid even when DepartureKnown is false.
func (t *Tracker) Track(ctx context.Context, userID int64, designator string, date time.Time) (*TrackResult, error) {
	start := date.Add(-lookupWindowBefore)
	end := date.Add(lookupWindowAfter)

	occurrences, err := t.provider.Lookup(ctx, designator, start, end)
	if err != nil {
		return nil, err
	}

	occ := SelectOccurrence(occurrences, date)
	if occ == nil {
		return nil, ErrNoOccurrence
	}

	ident := occ.StableIdentity()
	if ident == "" {
		ident = designator
	}

	return t.rebuild(userID, ident, occ), nil
}

// Refresh re-queries the user's last tracked flight by stable identity in a
// window around now and rebuilds the reminders from fresh data. The identity
// already pins the flight, so the provider's first occurrence is taken as is.
func (t *Tracker) Refresh(ctx context.Context, userID int64) (*TrackResult, error) {
	ident, ok := t.scheduler.LastIdentity(userID)
	if !ok {
		return nil, ErrNotTracked
	}

	now := t.now()
	occurrences, err := t.provider.Lookup(ctx, ident, now.Add(-refreshWindow), now.Add(refreshWindow))
	if err != nil {
		return nil, err
	}
	if len(occurrences) == 0 {
		return nil, ErrNoOccurrence
	}

	return t.rebuild(userID, ident, &occurrences[0]), nil
}

// Stop cancels every live reminder for the user. The last identity is kept
// so a later refresh still works.
func (t *Tracker) Stop(userID int64) {
	t.scheduler.CancelAll(userID)
	t.logger.Info("Reminders stopped", "userId", userID)
}

func (t *Tracker) rebuild(userID int64, ident string, occ *entity.FlightOccurrence) *TrackResult {
	res := &TrackResult{Occurrence: occ, Identity: ident}

	departure, ok := ResolveDepartureInstant(occ)
	if !ok {
		// Identity is still recorded so a refresh can pick the flight
		// up once the provider reports a departure time.
		t.scheduler.Remember(userID, ident)
		t.logger.Warn("No departure time at any fidelity tier", "userId", userID, "ident", ident)
		return res
	}

	res.DepartureKnown = true
	res.Departure = departure
	res.Reminders = t.scheduler.Rebuild(userID, ident, departure, t.now())

	t.logger.Info("Reminder set rebuilt",
		"userId", userID,
		"ident", ident,
		"departure", departure,
		"reminders", res.Reminders)
	return res
}
