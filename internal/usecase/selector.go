package usecase

import (
	"time"

	"flightminder-service/internal/domain/entity"
	"flightminder-service/pkg/timeutil"
)

// SelectOccurrence picks the occurrence whose gate-out time lies closest to
// the target date's 00:00 UTC anchor. Per occurrence the out time is
// estimated_out, falling back to scheduled_out; occurrences with neither are
// skipped. Exact ties go to the first occurrence in input order; the
// provider's list order carries no documented meaning, so first-in-list is
// the intentional tie-break rule. Returns nil when no occurrence has a
// usable out time.
func SelectOccurrence(occurrences []entity.FlightOccurrence, targetDate time.Time) *entity.FlightOccurrence {
	var best *entity.FlightOccurrence
	var bestDelta time.Duration

	for i := range occurrences {
		occ := &occurrences[i]
		out, ok := outInstant(occ)
		if !ok {
			continue
		}
		delta := out.Sub(targetDate)
		if delta < 0 {
			delta = -delta
		}
		if best == nil || delta < bestDelta {
			best = occ
			bestDelta = delta
		}
	}
	return best
}

// ResolveDepartureInstant derives the single UTC instant reminders anchor
// to. Fallback chain, first present value wins:
//
//	estimated_out -> scheduled_out -> estimated_off -> scheduled_off
//
// Gate-out (pushback) is the operationally meaningful anchor for ground-side
// reminders; wheels-up is used only when no gate-out value exists at all.
// Returns false when all four are absent.
func ResolveDepartureInstant(occ *entity.FlightOccurrence) (time.Time, bool) {
	for _, ts := range []string{occ.EstimatedOut, occ.ScheduledOut, occ.EstimatedOff, occ.ScheduledOff} {
		if t, ok := parseInstant(ts); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func outInstant(occ *entity.FlightOccurrence) (time.Time, bool) {
	if t, ok := parseInstant(occ.EstimatedOut); ok {
		return t, true
	}
	return parseInstant(occ.ScheduledOut)
}

// parseInstant treats malformed provider timestamps as absent: one bad field
// must not abort the whole flow.
func parseInstant(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	t, err := timeutil.ToUTCInstant(ts)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
