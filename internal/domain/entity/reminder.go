// internal/domain/entity/reminder.go
package entity

import "time"

// ReminderRule is one rung of the reminder ladder: a label and how long
// before departure it fires.
type ReminderRule struct {
	Label string
	Lead  time.Duration
}

// DefaultLadder is the reference reminder policy, ordered by lead time.
// Static and process-wide; defined once at startup.
func DefaultLadder() []ReminderRule {
	return []ReminderRule{
		{Label: "🧾 Online check-in closes soon", Lead: 2 * time.Hour},
		{Label: "🧳 Bag drop: time to be at the airport", Lead: time.Hour},
		{Label: "🚪 Head to your gate", Lead: 45 * time.Minute},
		{Label: "✈️ Boarding soon", Lead: 30 * time.Minute},
	}
}
