// Package templates renders outbound message bodies. Pure functions only:
// field selection and placeholder fallback, no business logic.
package templates

import (
	"fmt"
	"strings"
	"time"

	"flightminder-service/internal/domain/entity"
	"flightminder-service/pkg/timeutil"
)

// FlightCard renders one flight occurrence as the fixed-layout card shown in
// chat: identity, operator, status, aircraft type, then departure and
// arrival blocks with plan/estimate/actual timestamps and terminal/gate.
// Absent fields render as the em-dash placeholder.
func FlightCard(f *entity.FlightOccurrence) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✈️ Flight: %s\n", orPlaceholder(f.DisplayIdentity()))
	fmt.Fprintf(&b, "🏷 Airline: %s\n", airlineLine(f))
	fmt.Fprintf(&b, "📌 Status: %s\n", orPlaceholder(f.Status))
	fmt.Fprintf(&b, "🛩 Aircraft: %s\n\n", orPlaceholder(f.AircraftType))

	fmt.Fprintf(&b, "🛫 Departure\n")
	fmt.Fprintf(&b, "• Airport: %s (%s)\n", orPlaceholder(f.Origin.Name), orPlaceholder(f.Origin.CodeIATA))
	fmt.Fprintf(&b, "• Plan: %s\n", timeutil.FormatTimestamp(f.ScheduledOut))
	fmt.Fprintf(&b, "• Estimate: %s\n", timeutil.FormatTimestamp(f.EstimatedOut))
	fmt.Fprintf(&b, "• Actual: %s\n", timeutil.FormatTimestamp(f.ActualOut))
	fmt.Fprintf(&b, "• Terminal / Gate: %s / %s\n\n", orPlaceholder(f.TerminalOrigin), orPlaceholder(f.GateOrigin))

	fmt.Fprintf(&b, "🛬 Arrival\n")
	fmt.Fprintf(&b, "• Airport: %s (%s)\n", orPlaceholder(f.Destination.Name), orPlaceholder(f.Destination.CodeIATA))
	fmt.Fprintf(&b, "• Plan: %s\n", timeutil.FormatTimestamp(f.ScheduledIn))
	fmt.Fprintf(&b, "• Estimate: %s\n", timeutil.FormatTimestamp(f.EstimatedIn))
	fmt.Fprintf(&b, "• Actual: %s\n", timeutil.FormatTimestamp(f.ActualIn))
	fmt.Fprintf(&b, "• Terminal / Gate: %s / %s", orPlaceholder(f.TerminalDestination), orPlaceholder(f.GateDestination))

	return b.String()
}

// ReminderText renders the body of a fired reminder: the rung label, the
// flight identity and the fire time in display format.
func ReminderText(label, ident string, fireAt time.Time) string {
	return fmt.Sprintf("%s\nFlight %s\n⏰ %s", label, ident, timeutil.FormatInstant(fireAt))
}

// airlineLine shows the operator name with its code, or just the code when
// the provider reports only one of them.
func airlineLine(f *entity.FlightOccurrence) string {
	code := f.OperatorIATA
	if code == "" {
		code = f.Operator
	}
	if code == "" {
		return timeutil.Placeholder
	}
	name := f.Operator
	if name == "" || name == code {
		return code
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

func orPlaceholder(s string) string {
	if s == "" {
		return timeutil.Placeholder
	}
	return s
}
