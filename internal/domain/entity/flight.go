// internal/domain/entity/flight.go
package entity

// AirportInfo describes one endpoint of a flight leg.
type AirportInfo struct {
	Name     string `json:"name"`
	CodeIATA string `json:"code_iata"`
}

// FlightOccurrence is one candidate flight instance returned by the provider
// for a designator. All timestamp fields are RFC3339 strings straight off the
// wire; an empty string means the provider did not report the value. The
// struct is immutable once received and lives only for one lookup/render
// cycle.
type FlightOccurrence struct {
	Ident        string `json:"ident"`
	IdentIATA    string `json:"ident_iata"`
	IdentICAO    string `json:"ident_icao"`
	Operator     string `json:"operator"`
	OperatorIATA string `json:"operator_iata"`
	Status       string `json:"status"`
	AircraftType string `json:"aircraft_type"`

	Origin      AirportInfo `json:"origin"`
	Destination AirportInfo `json:"destination"`

	ScheduledOut string `json:"scheduled_out"`
	EstimatedOut string `json:"estimated_out"`
	ActualOut    string `json:"actual_out"`
	ScheduledOff string `json:"scheduled_off"`
	EstimatedOff string `json:"estimated_off"`
	ScheduledIn  string `json:"scheduled_in"`
	EstimatedIn  string `json:"estimated_in"`
	ActualIn     string `json:"actual_in"`

	TerminalOrigin      string `json:"terminal_origin"`
	GateOrigin          string `json:"gate_origin"`
	TerminalDestination string `json:"terminal_destination"`
	GateDestination     string `json:"gate_destination"`
}

// StableIdentity returns the least ambiguous identifier for re-querying the
// same flight without asking the user for the date again. ICAO idents are
// preferred; empty when the provider reported neither.
func (f *FlightOccurrence) StableIdentity() string {
	if f.IdentICAO != "" {
		return f.IdentICAO
	}
	return f.Ident
}

// DisplayIdentity returns the identifier shown to users, IATA first.
func (f *FlightOccurrence) DisplayIdentity() string {
	if f.IdentIATA != "" {
		return f.IdentIATA
	}
	return f.Ident
}
