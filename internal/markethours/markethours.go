// Package markethours reports whether the US (NYSE) or Thai (SET) equity
// session is open at a given instant.
package markethours

import (
	"time"
	_ "time/tzdata" // embedded zone database for minimal containers
)

// Session is a weekday trading window in a market's local time.
type Session struct {
	Name     string
	Location *time.Location
	// Open and Close are minutes after local midnight; Close is exclusive.
	Open  int
	Close int
}

// Sessions returns the NYSE (09:30-16:00 New York) and SET (10:00-16:30
// Bangkok) sessions.
func Sessions() []Session {
	return []Session{
		{Name: "NYSE", Location: mustLoad("America/New_York"), Open: 9*60 + 30, Close: 16 * 60},
		{Name: "SET", Location: mustLoad("Asia/Bangkok"), Open: 10 * 60, Close: 16*60 + 30},
	}
}

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsOpen reports whether the session is trading at t. Holidays are not modelled.
func (s Session) IsOpen(t time.Time) bool {
	local := t.In(s.Location)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	m := local.Hour()*60 + local.Minute()
	return m >= s.Open && m < s.Close
}

// Status is the open state of each session at an instant.
type Status struct {
	At       time.Time       `json:"at"`
	Open     bool            `json:"open"`
	Sessions map[string]bool `json:"sessions"`
}

// Check evaluates every session at t.
func Check(t time.Time) Status {
	st := Status{At: t, Sessions: make(map[string]bool)}
	for _, s := range Sessions() {
		open := s.IsOpen(t)
		st.Sessions[s.Name] = open
		st.Open = st.Open || open
	}
	return st
}

// IsOpen reports whether any session is trading at t.
func IsOpen(t time.Time) bool {
	return Check(t).Open
}
