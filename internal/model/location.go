package model

import "time"

// Location is a city/country pair a user may select on the home page.
//
// The `json:"..."` tags control how the struct serializes — the frontend
// receives {"id":"...","city":"Tel Aviv","country":"IL",...}.
//
// Country is an ISO-ish two-letter code ("IL", "US"); we pass it straight
// through to the weather provider, which does its own resolution. Locations
// are immutable and not deletable via the exposed surface; the (city, country)
// pair is pre-checked for duplicates before insert.
type Location struct {
	ID        string    `json:"id"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}

// Selector returns the combined "city,country" form the home page uses in
// its location dropdown, e.g. "Tel Aviv,IL".
func (l Location) Selector() string {
	return l.City + "," + l.Country
}
