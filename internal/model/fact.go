package model

import "time"

// Fact is one entry in the rotating fun-fact catalog.
//
// Facts come from three places: default seeding (runs once, when the table is
// empty), manual entry by a logged-in user, and the OpenAI generator. The
// catalog is capped at a configured maximum (default 6); the cap is checked
// before every insert except seeding.
type Fact struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
