package model

import "time"

// Showing is a scheduled screening of one movie in one room. EndsAt is
// never accepted from input: it is recomputed from StartsAt and the movie's
// duration on every create and update so it cannot drift when the movie or
// the start time changes.
type Showing struct {
	ID         uint64    // showings.id
	MovieID    uint64    // showings.movie_id
	RoomID     uint64    // showings.room_id
	StartsAt   time.Time // showings.starts_at (UTC)
	EndsAt     time.Time // showings.ends_at = starts_at + movie duration
	PriceCents uint32    // showings.price_cents
	CreatedAt  time.Time // showings.created_at
	UpdatedAt  time.Time // showings.updated_at
}

// ShowingEnd derives a showing's end time from its start and the movie's
// running time in minutes.
func ShowingEnd(startsAt time.Time, durationMin uint32) time.Time {
	return startsAt.Add(time.Duration(durationMin) * time.Minute)
}
