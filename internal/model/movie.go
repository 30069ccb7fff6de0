package model

import "time"

// Movie represents a film in the catalog. DurationMin is the only field the
// booking core depends on: a showing's end time is derived from it.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – movie title.
//	Description – synopsis shown in the catalog.
//	Status      – lifecycle state (e.g. ANNOUNCED, RUNNING, ARCHIVED).
//	ReleaseDate – cinema release date (nil when unannounced).
//	DurationMin – running time in minutes, always > 0.
//	Director    – director credit.
//	Cast        – main cast, free text.
//	Production  – production company.
type Movie struct {
	ID          uint64     // movies.id
	Title       string     // movies.title
	Description string     // movies.description
	Status      string     // movies.status
	ReleaseDate *time.Time // movies.release_date (nullable)
	DurationMin uint32     // movies.duration_min
	Director    string     // movies.director
	Cast        string     // movies.cast_members
	Production  string     // movies.production
	Genres      []Genre    // joined via movie_genres
	CreatedAt   time.Time  // movies.created_at
	UpdatedAt   time.Time  // movies.updated_at
}

// Genre is a catalog category. Movies and genres form a many-to-many
// relation through the movie_genres table.
type Genre struct {
	ID   uint64 // genres.id
	Name string // genres.name (unique)
}
