package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kinoreserve/movie-reservation/internal/model"
)

// MovieRepo provides CRUD for movies and their genre links. The booking
// core only consumes DurationMin; everything else is catalog metadata.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieColumns = `id, title, description, status, release_date, duration_min, director, cast_members, production, created_at, updated_at`

func scanMovie(row interface{ Scan(...interface{}) error }, m *model.Movie) error {
	var release sql.NullTime
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Status, &release,
		&m.DurationMin, &m.Director, &m.Cast, &m.Production, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return err
	}
	if release.Valid {
		t := release.Time
		m.ReleaseDate = &t
	}
	return nil
}

// Create inserts a movie and links the given genre IDs in one transaction.
// An unknown genre ID aborts with ErrGenreNotFound and nothing persists.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie, genreIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO movies (title, description, status, release_date, duration_min, director, cast_members, production)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, m.Title, m.Description, m.Status, m.ReleaseDate,
		m.DurationMin, m.Director, m.Cast, m.Production)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	if err := r.relinkGenresTx(ctx, tx, m.ID, genreIDs); err != nil {
		return err
	}
	const sel = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	if err := scanMovie(tx.QueryRowContext(ctx, sel, m.ID), m); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	m.Genres, err = r.genresForMovie(ctx, m.ID)
	return err
}

// GetByID retrieves a movie with its genres. Returns ErrMovieNotFound when
// no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	var m model.Movie
	if err := scanMovie(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	var err error
	if m.Genres, err = r.genresForMovie(ctx, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns catalog movies, optionally filtered by genre, newest release
// first, capped at limit (the public catalog uses 20).
func (r *MovieRepo) List(ctx context.Context, genreID uint64, limit int) ([]model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies`
	args := make([]interface{}, 0, 2)
	if genreID != 0 {
		query += ` WHERE id IN (SELECT movie_id FROM movie_genres WHERE genre_id = ?)`
		args = append(args, genreID)
	}
	query += ` ORDER BY release_date DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Genres, err = r.genresForMovie(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update rewrites a movie's fields and genre links. Showings referencing
// the movie are not touched here; the scheduler recomputes their end times
// when it next writes them.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie, genreIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE movies
	           SET title = ?, description = ?, status = ?, release_date = ?, duration_min = ?,
	               director = ?, cast_members = ?, production = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, m.Title, m.Description, m.Status, m.ReleaseDate,
		m.DurationMin, m.Director, m.Cast, m.Production, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, m.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMovieNotFound
			}
			return err
		}
	}
	if err := r.relinkGenresTx(ctx, tx, m.ID, genreIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	m.Genres, err = r.genresForMovie(ctx, m.ID)
	return err
}

// Delete removes a movie. It is blocked with ErrConflict while showings
// still reference it.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	var dependents int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM showings WHERE movie_id = ?`, id).Scan(&dependents); err != nil {
		return err
	}
	if dependents > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// relinkGenresTx replaces a movie's genre links with the given set inside
// the caller's transaction. Unknown genre IDs surface as ErrGenreNotFound.
func (r *MovieRepo) relinkGenresTx(ctx context.Context, tx *sql.Tx, movieID uint64, genreIDs []uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM movie_genres WHERE movie_id = ?`, movieID); err != nil {
		return err
	}
	if len(genreIDs) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(genreIDs))
	args := make([]interface{}, 0, len(genreIDs))
	for _, gid := range genreIDs {
		placeholders = append(placeholders, "?")
		args = append(args, gid)
	}
	var known int
	countQ := `SELECT COUNT(*) FROM genres WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	if err := tx.QueryRowContext(ctx, countQ, args...).Scan(&known); err != nil {
		return err
	}
	if known != len(genreIDs) {
		return ErrGenreNotFound
	}
	insert := `INSERT INTO movie_genres (movie_id, genre_id) VALUES `
	linkArgs := make([]interface{}, 0, len(genreIDs)*2)
	for i, gid := range genreIDs {
		if i > 0 {
			insert += ","
		}
		insert += "(?, ?)"
		linkArgs = append(linkArgs, movieID, gid)
	}
	_, err := tx.ExecContext(ctx, insert, linkArgs...)
	return err
}

// genresForMovie loads the genres linked to a movie ordered by name.
func (r *MovieRepo) genresForMovie(ctx context.Context, movieID uint64) ([]model.Genre, error) {
	const q = `SELECT g.id, g.name
	           FROM genres g
	           JOIN movie_genres mg ON mg.genre_id = g.id
	           WHERE mg.movie_id = ?
	           ORDER BY g.name`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
