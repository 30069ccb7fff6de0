package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kinoreserve/movie-reservation/internal/model"
)

// GenreRepo provides CRUD for catalog genres.
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo constructs a GenreRepo with the given DB handle.
func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// Create inserts a genre. A duplicate name returns ErrConflict.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	const q = `INSERT INTO genres (name) VALUES (?)`
	res, err := r.db.ExecContext(ctx, q, g.Name)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// GetByID retrieves a genre by id.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (*model.Genre, error) {
	const q = `SELECT id, name FROM genres WHERE id = ?`
	var g model.Genre
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns all genres ordered by name.
func (r *GenreRepo) List(ctx context.Context) ([]model.Genre, error) {
	const q = `SELECT id, name FROM genres ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
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

// Update renames a genre. Duplicate names return ErrConflict, a missing
// genre returns ErrGenreNotFound.
func (r *GenreRepo) Update(ctx context.Context, g *model.Genre) error {
	const q = `UPDATE genres SET name = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, g.Name, g.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM genres WHERE id = ?`, g.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}

// Delete removes a genre; movie links cascade away via movie_genres.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGenreNotFound
	}
	return nil
}
