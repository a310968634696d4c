package store

import (
	"context"
	"fmt"
)

// CreateMovie inserts a movie and fills in its generated ID.
func (db *DB) CreateMovie(ctx context.Context, m *Movie) error {
	query := `
		INSERT INTO movies (title, genre, release_year)
		VALUES ($1, $2, $3)
		RETURNING movie_id
	`

	err := db.QueryRow(ctx, query, m.Title, m.Genre, m.ReleaseYear).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", translateError(err))
	}
	return nil
}

// GetMovie fetches a movie by ID.
func (db *DB) GetMovie(ctx context.Context, id int) (*Movie, error) {
	query := `
		SELECT movie_id, title, genre, release_year
		FROM movies
		WHERE movie_id = $1
	`

	var m Movie
	err := db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Title, &m.Genre, &m.ReleaseYear)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, translateError(err))
	}
	return &m, nil
}

// ListMovies returns all movies ordered by ID.
func (db *DB) ListMovies(ctx context.Context) ([]Movie, error) {
	query := `
		SELECT movie_id, title, genre, release_year
		FROM movies
		ORDER BY movie_id ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	var movies []Movie
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.ReleaseYear); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}

	return movies, rows.Err()
}

// DeleteMovie removes a movie. Rentals and late-return log rows that
// reference the movie are kept with the reference nulled.
func (db *DB) DeleteMovie(ctx context.Context, id int) error {
	affected, err := db.Exec(ctx, "DELETE FROM movies WHERE movie_id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to delete movie %d: %w", id, ErrNotFound)
	}
	return nil
}
