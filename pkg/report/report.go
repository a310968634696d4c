// Package report runs the read-only analytic queries over the rental
// schema. The queries hold no state and never write.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marshallshelly/reelstore/pkg/store"
)

// Reporter runs analytic queries against a connected store.
type Reporter struct {
	db *store.DB
}

// New creates a Reporter over the given database.
func New(db *store.DB) *Reporter {
	return &Reporter{db: db}
}

// CustomerRentals is one row of the rentals-per-customer ranking.
type CustomerRentals struct {
	CustomerID  int
	Name        string
	RentalCount int
}

// MovieDuration is the movie with the highest average rental duration.
type MovieDuration struct {
	MovieID int
	Title   string
	AvgDays float64
}

// MultiMonthCustomer is a customer who rented in at least two distinct
// calendar months of the target year.
type MultiMonthCustomer struct {
	CustomerID int
	Name       string
	Months     int
}

// GenreCount is the most-rented genre and its rental count.
type GenreCount struct {
	Genre       string
	RentalCount int
}

// Ties on count are broken by customer_id so the ranking is deterministic.
const customerRentalsSQL = `
	SELECT c.customer_id, c.name, COUNT(r.rental_id) AS rental_count
	FROM customers c
	LEFT JOIN rentals r ON r.customer_id = c.customer_id
	GROUP BY c.customer_id, c.name
	ORDER BY rental_count DESC, c.customer_id ASC
`

// Only completed rentals have a duration. The secondary sort on movie_id
// makes the top-1 pick deterministic when averages tie.
const topMovieDurationSQL = `
	SELECT m.movie_id, m.title, AVG(r.return_date - r.rental_date)::float8 AS avg_days
	FROM movies m
	JOIN rentals r ON r.movie_id = m.movie_id
	WHERE r.return_date IS NOT NULL
	GROUP BY m.movie_id, m.title
	ORDER BY avg_days DESC, m.movie_id ASC
	LIMIT 1
`

const multiMonthCustomersSQL = `
	SELECT c.customer_id, c.name, COUNT(DISTINCT EXTRACT(MONTH FROM r.rental_date))::int AS months
	FROM customers c
	JOIN rentals r ON r.customer_id = c.customer_id
	WHERE EXTRACT(YEAR FROM r.rental_date) = $1
	GROUP BY c.customer_id, c.name
	HAVING COUNT(DISTINCT EXTRACT(MONTH FROM r.rental_date)) >= 2
	ORDER BY c.customer_id ASC
`

// Ties on count are broken by genre name so the top-1 pick is deterministic.
const topGenreSQL = `
	SELECT m.genre, COUNT(r.rental_id) AS rental_count
	FROM movies m
	JOIN rentals r ON r.movie_id = m.movie_id
	GROUP BY m.genre
	ORDER BY rental_count DESC, m.genre ASC
	LIMIT 1
`

// CustomerRentals ranks customers by total rental count, descending.
// Customers with no rentals appear with a count of zero.
func (r *Reporter) CustomerRentals(ctx context.Context) ([]CustomerRentals, error) {
	rows, err := r.db.Pool().Query(ctx, customerRentalsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer rentals: %w", err)
	}
	defer rows.Close()

	var results []CustomerRentals
	for rows.Next() {
		var row CustomerRentals
		if err := rows.Scan(&row.CustomerID, &row.Name, &row.RentalCount); err != nil {
			return nil, fmt.Errorf("failed to scan customer rentals row: %w", err)
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// TopMovieDuration returns the movie with the highest average rental
// duration over completed rentals. Returns store.ErrNotFound when no rental
// has been returned yet.
func (r *Reporter) TopMovieDuration(ctx context.Context) (*MovieDuration, error) {
	var row MovieDuration
	err := r.db.Pool().QueryRow(ctx, topMovieDurationSQL).Scan(&row.MovieID, &row.Title, &row.AvgDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no completed rentals: %w", store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query top movie duration: %w", err)
	}
	return &row, nil
}

// MultiMonthCustomers returns customers with rentals in at least two
// distinct calendar months of the given year.
func (r *Reporter) MultiMonthCustomers(ctx context.Context, year int) ([]MultiMonthCustomer, error) {
	rows, err := r.db.Pool().Query(ctx, multiMonthCustomersSQL, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query multi-month customers: %w", err)
	}
	defer rows.Close()

	var results []MultiMonthCustomer
	for rows.Next() {
		var row MultiMonthCustomer
		if err := rows.Scan(&row.CustomerID, &row.Name, &row.Months); err != nil {
			return nil, fmt.Errorf("failed to scan multi-month customer row: %w", err)
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// TopGenre returns the most-rented genre. Returns store.ErrNotFound when
// there are no rentals at all.
func (r *Reporter) TopGenre(ctx context.Context) (*GenreCount, error) {
	var row GenreCount
	err := r.db.Pool().QueryRow(ctx, topGenreSQL).Scan(&row.Genre, &row.RentalCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no rentals: %w", store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query top genre: %w", err)
	}
	return &row, nil
}
