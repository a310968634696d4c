package store

import (
	"context"
	"fmt"
	"time"
)

// CreateRental inserts a rental and fills in its generated ID. A rental may
// be created already returned (ReturnDate set); the late-return trigger
// evaluates it the same way it evaluates a later return.
func (db *DB) CreateRental(ctx context.Context, r *Rental) error {
	query := `
		INSERT INTO rentals (customer_id, movie_id, rental_date, return_date)
		VALUES ($1, $2, $3, $4)
		RETURNING rental_id
	`

	err := db.QueryRow(ctx, query, r.CustomerID, r.MovieID, r.RentalDate, r.ReturnDate).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to create rental: %w", translateError(err))
	}
	return nil
}

// GetRental fetches a rental by ID.
func (db *DB) GetRental(ctx context.Context, id int) (*Rental, error) {
	query := `
		SELECT rental_id, customer_id, movie_id, rental_date, return_date
		FROM rentals
		WHERE rental_id = $1
	`

	var r Rental
	err := db.QueryRow(ctx, query, id).Scan(&r.ID, &r.CustomerID, &r.MovieID, &r.RentalDate, &r.ReturnDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get rental %d: %w", id, translateError(err))
	}
	return &r, nil
}

// ListRentals returns all rentals ordered by ID.
func (db *DB) ListRentals(ctx context.Context) ([]Rental, error) {
	query := `
		SELECT rental_id, customer_id, movie_id, rental_date, return_date
		FROM rentals
		ORDER BY rental_id ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}
	defer rows.Close()

	var rentals []Rental
	for rows.Next() {
		var r Rental
		if err := rows.Scan(&r.ID, &r.CustomerID, &r.MovieID, &r.RentalDate, &r.ReturnDate); err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		rentals = append(rentals, r)
	}

	return rentals, rows.Err()
}

// RecordReturn sets the return date on a rental. The late-return trigger
// fires as part of the same transaction; if the rental exceeded the grace
// period a log row is appended, and a failure to append it aborts the
// update as well.
func (db *DB) RecordReturn(ctx context.Context, rentalID int, returnDate time.Time) error {
	affected, err := db.Exec(ctx,
		"UPDATE rentals SET return_date = $1 WHERE rental_id = $2",
		returnDate, rentalID,
	)
	if err != nil {
		return fmt.Errorf("failed to record return for rental %d: %w", rentalID, err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to record return for rental %d: %w", rentalID, ErrNotFound)
	}
	return nil
}
