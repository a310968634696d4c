package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ListLateReturns returns the full late-return log, oldest entry first.
func (db *DB) ListLateReturns(ctx context.Context) ([]LateReturn, error) {
	query := `
		SELECT log_id, rental_id, customer_id, movie_id, days_late, logged_at
		FROM late_return_log
		ORDER BY log_id ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list late returns: %w", err)
	}
	defer rows.Close()

	return scanLateReturns(rows)
}

// ListLateReturnsForCustomer returns the late-return log entries for one
// customer, oldest first.
func (db *DB) ListLateReturnsForCustomer(ctx context.Context, customerID int) ([]LateReturn, error) {
	query := `
		SELECT log_id, rental_id, customer_id, movie_id, days_late, logged_at
		FROM late_return_log
		WHERE customer_id = $1
		ORDER BY log_id ASC
	`

	rows, err := db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list late returns for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	return scanLateReturns(rows)
}

func scanLateReturns(rows pgx.Rows) ([]LateReturn, error) {
	var entries []LateReturn
	for rows.Next() {
		var e LateReturn
		if err := rows.Scan(&e.LogID, &e.RentalID, &e.CustomerID, &e.MovieID, &e.DaysLate, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan late return: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
