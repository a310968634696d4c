package store

import (
	"context"
	"fmt"
)

// CreateCustomer inserts a customer and fills in its generated ID.
func (db *DB) CreateCustomer(ctx context.Context, c *Customer) error {
	query := `
		INSERT INTO customers (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING customer_id
	`

	err := db.QueryRow(ctx, query, c.Name, c.Email, c.Phone).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", translateError(err))
	}
	return nil
}

// GetCustomer fetches a customer by ID.
func (db *DB) GetCustomer(ctx context.Context, id int) (*Customer, error) {
	query := `
		SELECT customer_id, name, email, phone
		FROM customers
		WHERE customer_id = $1
	`

	var c Customer
	err := db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %d: %w", id, translateError(err))
	}
	return &c, nil
}

// ListCustomers returns all customers ordered by ID.
func (db *DB) ListCustomers(ctx context.Context) ([]Customer, error) {
	query := `
		SELECT customer_id, name, email, phone
		FROM customers
		ORDER BY customer_id ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// DeleteCustomer removes a customer. Rentals and late-return log rows that
// reference the customer are kept with the reference nulled.
func (db *DB) DeleteCustomer(ctx context.Context, id int) error {
	affected, err := db.Exec(ctx, "DELETE FROM customers WHERE customer_id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to delete customer %d: %w", id, ErrNotFound)
	}
	return nil
}
