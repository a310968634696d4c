// Package schema defines the rental store schema as a versioned set of
// migrations: customers, movies, rentals, and the late-return log, plus the
// trigger that populates the log.
package schema

import "github.com/marshallshelly/reelstore/pkg/migration"

// RentalWindowDays is the grace period for a rental. Returns later than
// this many days after the rental date are logged as late.
const RentalWindowDays = 7

// Table names as installed by the migrations.
const (
	TableCustomers     = "customers"
	TableMovies        = "movies"
	TableRentals       = "rentals"
	TableLateReturnLog = "late_return_log"
)

// Tables lists the schema's tables in dependency order.
func Tables() []string {
	return []string{TableCustomers, TableMovies, TableRentals, TableLateReturnLog}
}

// Migrations returns the full migration set for the rental schema.
func Migrations() migration.Set {
	return migration.Set{
		{
			Version: "20250101000001",
			Name:    "create_rental_tables",
			UpSQL:   createTablesUp,
			DownSQL: createTablesDown,
		},
		{
			Version: "20250101000002",
			Name:    "create_late_return_trigger",
			UpSQL:   createTriggerUp,
			DownSQL: createTriggerDown,
		},
	}
}

const createTablesUp = `
CREATE TABLE customers (
	customer_id SERIAL PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	email VARCHAR(255) UNIQUE NOT NULL,
	phone VARCHAR(20) UNIQUE NOT NULL
);

CREATE TABLE movies (
	movie_id SERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	genre VARCHAR(50) NOT NULL,
	release_year INTEGER NOT NULL
);

CREATE TABLE rentals (
	rental_id SERIAL PRIMARY KEY,
	customer_id INTEGER REFERENCES customers(customer_id) ON DELETE SET NULL,
	movie_id INTEGER REFERENCES movies(movie_id) ON DELETE SET NULL,
	rental_date DATE NOT NULL,
	return_date DATE
);

CREATE TABLE late_return_log (
	log_id SERIAL PRIMARY KEY,
	rental_id INTEGER REFERENCES rentals(rental_id) ON DELETE SET NULL,
	customer_id INTEGER REFERENCES customers(customer_id) ON DELETE SET NULL,
	movie_id INTEGER REFERENCES movies(movie_id) ON DELETE SET NULL,
	days_late INTEGER NOT NULL CHECK (days_late > 0),
	logged_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX idx_rentals_customer_id ON rentals(customer_id);
CREATE INDEX idx_rentals_movie_id ON rentals(movie_id);
CREATE INDEX idx_late_return_log_rental_id ON late_return_log(rental_id);
`

const createTablesDown = `
DROP TABLE IF EXISTS late_return_log;
DROP TABLE IF EXISTS rentals;
DROP TABLE IF EXISTS movies;
DROP TABLE IF EXISTS customers;
`

// The trigger fires on every insert or update that leaves a non-null return
// date on the row. Log rows are append-only: a later update that changes the
// return date appends a fresh entry rather than rewriting history.
const createTriggerUp = `
CREATE FUNCTION log_late_return() RETURNS trigger AS $$
BEGIN
	IF NEW.return_date - NEW.rental_date > 7 THEN
		INSERT INTO late_return_log (rental_id, customer_id, movie_id, days_late)
		VALUES (NEW.rental_id, NEW.customer_id, NEW.movie_id, NEW.return_date - NEW.rental_date);
	END IF;
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

CREATE TRIGGER rentals_late_return
AFTER INSERT OR UPDATE ON rentals
FOR EACH ROW
WHEN (NEW.return_date IS NOT NULL)
EXECUTE FUNCTION log_late_return();
`

const createTriggerDown = `
DROP TRIGGER IF EXISTS rentals_late_return ON rentals;
DROP FUNCTION IF EXISTS log_late_return();
`
