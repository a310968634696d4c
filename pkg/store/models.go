package store

import (
	"strconv"
	"time"
)

// Customer is a registered member of the rental store.
type Customer struct {
	ID    int    // customers.customer_id
	Name  string // customers.name
	Email string // customers.email (unique)
	Phone string // customers.phone (unique)
}

// Movie is a title in the rental catalog.
type Movie struct {
	ID          int    // movies.movie_id
	Title       string // movies.title
	Genre       string // movies.genre
	ReleaseYear int    // movies.release_year
}

// Rental records a single checkout. CustomerID and MovieID are pointers
// because the referenced rows may be deleted out from under the rental, in
// which case the database nulls the reference and the history survives.
// A nil ReturnDate means the rental is still outstanding.
type Rental struct {
	ID         int        // rentals.rental_id
	CustomerID *int       // rentals.customer_id (nullable)
	MovieID    *int       // rentals.movie_id (nullable)
	RentalDate time.Time  // rentals.rental_date
	ReturnDate *time.Time // rentals.return_date (nullable)
}

// LateReturn is one appended entry in the late-return log. Rows are written
// by the database trigger, never by this package.
type LateReturn struct {
	LogID      int       // late_return_log.log_id
	RentalID   *int      // late_return_log.rental_id (nullable)
	CustomerID *int      // late_return_log.customer_id (nullable)
	MovieID    *int      // late_return_log.movie_id (nullable)
	DaysLate   int       // late_return_log.days_late
	LoggedAt   time.Time // late_return_log.logged_at
}

// FormatRef renders a nullable reference for display. A nulled reference
// (the referenced row was deleted) shows as "-".
func FormatRef(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}
