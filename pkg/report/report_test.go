package report

import (
	"strings"
	"testing"
)

// The top-1 queries must carry an explicit secondary sort: LIMIT 1 over a
// bare count ordering would pick an arbitrary winner on ties.
func TestTopQueries_DeterministicTieBreak(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		orderBy   string
		wantLimit bool
	}{
		{
			name:      "customer ranking",
			sql:       customerRentalsSQL,
			orderBy:   "ORDER BY rental_count DESC, c.customer_id ASC",
			wantLimit: false,
		},
		{
			name:      "top movie duration",
			sql:       topMovieDurationSQL,
			orderBy:   "ORDER BY avg_days DESC, m.movie_id ASC",
			wantLimit: true,
		},
		{
			name:      "top genre",
			sql:       topGenreSQL,
			orderBy:   "ORDER BY rental_count DESC, m.genre ASC",
			wantLimit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.sql, tt.orderBy) {
				t.Errorf("missing deterministic ordering %q", tt.orderBy)
			}
			if tt.wantLimit != strings.Contains(tt.sql, "LIMIT 1") {
				t.Errorf("LIMIT 1 presence = %v, expected %v", !tt.wantLimit, tt.wantLimit)
			}
		})
	}
}

func TestCustomerRentalsSQL_IncludesIdleCustomers(t *testing.T) {
	// Customers with no rentals rank with a count of zero, which requires
	// an outer join and counting rental rows rather than customers.
	if !strings.Contains(customerRentalsSQL, "LEFT JOIN rentals") {
		t.Error("customer ranking must left-join rentals")
	}
	if !strings.Contains(customerRentalsSQL, "COUNT(r.rental_id)") {
		t.Error("customer ranking must count rental rows, not customers")
	}
}

func TestTopMovieDurationSQL_CompletedRentalsOnly(t *testing.T) {
	if !strings.Contains(topMovieDurationSQL, "WHERE r.return_date IS NOT NULL") {
		t.Error("duration query must exclude outstanding rentals")
	}
}

func TestMultiMonthCustomersSQL_SingleYearFilter(t *testing.T) {
	if !strings.Contains(multiMonthCustomersSQL, "EXTRACT(YEAR FROM r.rental_date) = $1") {
		t.Error("months query must filter on the target year parameter")
	}
	if !strings.Contains(multiMonthCustomersSQL, "HAVING COUNT(DISTINCT EXTRACT(MONTH FROM r.rental_date)) >= 2") {
		t.Error("months query must require two distinct months")
	}
}
