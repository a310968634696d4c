package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: nil,
		},
		{
			name:     "no rows",
			err:      pgx.ErrNoRows,
			expected: ErrNotFound,
		},
		{
			name:     "unique violation",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"},
			expected: ErrDuplicateKey,
		},
		{
			name:     "foreign key violation",
			err:      &pgconn.PgError{Code: "23503", ConstraintName: "rentals_customer_id_fkey"},
			expected: ErrForeignKeyViolation,
		},
		{
			name:     "not null violation",
			err:      &pgconn.PgError{Code: "23502", ColumnName: "rental_date"},
			expected: ErrNotNullViolation,
		},
		{
			name:     "check violation",
			err:      &pgconn.PgError{Code: "23514", ConstraintName: "late_return_log_days_late_check"},
			expected: ErrCheckViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)

			if tt.expected == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}

			if !errors.Is(got, tt.expected) {
				t.Errorf("expected %v to unwrap to %v", got, tt.expected)
			}
		})
	}
}

func TestTranslateError_WrappedDriverError(t *testing.T) {
	inner := &pgconn.PgError{Code: "23505", ConstraintName: "customers_phone_key"}
	wrapped := fmt.Errorf("insert failed: %w", inner)

	got := translateError(wrapped)
	if !errors.Is(got, ErrDuplicateKey) {
		t.Errorf("expected wrapped PgError to translate, got %v", got)
	}
}

func TestQueryError(t *testing.T) {
	inner := &pgconn.PgError{Code: "23503", ConstraintName: "rentals_customer_id_fkey"}
	qe := &QueryError{
		Query: "DELETE FROM customers WHERE customer_id = $1",
		Err:   translateError(inner),
	}

	if !errors.Is(qe, ErrForeignKeyViolation) {
		t.Errorf("expected QueryError to unwrap to ErrForeignKeyViolation, got %v", qe)
	}

	msg := qe.Error()
	for _, want := range []string{"query error", "DELETE FROM customers"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q, got %q", want, msg)
		}
	}
}

func TestTranslateError_Passthrough(t *testing.T) {
	unknown := errors.New("connection reset")
	if got := translateError(unknown); got != unknown {
		t.Errorf("unexpected translation of unrelated error: %v", got)
	}

	// Non-constraint SQLSTATEs pass through untouched
	syntax := &pgconn.PgError{Code: "42601"}
	if got := translateError(syntax); got != error(syntax) {
		t.Errorf("unexpected translation of syntax error: %v", got)
	}
}
