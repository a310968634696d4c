// Package migration applies and tracks versioned schema migrations.
package migration

import (
	"fmt"
	"sort"
	"time"
)

// Migration represents a single versioned schema change.
type Migration struct {
	Version string // Version/timestamp (e.g., "20250101120000")
	Name    string // Migration name (e.g., "create_rental_tables")
	UpSQL   string // SQL for applying the migration
	DownSQL string // SQL for rolling back the migration
}

// MigrationStatus represents the status of a migration.
type MigrationStatus string

const (
	// StatusPending means the migration has not been applied.
	StatusPending MigrationStatus = "pending"
	// StatusApplied means the migration has been applied.
	StatusApplied MigrationStatus = "applied"
	// StatusFailed means the migration failed to apply.
	StatusFailed MigrationStatus = "failed"
)

// MigrationRecord represents a migration in the tracking table.
type MigrationRecord struct {
	Version   string          // Migration version
	Name      string          // Migration name
	Status    MigrationStatus // Current status
	AppliedAt *time.Time      // When applied (nil if not applied)
	Error     *string         // Error message if failed
}

// Set is an ordered collection of compiled-in migrations.
type Set []Migration

// Sorted returns the migrations ordered by ascending version.
func (s Set) Sorted() []Migration {
	out := make([]Migration, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// Find returns the migration with the given version.
func (s Set) Find(version string) (Migration, error) {
	for _, m := range s {
		if m.Version == version {
			return m, nil
		}
	}
	return Migration{}, fmt.Errorf("migration not found for version %s", version)
}

// Validate checks that versions are unique and every migration carries both
// up and down SQL.
func (s Set) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, m := range s {
		if m.Version == "" || m.Name == "" {
			return fmt.Errorf("migration %q (%s) is missing a version or name", m.Name, m.Version)
		}
		if seen[m.Version] {
			return fmt.Errorf("duplicate migration version %s", m.Version)
		}
		seen[m.Version] = true
		if m.UpSQL == "" {
			return fmt.Errorf("migration %s has no up SQL", m.Version)
		}
		if m.DownSQL == "" {
			return fmt.Errorf("migration %s has no down SQL", m.Version)
		}
	}
	return nil
}
