package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/marshallshelly/reelstore/cmd/reelstore/output"
	"github.com/marshallshelly/reelstore/pkg/migration"
	"github.com/marshallshelly/reelstore/pkg/schema"
)

var (
	// Migrate flags
	dryRun bool
	steps  int
	target string
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations",
	Long: `Run the compiled-in schema migrations that install the rental tables and
the late-return trigger.

Subcommands:
  up      - Apply pending migrations
  down    - Rollback migrations
  status  - Show migration status`,
}

// migrateUpCmd applies pending migrations
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Long: `Apply pending migrations to install or update the rental schema.

Examples:
  reelstore migrate up --db $DB            # Apply all pending migrations
  reelstore migrate up --db $DB --dry-run  # Preview without applying`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateUp()
	},
}

// migrateDownCmd rolls back migrations
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback migrations",
	Long: `Rollback applied migrations to revert schema changes.

Examples:
  reelstore migrate down --db $DB --steps 1        # Rollback last migration
  reelstore migrate down --db $DB --target VERSION # Rollback to specific version`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateDown()
	},
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrateStatus()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)

	// Flags for migrate up
	migrateUpCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview migrations without applying")

	// Flags for migrate down
	migrateDownCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview rollback without executing")
	migrateDownCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to rollback")
	migrateDownCmd.Flags().StringVar(&target, "target", "", "Rollback to specific version")
}

func connectPool(ctx context.Context) (*pgxpool.Pool, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("--db flag is required")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func runMigrateUp() error {
	ctx := context.Background()

	pool, err := connectPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	set := schema.Migrations()
	if err := set.Validate(); err != nil {
		return fmt.Errorf("invalid migration set: %w", err)
	}

	executor := migration.NewExecutor(pool)

	// Initialize schema_migrations table
	if err := executor.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	// Acquire lock
	if !dryRun {
		if err := executor.Lock(ctx); err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}
		defer func() { _ = executor.Unlock(ctx) }()
	}

	// Determine pending migrations
	applied, err := executor.GetAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	appliedMap := make(map[string]bool)
	for _, m := range applied {
		appliedMap[m.Version] = true
	}

	var toApply []migration.Migration
	for _, mig := range set.Sorted() {
		if !appliedMap[mig.Version] {
			toApply = append(toApply, mig)
		}
	}

	if len(toApply) == 0 {
		output.Info("No pending migrations")
		return nil
	}

	// Preview
	if dryRun {
		output.Section("DRY RUN - Preview")
		output.Info("The following migrations would be applied:")
		for _, mig := range toApply {
			fmt.Printf("  %s %s - %s\n", output.StatusIcon("pending"), mig.Version, mig.Name)
		}
		return nil
	}

	// Apply migrations
	output.Section("Applying Migrations")
	for _, mig := range toApply {
		output.Info("Applying %s - %s...", mig.Version, mig.Name)
		if err := executor.Apply(ctx, mig, false); err != nil {
			output.Error("Failed to apply migration %s: %v", mig.Version, err)
			return fmt.Errorf("failed to apply migration %s: %w", mig.Version, err)
		}
		output.Success("Applied %s", mig.Version)
	}

	fmt.Println()
	output.Success("Successfully applied %d migration(s)", len(toApply))
	return nil
}

func runMigrateDown() error {
	ctx := context.Background()

	pool, err := connectPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	set := schema.Migrations()
	executor := migration.NewExecutor(pool)

	// Acquire lock
	if !dryRun {
		if err := executor.Lock(ctx); err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}
		defer func() { _ = executor.Unlock(ctx) }()
	}

	// Handle target version rollback
	if target != "" {
		if dryRun {
			output.Info("DRY RUN - Would rollback to version %s", target)
			return nil
		}

		output.Section("Rolling Back to Target Version")
		if err := executor.RollbackTo(ctx, target, set, false); err != nil {
			output.Error("Failed to rollback to %s: %v", target, err)
			return fmt.Errorf("failed to rollback to %s: %w", target, err)
		}
		output.Success("Rolled back to version %s", target)
		return nil
	}

	// Get applied migrations
	applied, err := executor.GetAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	if len(applied) == 0 {
		output.Info("No migrations to rollback")
		return nil
	}

	toRollback := min(steps, len(applied))

	// Preview
	if dryRun {
		output.Section("DRY RUN - Preview")
		output.Info("The following migrations would be rolled back:")
		for i := len(applied) - 1; i >= len(applied)-toRollback; i-- {
			fmt.Printf("  %s %s - %s\n", output.StatusIcon("applied"), applied[i].Version, applied[i].Name)
		}
		return nil
	}

	// Rollback migrations
	output.Section("Rolling Back Migrations")
	for i := range toRollback {
		record := applied[len(applied)-1-i]

		mig, err := set.Find(record.Version)
		if err != nil {
			return err
		}

		output.Warning("Rolling back %s - %s...", mig.Version, mig.Name)
		if err := executor.Rollback(ctx, mig, false); err != nil {
			output.Error("Failed to rollback migration %s: %v", mig.Version, err)
			return fmt.Errorf("failed to rollback migration %s: %w", mig.Version, err)
		}
		output.Success("Rolled back %s", mig.Version)
	}

	fmt.Println()
	output.Success("Successfully rolled back %d migration(s)", toRollback)
	return nil
}

func runMigrateStatus() error {
	ctx := context.Background()

	pool, err := connectPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	set := schema.Migrations()
	executor := migration.NewExecutor(pool)

	// Initialize schema_migrations table
	if err := executor.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	// Get status
	status, err := executor.GetStatus(ctx, set)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	// Output
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	// Table output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
	_, _ = fmt.Fprintln(w, "-------\t----\t------\t----------")

	for _, record := range status {
		appliedAt := "N/A"
		if record.AppliedAt != nil {
			appliedAt = record.AppliedAt.Format("2006-01-02 15:04:05")
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n",
			record.Version,
			record.Name,
			output.StatusIcon(string(record.Status)),
			string(record.Status),
			appliedAt,
		)
	}
	_ = w.Flush()

	// Summary
	pending := 0
	applied := 0
	failed := 0
	for _, record := range status {
		switch record.Status {
		case migration.StatusPending:
			pending++
		case migration.StatusApplied:
			applied++
		case migration.StatusFailed:
			failed++
		}
	}

	fmt.Printf("\nSummary: %d applied, %d pending", applied, pending)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()

	return nil
}
