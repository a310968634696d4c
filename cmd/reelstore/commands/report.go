package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/reelstore/cmd/reelstore/output"
	"github.com/marshallshelly/reelstore/pkg/report"
	"github.com/marshallshelly/reelstore/pkg/store"
)

var (
	// Report flags
	reportYear int
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run analytic reports",
	Long: `Run read-only analytic reports over the rental data.

Subcommands:
  customers - Rank customers by total rental count
  duration  - Movie with the highest average rental duration
  months    - Customers renting in two or more months of a year
  genres    - Most-rented genre
  late      - Show the late-return log`,
}

var reportCustomersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Rank customers by total rental count",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportCustomers()
	},
}

var reportDurationCmd = &cobra.Command{
	Use:   "duration",
	Short: "Show the movie with the highest average rental duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportDuration()
	},
}

var reportMonthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Show customers renting in two or more distinct months of a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportMonths()
	},
}

var reportGenresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Show the most-rented genre",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportGenres()
	},
}

var reportLateCmd = &cobra.Command{
	Use:   "late",
	Short: "Show the late-return log",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReportLate()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportCustomersCmd, reportDurationCmd, reportMonthsCmd, reportGenresCmd, reportLateCmd)

	reportMonthsCmd.Flags().IntVar(&reportYear, "year", time.Now().Year(), "Target year")
}

func connectStore(ctx context.Context) (*store.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("--db flag is required")
	}
	return store.ConnectWithURL(ctx, dbURL)
}

func runReportCustomers() error {
	ctx := context.Background()

	db, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := report.New(db).CustomerRentals(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	output.Section("Rentals per Customer")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tRENTALS")
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d\n", row.CustomerID, row.Name, row.RentalCount)
	}
	return w.Flush()
}

func runReportDuration() error {
	ctx := context.Background()

	db, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	row, err := report.New(db).TopMovieDuration(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			output.Warning("No completed rentals yet")
			return nil
		}
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(row)
	}

	output.Section("Highest Average Rental Duration")
	fmt.Printf("%s (movie %d): %.1f days\n", row.Title, row.MovieID, row.AvgDays)
	return nil
}

func runReportMonths() error {
	ctx := context.Background()

	db, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := report.New(db).MultiMonthCustomers(ctx, reportYear)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	output.Section(fmt.Sprintf("Customers Renting in 2+ Months of %d", reportYear))
	if len(rows) == 0 {
		output.Muted("none")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tMONTHS")
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d\n", row.CustomerID, row.Name, row.Months)
	}
	return w.Flush()
}

func runReportGenres() error {
	ctx := context.Background()

	db, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	row, err := report.New(db).TopGenre(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			output.Warning("No rentals yet")
			return nil
		}
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(row)
	}

	output.Section("Most-Rented Genre")
	fmt.Printf("%s: %d rentals\n", row.Genre, row.RentalCount)
	return nil
}

func runReportLate() error {
	ctx := context.Background()

	db, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.ListLateReturns(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	output.Section("Late-Return Log")
	if len(entries) == 0 {
		output.Muted("no late returns")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LOG\tRENTAL\tCUSTOMER\tMOVIE\tDAYS LATE\tLOGGED AT")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			e.LogID,
			store.FormatRef(e.RentalID),
			store.FormatRef(e.CustomerID),
			store.FormatRef(e.MovieID),
			e.DaysLate,
			e.LoggedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}
