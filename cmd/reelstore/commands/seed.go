package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marshallshelly/reelstore/cmd/reelstore/output"
	"github.com/marshallshelly/reelstore/pkg/store"
)

// seedCmd loads a small sample data set
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample customers, movies, and rentals",
	Long: `Insert a small sample data set for trying out the reports. Expects the
schema to be migrated already. Re-running against seeded data fails on the
unique customer email/phone constraints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func runSeed() error {
	ctx := context.Background()

	db, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	customers := []store.Customer{
		{Name: "Alice Hart", Email: "alice@example.com", Phone: "555-0101"},
		{Name: "Ben Okafor", Email: "ben@example.com", Phone: "555-0102"},
		{Name: "Carla Mendes", Email: "carla@example.com", Phone: "555-0103"},
	}
	for i := range customers {
		if err := db.CreateCustomer(ctx, &customers[i]); err != nil {
			return err
		}
	}

	movies := []store.Movie{
		{Title: "Night Circuit", Genre: "Action", ReleaseYear: 2019},
		{Title: "The Long Meadow", Genre: "Drama", ReleaseYear: 2021},
		{Title: "Borrowed Laughter", Genre: "Comedy", ReleaseYear: 2018},
	}
	for i := range movies {
		if err := db.CreateMovie(ctx, &movies[i]); err != nil {
			return err
		}
	}

	returned := func(t time.Time) *time.Time { return &t }
	rentals := []store.Rental{
		{CustomerID: &customers[0].ID, MovieID: &movies[0].ID, RentalDate: date(2025, time.January, 5), ReturnDate: returned(date(2025, time.January, 9))},
		{CustomerID: &customers[0].ID, MovieID: &movies[1].ID, RentalDate: date(2025, time.March, 2), ReturnDate: returned(date(2025, time.March, 14))},
		{CustomerID: &customers[1].ID, MovieID: &movies[0].ID, RentalDate: date(2025, time.January, 10), ReturnDate: returned(date(2025, time.January, 16))},
		{CustomerID: &customers[1].ID, MovieID: &movies[2].ID, RentalDate: date(2025, time.April, 1)},
		{CustomerID: &customers[2].ID, MovieID: &movies[0].ID, RentalDate: date(2025, time.February, 1), ReturnDate: returned(date(2025, time.February, 20))},
	}
	for i := range rentals {
		if err := db.CreateRental(ctx, &rentals[i]); err != nil {
			return err
		}
	}

	output.Success("Seeded %d customers, %d movies, %d rentals", len(customers), len(movies), len(rentals))

	entries, err := db.ListLateReturns(ctx)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		output.Info("Late-return trigger logged %d overdue rental(s)", len(entries))
	}

	fmt.Println()
	output.Muted("try: reelstore report customers --db ...")
	return nil
}
