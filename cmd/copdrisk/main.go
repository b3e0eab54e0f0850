// Command copdrisk runs the ED-utilization risk pipeline over a claims
// extract and prints the model comparison.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"copdrisk/claims"
	"copdrisk/model"
	"copdrisk/pipeline"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		inputFile      string
		pgDSN          string
		outDir         string
		seed           int64
		windowDays     int
		edLocation     string
		edSubcategory  string
		costlyThresh   int
		testFraction   float64
		trainOnlyStats bool
		workers        int
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   "copdrisk",
		Short: "Train and compare ED-utilization risk models over a claims extract",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputFile == "" && pgDSN == "" {
				return fmt.Errorf("either --file or --pg is required")
			}

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				With().Timestamp().Logger()
			if !verbose {
				logger = logger.Level(zerolog.WarnLevel)
			}

			ctx := cmd.Context()

			var records []claims.Record
			var err error
			switch {
			case inputFile != "":
				records, err = readCSV(inputFile)
			default:
				records, err = readPostgres(ctx, pgDSN)
			}
			if err != nil {
				return err
			}
			logger.Info().Int("claims", len(records)).Msg("loaded claim records")

			cfg := pipeline.DefaultConfig()
			cfg.Seed = seed
			cfg.WindowSpan = time.Duration(windowDays) * 24 * time.Hour
			cfg.EDLocation = edLocation
			cfg.EDSubcategory = edSubcategory
			cfg.CostlyThreshold = costlyThresh
			cfg.TestFraction = testFraction
			cfg.TrainOnlyStats = trainOnlyStats
			cfg.Workers = workers
			cfg.OutDir = outDir
			cfg.Log = logger

			res, err := pipeline.Run(ctx, records, cfg)
			if err != nil {
				return err
			}

			fmt.Println(model.ComparisonTable(res.Reports))
			for _, rep := range res.Reports {
				if len(rep.Ranked) > 0 {
					fmt.Printf("variable importance (%s):\n", rep.Family)
					fmt.Println(model.ImportanceTable(rep.Ranked))
				}
			}
			best := res.Best()
			fmt.Printf("best model by test AUC: %s (%s), AUC=%.4f\n",
				best.Family, best.Params, best.Metrics.AUC)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Path to the claims CSV extract")
	cmd.Flags().StringVar(&pgDSN, "pg", "", "PostgreSQL DSN to load claims from instead of a file")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for Parquet artifacts (optional)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for split, resampling and model fits")
	cmd.Flags().IntVar(&windowDays, "window-days", 730, "Feature window length in days")
	cmd.Flags().StringVar(&edLocation, "ed-location", "ED", "Procedure location code marking an ED visit")
	cmd.Flags().StringVar(&edSubcategory, "ed-subcategory", "ED", "Financial subcategory code marking an ED visit")
	cmd.Flags().IntVar(&costlyThresh, "costly-threshold", 10, "Label-window ED visits at or above which a patient is Costly")
	cmd.Flags().Float64Var(&testFraction, "test-fraction", 0.3, "Fraction of patients held out for testing")
	cmd.Flags().BoolVar(&trainOnlyStats, "train-only-stats", false, "Compute imputation and clamping statistics from the training partition only")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel aggregation workers (0 = serial)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress")

	cmd.AddCommand(loadCmd())

	return cmd
}

func loadCmd() *cobra.Command {
	var (
		inputFile string
		pgDSN     string
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Parse a claims CSV extract and bulk-load it into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputFile == "" || pgDSN == "" {
				return fmt.Errorf("both --file and --pg are required")
			}

			records, err := readCSV(inputFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, pgDSN)
			if err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			defer pool.Close()

			store := claims.NewPGStore(pool)
			if err := store.InitSchema(ctx); err != nil {
				return err
			}
			n, err := store.Insert(ctx, records)
			if err != nil {
				return err
			}

			fmt.Printf("loaded %d claim rows\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Path to the claims CSV extract")
	cmd.Flags().StringVar(&pgDSN, "pg", "", "PostgreSQL DSN to load claims into")

	return cmd
}

func readCSV(path string) ([]claims.Record, error) {
	reader, err := claims.NewCSVReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.ReadAll()
}

func readPostgres(ctx context.Context, dsn string) ([]claims.Record, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	return claims.NewPGStore(pool).Load(ctx)
}
