package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fidescrape/internal/chrono"
	"fidescrape/internal/export"
	"fidescrape/internal/pipeline"
	"fidescrape/internal/scrapers/fide"
	"fidescrape/internal/store"
	"fidescrape/internal/telemetry"
	"fidescrape/lib/restyutil"
	"fidescrape/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	playerId   *string
	months     *int
	outPath    *string
	showTable  *bool
	dbPath     *string
	configPath *string
	verbose    *bool
	dumpHttp   *string
)

func init() {
	flags := rootCmd.Flags()
	playerId = flags.StringP("id", "i", "", "FIDE player ID")
	months = flags.IntP("months", "m", 12, "How many months to report for")
	outPath = flags.StringP("out", "o", "", "The csv file to write to (default <id>.csv)")
	showTable = flags.Bool("table", false, "Also print the tournaments as a table.")
	dbPath = flags.String("db", "", "A sqlite database to keep the history of runs in.")
	configPath = flags.String("config", "", "The config file (default: fidescrape.json5 in the working directory or above)")
	verbose = flags.BoolP("verbose", "v", false, "Log every request.")
	dumpHttp = flags.String("dump-http", "", "A directory to write every HTTP request and response to.")

	err := rootCmd.MarkFlagRequired("id")
	if err != nil {
		panic(err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fidescrape --id <player id> [--months 12]",
	Short: "fidescrape collects the rated tournaments of a FIDE player and their performance ratings.",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if *months <= 0 {
			return fmt.Errorf("--months must be positive, got %d", *months)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		scrape(cmd.Context(), cfg)
	},
}

func scrape(ctx context.Context, cfg Config) {
	tel := telemetry.SlogAPI{}

	opts := cfg.ClientOptions()
	if *dumpHttp != "" {
		out, err := restyutil.NewFilesystemOutput(*dumpHttp)
		if err != nil {
			serviceutil.Fatal("failed to prepare http dump directory", err)
		}
		opts.MessageOutput = out
	}

	client, err := fide.NewClient(opts, tel)
	if err != nil {
		serviceutil.Fatal("failed to initialize fide client", err)
	}

	p := pipeline.New(pipeline.Options{
		Fetcher:  client,
		Time:     chrono.NewStandardTime(),
		Tel:      tel,
		Throttle: cfg.Throttle(),
		Progress: func(e pipeline.Event) {
			fmt.Println(e)
		},
	})

	startedAt := time.Now()
	tournaments, runErr := p.Run(ctx, *playerId, *months)
	if runErr != nil && len(tournaments) == 0 {
		serviceutil.Fatal("failed to scrape rating reports", runErr)
	}

	out := *outPath
	if out == "" {
		out = export.FileName(*playerId)
	}
	err = export.WriteCSVFile(out, tournaments)
	if err != nil {
		serviceutil.Fatal("failed to write csv", err)
	}
	slog.Info("wrote tournaments", "path", out, "count", len(tournaments))

	if *showTable {
		export.RenderTable(os.Stdout, tournaments)
	}

	if *dbPath != "" {
		saveHistory(ctx, *dbPath, store.Run{
			PlayerId:  *playerId,
			Months:    *months,
			StartedAt: startedAt,
		}, tournaments)
	}

	if runErr != nil {
		serviceutil.Fatal("scraping stopped early, the csv only has the periods before the failure", runErr)
	}
}

func saveHistory(ctx context.Context, path string, run store.Run, tournaments []fide.Tournament) {
	db, err := store.Open(path)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	defer db.Close()

	run, err = db.SaveRun(ctx, run, tournaments)
	if err != nil {
		serviceutil.Fatal("failed to save run", err)
	}
	slog.Info("saved run", "db", path, "run_id", run.ID)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
