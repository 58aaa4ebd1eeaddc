package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/trustlens/trustlens/internal/database"
	"github.com/trustlens/trustlens/internal/logger"
	"github.com/trustlens/trustlens/internal/pipeline"
	"github.com/trustlens/trustlens/internal/worker"
)

// defaultRoster is the starter set of widely followed health influencers.
var defaultRoster = []string{
	"Andrew Huberman",
	"Dr. Peter Attia",
	"Dr. Rhonda Patrick",
	"Dr. Mark Hyman",
	"Dr. Eric Berg",
	"Max Lugavere",
	"Dave Asprey",
	"Dr. Will Cole",
}

var (
	seedWorkers int
	seedRetries int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with a starter influencer roster",
	Long: `Run the default influencer roster through the full analysis
pipeline. Each influencer is retried with linear backoff on failure, and a
summary of seeded and failed names is printed at the end.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVar(&seedWorkers, "workers", 2, "influencers analyzed in parallel")
	seedCmd.Flags().IntVar(&seedRetries, "retries", 3, "attempts per influencer")
}

type seedJob struct {
	pipeline *pipeline.Pipeline
	name     string
	retries  int
	log      *logger.Logger
}

type seedResult struct {
	name string
	err  error
}

func (r *seedResult) GetError() error { return r.err }

func (j *seedJob) Execute(ctx context.Context) worker.Result {
	var err error
	for attempt := 1; attempt <= j.retries; attempt++ {
		_, err = j.pipeline.Analyze(ctx, pipeline.AnalyzeRequest{InfluencerName: j.name})
		if err == nil {
			return &seedResult{name: j.name}
		}
		j.log.Warn("seed attempt failed", "influencer", j.name, "attempt", attempt, "error", err)
		if attempt < j.retries {
			select {
			case <-ctx.Done():
				return &seedResult{name: j.name, err: ctx.Err()}
			case <-time.After(time.Duration(attempt) * 2 * time.Second):
			}
		}
	}
	return &seedResult{name: j.name, err: err}
}

func runSeed(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	db, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	p, _, _, err := buildPipeline(cfg, db, log)
	if err != nil {
		return err
	}

	jobs := make([]worker.Job, len(defaultRoster))
	for i, name := range defaultRoster {
		jobs[i] = &seedJob{pipeline: p, name: name, retries: seedRetries, log: log}
	}

	results := worker.Run(context.Background(), seedWorkers, jobs)

	seeded, failed := 0, 0
	for _, r := range results {
		sr := r.(*seedResult)
		if sr.err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", sr.name, sr.err)
			continue
		}
		seeded++
		fmt.Printf("✓ %s\n", sr.name)
	}

	fmt.Printf("\nSeeded %d influencers, %d failed\n", seeded, failed)
	return nil
}
