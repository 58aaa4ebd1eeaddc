package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/trustlens/trustlens/internal/database"
	"github.com/trustlens/trustlens/internal/logger"
	"github.com/trustlens/trustlens/internal/pipeline"
)

var (
	analyzeTimeRange string
	analyzeMaxClaims int
	analyzeTimeout   time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <influencer name>",
	Short: "Run one analysis from the terminal",
	Long: `Run the full pipeline for a single influencer and print the result
as JSON.

Example:
  trustlens analyze "Andrew Huberman"
  trustlens analyze "Andrew Huberman" --time-range 90d --max-claims 20`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeTimeRange, "time-range", "", "content window, e.g. 7d, 30d, 90d (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeMaxClaims, "max-claims", 0, "cap on claims per run (default from config)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 10*time.Minute, "overall run timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	result, err := p.Analyze(ctx, pipeline.AnalyzeRequest{
		InfluencerName: args[0],
		TimeRange:      analyzeTimeRange,
		MaxClaims:      analyzeMaxClaims,
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
