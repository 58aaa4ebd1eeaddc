package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/trustlens/trustlens/internal/cache"
	"github.com/trustlens/trustlens/internal/database"
	"github.com/trustlens/trustlens/internal/llm"
	"github.com/trustlens/trustlens/internal/logger"
	"github.com/trustlens/trustlens/internal/model"
	"github.com/trustlens/trustlens/internal/pipeline"
	"github.com/trustlens/trustlens/internal/store"
	"github.com/trustlens/trustlens/internal/validate"
	"github.com/trustlens/trustlens/internal/worker"
)

// loadConfig assembles the effective configuration: defaults, then config
// file, then environment. API keys and database credentials come from the
// environment only.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.LLM.Research.Provider == "openai" {
			cfg.LLM.Research.APIKey = key
		}
		if cfg.LLM.Extraction.Provider == "openai" {
			cfg.LLM.Extraction.APIKey = key
		}
	}
	if key := os.Getenv("PERPLEXITY_API_KEY"); key != "" && cfg.LLM.Research.Provider == "perplexity" {
		cfg.LLM.Research.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		if cfg.LLM.Research.Provider == "anthropic" {
			cfg.LLM.Research.APIKey = key
		}
		if cfg.LLM.Extraction.Provider == "anthropic" {
			cfg.LLM.Extraction.APIKey = key
		}
	}

	for env, target := range map[string]*string{
		"DB_HOST":     &cfg.Database.Host,
		"DB_PORT":     &cfg.Database.Port,
		"DB_USER":     &cfg.Database.User,
		"DB_PASSWORD": &cfg.Database.Password,
		"DB_NAME":     &cfg.Database.Name,
	} {
		if v := os.Getenv(env); v != "" {
			*target = v
		}
	}

	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".trustlens", "cache")
		}
	}

	return cfg, nil
}

// buildProviders constructs the research and extraction providers with
// caching and per-provider rate limiting applied.
func buildProviders(cfg *model.Config) (research, extraction llm.Provider, err error) {
	research, err = llm.NewProvider(llm.ConfigFromModel(cfg.LLM.Research))
	if err != nil {
		return nil, nil, fmt.Errorf("build research provider: %w", err)
	}
	if research == nil {
		return nil, nil, fmt.Errorf("no research provider configured")
	}

	if cfg.LLM.Extraction.Provider == cfg.LLM.Research.Provider && cfg.LLM.Extraction.Model == cfg.LLM.Research.Model {
		extraction = research
	} else {
		extraction, err = llm.NewProvider(llm.ConfigFromModel(cfg.LLM.Extraction))
		if err != nil {
			return nil, nil, fmt.Errorf("build extraction provider: %w", err)
		}
		if extraction == nil {
			extraction = research
		}
	}

	completionCache := cache.New(cfg.Cache)
	limiter := worker.NewLimiter(cfg.Analysis.RequestsPerSecond, cfg.Analysis.Burst)

	research = llm.WithRateLimit(llm.WithCache(research, completionCache, cfg.Cache.DiskTTL), limiter)
	extraction = llm.WithRateLimit(llm.WithCache(extraction, completionCache, cfg.Cache.DiskTTL), limiter)
	return research, extraction, nil
}

// buildPipeline assembles the full analysis pipeline over an open database
// handle.
func buildPipeline(cfg *model.Config, db *gorm.DB, log *logger.Logger) (*pipeline.Pipeline, *pipeline.Enricher, *store.Store, error) {
	research, extraction, err := buildProviders(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	st := store.New(db)

	journals, err := st.Journals.All()
	if err != nil {
		return nil, nil, nil, err
	}
	classifier := validate.NewJournalClassifier(journals, cfg.Validation.TrustedDomains)

	var links *validate.LinkChecker
	if cfg.Validation.Enabled {
		links = validate.NewLinkChecker(cfg.Validation)
	}

	enricher := pipeline.NewEnricher(research)
	p := pipeline.New(
		st,
		pipeline.NewContentFetcher(research),
		pipeline.NewClaimExtractor(extraction, cfg.Analysis.MaxClaimsPerAnalysis),
		pipeline.NewVerifier(research, classifier, links),
		enricher,
		cfg.Analysis,
		log,
	)
	return p, enricher, st, nil
}

// connectDatabase opens and migrates the configured database.
func connectDatabase(cfg *model.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}
