package model

import "time"

// Config is the full service configuration, assembled at startup and passed
// into components by reference. Nothing reads it from package-level state, so
// tests can construct a fresh one per case.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	LLM        LLMRouting       `yaml:"llm" mapstructure:"llm"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr        string   `yaml:"addr" mapstructure:"addr"`
	Mode        string   `yaml:"mode" mapstructure:"mode"` // debug or release
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// DatabaseConfig configures the Postgres connection.
type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Name     string `yaml:"name" mapstructure:"name"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"`
}

// LLMRouting assigns a provider to each role in the pipeline. Research covers
// content fetching, verification, enrichment, and discovery; Extraction
// covers claim extraction. The two may point at the same provider.
type LLMRouting struct {
	Research   LLMConfig `yaml:"research" mapstructure:"research"`
	Extraction LLMConfig `yaml:"extraction" mapstructure:"extraction"`
}

// LLMConfig configures a single generative-endpoint client.
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, perplexity, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`

	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// AnalysisConfig bounds a single pipeline run.
type AnalysisConfig struct {
	TimeRange            string  `yaml:"time_range" mapstructure:"time_range"` // e.g. 7d, 30d, 90d
	MaxClaimsPerAnalysis int     `yaml:"max_claims_per_analysis" mapstructure:"max_claims_per_analysis"`
	VerificationWorkers  int     `yaml:"verification_workers" mapstructure:"verification_workers"`
	RequestsPerSecond    float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst                int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig configures the completion cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ValidationConfig configures the optional evidence-link checker.
type ValidationConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Workers        int           `yaml:"workers" mapstructure:"workers"`
	UserAgent      string        `yaml:"user_agent" mapstructure:"user_agent"`
	TrustedDomains []string      `yaml:"trusted_domains" mapstructure:"trusted_domains"`

	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// LoggingConfig selects the logger profile.
type LoggingConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"` // dev or prod
}

// DefaultConfig returns sensible defaults. API keys are expected from the
// environment (OPENAI_API_KEY, PERPLEXITY_API_KEY, ANTHROPIC_API_KEY).
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":5008",
			Mode:        "debug",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "trustlens",
			SSLMode: "disable",
		},
		LLM: LLMRouting{
			Research: LLMConfig{
				Provider:  "perplexity",
				Model:     "sonar-pro",
				BaseURL:   "https://api.perplexity.ai",
				Timeout:   60,
				MaxTokens: 2000,
			},
			Extraction: LLMConfig{
				Provider:    "openai",
				Model:       "gpt-4o",
				Timeout:     60,
				MaxTokens:   2000,
				Temperature: 0.7,
			},
		},
		Analysis: AnalysisConfig{
			TimeRange:            "30d",
			MaxClaimsPerAnalysis: 100,
			VerificationWorkers:  5,
			RequestsPerSecond:    2,
			Burst:                5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // resolved to ~/.trustlens/cache at load
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Validation: ValidationConfig{
			Enabled:   false,
			Timeout:   10 * time.Second,
			Workers:   10,
			UserAgent: "TrustLens/0.1 (+https://github.com/trustlens/trustlens)",
			TrustedDomains: []string{
				"nih.gov", "pubmed.ncbi.nlm.nih.gov", "thelancet.com",
				"nejm.org", "jamanetwork.com", "bmj.com", "nature.com",
				"sciencedirect.com", "cochranelibrary.com", "who.int",
			},
		},
		Logging: LoggingConfig{
			Mode: "dev",
		},
	}
}
