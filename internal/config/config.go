package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration. Values come from defaults,
// then an optional YAML file (CONFIG_FILE), then environment overrides.
type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Remote extraction service. Empty means local extraction only.
	ExtractorURL    string `yaml:"extractor_url"`
	ExtractorAPIKey string `yaml:"extractor_api_key"`

	// Structure inference. Empty key disables the inference upgrade.
	InferURL    string `yaml:"infer_url"`
	InferAPIKey string `yaml:"infer_api_key"`
	InferModel  string `yaml:"infer_model"`

	// Worker pool
	WorkerCount         int `yaml:"worker_count"`
	MaxQueueSize        int `yaml:"max_queue_size"`
	MaxConcurrentEnrich int `yaml:"max_concurrent_enrich"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Structure detection
	FallbackPageSize int `yaml:"fallback_page_size"`

	// Artifacts
	IncludeBoxText  bool   `yaml:"include_box_text"`
	PreviewMaxChars int    `yaml:"preview_max_chars"`
	DBPath          string `yaml:"db_path"`

	// Job state. Env-only: yaml has no duration syntax worth keeping.
	JobTTL time.Duration `yaml:"-"`

	// PDF
	PDFPlainTextFallback bool `yaml:"pdf_plain_text_fallback"`
}

func defaults() Config {
	return Config{
		Port:                 "8091",
		InferModel:           "claude-sonnet-4-5-20250929",
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxConcurrentEnrich:  4,
		MaxUploadBytes:       104857600, // 100MB
		FallbackPageSize:     15,
		IncludeBoxText:       true,
		PreviewMaxChars:      400,
		DBPath:               "docstruct.db",
		JobTTL:               1 * time.Hour,
		PDFPlainTextFallback: true,
	}
}

// Load assembles the configuration. File errors are returned rather than
// ignored so a misspelled CONFIG_FILE does not silently run on defaults.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("DOCSTRUCT_API_KEY", cfg.APIKey)

	cfg.ExtractorURL = envOr("EXTRACTOR_URL", cfg.ExtractorURL)
	cfg.ExtractorAPIKey = envOr("EXTRACTOR_API_KEY", cfg.ExtractorAPIKey)

	cfg.InferURL = envOr("INFER_URL", cfg.InferURL)
	cfg.InferAPIKey = envOr("ANTHROPIC_API_KEY", cfg.InferAPIKey)
	cfg.InferModel = envOr("ANTHROPIC_MODEL", cfg.InferModel)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxConcurrentEnrich = envInt("MAX_CONCURRENT_ENRICH", cfg.MaxConcurrentEnrich)

	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	cfg.FallbackPageSize = envInt("FALLBACK_PAGE_SIZE", cfg.FallbackPageSize)

	cfg.IncludeBoxText = envBool("INCLUDE_BOX_TEXT", cfg.IncludeBoxText)
	cfg.PreviewMaxChars = envInt("PREVIEW_MAX_CHARS", cfg.PreviewMaxChars)
	cfg.DBPath = envOr("DB_PATH", cfg.DBPath)

	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)

	cfg.PDFPlainTextFallback = envBool("PDF_PLAIN_TEXT_FALLBACK", cfg.PDFPlainTextFallback)

	def := defaults()
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = def.WorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = def.MaxQueueSize
	}
	if cfg.MaxConcurrentEnrich <= 0 {
		cfg.MaxConcurrentEnrich = def.MaxConcurrentEnrich
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.FallbackPageSize <= 0 {
		cfg.FallbackPageSize = def.FallbackPageSize
	}
	if cfg.PreviewMaxChars <= 0 {
		cfg.PreviewMaxChars = def.PreviewMaxChars
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = def.JobTTL
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSTRUCT_API_KEY is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
