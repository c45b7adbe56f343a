package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults
	TargetWords      int
	OverlapSentences int

	// Record segmentation defaults
	MinLineLen      int
	MinHeadingChars int
	MaxHeadingChars int
	MinSeparatorLen int

	// Job state
	JobTTL      time.Duration
	StatsWindow time.Duration

	// Archive downloads
	ArchiveBaseURL string
	ArchiveDelay   time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("BATCHIN_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		TargetWords:      envInt("TARGET_WORDS", 180),
		OverlapSentences: envInt("OVERLAP_SENTENCES", 1),

		MinLineLen:      envInt("MIN_LINE_LEN", 10),
		MinHeadingChars: envInt("MIN_HEADING_CHARS", 3),
		MaxHeadingChars: envInt("MAX_HEADING_CHARS", 40),
		MinSeparatorLen: envInt("MIN_SEPARATOR_LEN", 4),

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		ArchiveBaseURL: envOr("ARCHIVE_BASE_URL", "https://archive.org"),
		ArchiveDelay:   envDuration("ARCHIVE_DELAY", 1500*time.Millisecond),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.TargetWords <= 0 {
		cfg.TargetWords = 180
	}
	if cfg.OverlapSentences < 0 {
		cfg.OverlapSentences = 0
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("BATCHIN_API_KEY is required")
	}
	if c.OverlapSentences >= c.TargetWords {
		return fmt.Errorf("OVERLAP_SENTENCES must be smaller than TARGET_WORDS")
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
