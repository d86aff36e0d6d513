package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientIDEnv overrides acoustid_client_id when set.
const ClientIDEnv = "ACOUSTID_CLIENT_ID"

// Config contains the program configuration
type Config struct {
	AcoustIDClientID      string `yaml:"acoustid_client_id"`
	AcoustIDURL           string `yaml:"acoustid_url"`
	MusicBrainzURL        string `yaml:"musicbrainz_url"`
	CoverArtURL           string `yaml:"coverart_url"`
	UserAgent             string `yaml:"user_agent"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	FpcalcPath            string `yaml:"fpcalc_path"`
	YtdlpPath             string `yaml:"ytdlp_path"`
	DownloadDir           string `yaml:"download_dir"`
	AudioFormat           string `yaml:"audio_format"`
	ParallelJobs          int    `yaml:"parallel_jobs"`
	QueueTarget           int    `yaml:"queue_target"`
	WriteTags             bool   `yaml:"write_tags"`
	DegradeArtworkErrors  bool   `yaml:"degrade_artwork_errors"`
	Verbose               bool   `yaml:"verbose"`
	LogFile               string `yaml:"log_file"`
	LogMaxSizeMB          int    `yaml:"log_max_size_mb"`
	WatchDebounceMs       int    `yaml:"watch_debounce_ms"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		AcoustIDURL:           "https://api.acoustid.org/v2/lookup",
		MusicBrainzURL:        "https://musicbrainz.org/ws/2",
		CoverArtURL:           "https://coverartarchive.org",
		UserAgent:             "jukebox/1.0 ( https://github.com/jukebox )",
		RequestTimeoutSeconds: 10,
		FpcalcPath:            "fpcalc",
		YtdlpPath:             "yt-dlp",
		DownloadDir:           filepath.Join(os.TempDir(), "jukebox"),
		AudioFormat:           "mp3",
		ParallelJobs:          4,
		QueueTarget:           3,
		WatchDebounceMs:       2000,
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
// The ACOUSTID_CLIENT_ID environment variable always wins over the file.
func LoadConfigFile(path string) (Config, error) {
	cfg, err := loadFile(path)
	cfg.applyEnv()
	return cfg, err
}

func loadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.DownloadDir = ExpandHome(cfg.DownloadDir)
	cfg.LogFile = ExpandHome(cfg.LogFile)

	return cfg, nil
}

func (c *Config) applyEnv() {
	if id := strings.TrimSpace(os.Getenv(ClientIDEnv)); id != "" {
		c.AcoustIDClientID = id
	}
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// WatchDebounce returns the quiet period a dropped file must reach before identification.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMs) * time.Millisecond
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./jukebox.yaml",
		"./jukebox.yml",
		filepath.Join(home, ".config", "jukebox", "config.yaml"),
		filepath.Join(home, ".config", "jukebox", "config.yml"),
		filepath.Join(home, ".jukebox.yaml"),
		filepath.Join(home, ".jukebox.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "jukebox", "config.yaml")
}

// GetDefaultLogPath returns the default log file path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "jukebox", "logs", "jukebox.log")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AcoustIDClientID) == "" {
		return fmt.Errorf("acoustid_client_id is required (or set %s)", ClientIDEnv)
	}

	for name, u := range map[string]string{
		"acoustid_url":    c.AcoustIDURL,
		"musicbrainz_url": c.MusicBrainzURL,
		"coverart_url":    c.CoverArtURL,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must start with http:// or https://, got %q", name, u)
		}
	}

	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("user_agent cannot be empty (MusicBrainz rejects anonymous clients)")
	}

	if c.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("request_timeout_seconds must be at least 1, got %d", c.RequestTimeoutSeconds)
	}

	if c.ParallelJobs < 1 {
		return fmt.Errorf("parallel jobs must be at least 1, got %d", c.ParallelJobs)
	}
	if c.ParallelJobs > 10 {
		return fmt.Errorf("parallel jobs cannot exceed 10, got %d", c.ParallelJobs)
	}

	if c.QueueTarget < 0 {
		return fmt.Errorf("queue_target cannot be negative, got %d", c.QueueTarget)
	}

	validFormats := []string{"mp3", "m4a", "opus", "flac", "wav", "aac"}
	isValid := false
	for _, format := range validFormats {
		if c.AudioFormat == format {
			isValid = true
			break
		}
	}
	if !isValid {
		return fmt.Errorf("unsupported audio format '%s', valid formats: %v", c.AudioFormat, validFormats)
	}

	if c.DownloadDir == "" {
		return fmt.Errorf("download_dir cannot be empty")
	}

	if c.FpcalcPath == "" {
		return fmt.Errorf("fpcalc_path cannot be empty")
	}

	if c.WatchDebounceMs < 0 {
		return fmt.Errorf("watch_debounce_ms cannot be negative, got %d", c.WatchDebounceMs)
	}

	return nil
}
