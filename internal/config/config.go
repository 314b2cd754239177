package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Renderer names accepted in export.renderer
const (
	RendererPDF    = "pdf"
	RendererChrome = "chrome"
)

// Config represents the complete service configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Export      ExportConfig      `yaml:"export"`
	Storage     StorageConfig     `yaml:"storage"`
	Cleanup     CleanupConfig     `yaml:"cleanup"`
	Auth        AuthConfig        `yaml:"auth"`
	GoogleDrive GoogleDriveConfig `yaml:"google_drive"`
}

// ServerConfig contains HTTP listener configuration
type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	MaxFileSizeMB int    `yaml:"max_file_size_mb"`
	AllowOrigins  string `yaml:"allow_origins"`
}

// GeminiConfig contains upstream transcription configuration
type GeminiConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	APIVersion     string `yaml:"api_version"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 0 = no limit
}

// ExportConfig selects the PDF engine and font
type ExportConfig struct {
	Renderer             string `yaml:"renderer"`
	FontPath             string `yaml:"font_path"`
	FontFamily           string `yaml:"font_family"`
	ChromePath           string `yaml:"chrome_path"`
	ChromeTimeoutSeconds int    `yaml:"chrome_timeout_seconds"`
}

// StorageConfig contains local paths
type StorageConfig struct {
	Database string `yaml:"database"`
	TempDir  string `yaml:"temp_dir"`
}

// CleanupConfig controls the spool sweeper
type CleanupConfig struct {
	IntervalMinutes int `yaml:"interval_minutes"`
	MaxAgeHours     int `yaml:"max_age_hours"`
}

// AuthConfig contains the access token secret
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// GoogleDriveConfig contains optional Drive upload settings
type GoogleDriveConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	FolderName      string `yaml:"folder_name"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			MaxFileSizeMB: 20,
			AllowOrigins:  "*",
		},
		Gemini: GeminiConfig{
			BaseURL:    "https://generativelanguage.googleapis.com",
			APIVersion: "v1",
			Model:      "gemini-2.5-flash",
		},
		Export: ExportConfig{
			Renderer:             RendererPDF,
			ChromeTimeoutSeconds: 30,
		},
		Storage: StorageConfig{
			Database: "./data/voxscribe.db",
			TempDir:  "./temp",
		},
		Cleanup: CleanupConfig{
			IntervalMinutes: 60,
			MaxAgeHours:     24,
		},
		GoogleDrive: GoogleDriveConfig{
			CredentialsFile: "./config/credentials.json",
			TokenFile:       "./config/token.json",
			FolderName:      "VoxScribe Transcripts",
		},
	}
}

// Load reads .env, the YAML file at path (defaults if missing) and
// environment overrides, then validates the result
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("SUPABASE_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("VOXSCRIBE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VOXSCRIBE_PORT must be a number, got %q", v)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Gemini.Validate(); err != nil {
		return fmt.Errorf("gemini config: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export config: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	if err := c.Cleanup.Validate(); err != nil {
		return fmt.Errorf("cleanup config: %w", err)
	}
	return nil
}

// Addr returns host:port for the listener
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.MaxFileSizeMB < 1 {
		return fmt.Errorf("max_file_size_mb must be at least 1, got %d", s.MaxFileSizeMB)
	}
	return nil
}

// Timeout returns the upstream timeout, zero meaning none
func (g *GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Validate validates gemini configuration. The API key is checked where the
// transcriber is built so export-only tooling can run without one.
func (g *GeminiConfig) Validate() error {
	if g.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds cannot be negative, got %d", g.TimeoutSeconds)
	}
	return nil
}

// ChromeTimeout returns the headless print timeout
func (e *ExportConfig) ChromeTimeout() time.Duration {
	return time.Duration(e.ChromeTimeoutSeconds) * time.Second
}

// Validate validates export configuration
func (e *ExportConfig) Validate() error {
	switch e.Renderer {
	case RendererPDF, RendererChrome:
	default:
		return fmt.Errorf("renderer must be %q or %q, got %q", RendererPDF, RendererChrome, e.Renderer)
	}
	if e.Renderer == RendererChrome && e.ChromeTimeoutSeconds < 1 {
		return fmt.Errorf("chrome_timeout_seconds must be at least 1, got %d", e.ChromeTimeoutSeconds)
	}
	return nil
}

// Validate validates storage configuration
func (s *StorageConfig) Validate() error {
	if s.Database == "" {
		return fmt.Errorf("database cannot be empty")
	}
	if s.TempDir == "" {
		return fmt.Errorf("temp_dir cannot be empty")
	}
	return nil
}

// Interval returns the sweep interval
func (c *CleanupConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// MaxAge returns the age after which spool files are removed
func (c *CleanupConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeHours) * time.Hour
}

// Validate validates cleanup configuration
func (c *CleanupConfig) Validate() error {
	if c.IntervalMinutes < 1 {
		return fmt.Errorf("interval_minutes must be at least 1, got %d", c.IntervalMinutes)
	}
	if c.MaxAgeHours < 1 {
		return fmt.Errorf("max_age_hours must be at least 1, got %d", c.MaxAgeHours)
	}
	return nil
}
