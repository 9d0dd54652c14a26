package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Auth      AuthConfig
	Screening ScreeningConfig

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins string
	LogJSON     bool
	LogDebug    bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	CallTimeout    time.Duration
	ThinkingBudget int32
}

type StorageConfig struct {
	Backend     string
	UploadPath  string
	GCSBucket   string
	MaxFileSize int64
	ScratchDir  string
	Timeout     time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type ScreeningConfig struct {
	BatchTimeout time.Duration
}

const (
	BlobBackendLocal = "local"
	BlobBackendGCS   = "gcs"
)

// Load reads .env (when present) and the process environment.
func Load() *Config {
	return LoadFrom(viper.New())
}

// LoadFrom resolves configuration through v, so callers can bind CLI flags
// onto the same keys before loading.
func LoadFrom(v *viper.Viper) *Config {
	envLoaded := godotenv.Load() == nil

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			Env:         v.GetString("ENV"),
			CORSOrigins: v.GetString("CORS_ORIGINS"),
			LogJSON:     v.GetBool("LOG_JSON"),
			LogDebug:    v.GetBool("LOG_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Gemini: GeminiConfig{
			APIKey:         strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
			Model:          v.GetString("GEMINI_MODEL"),
			CallTimeout:    v.GetDuration("AI_CALL_TIMEOUT"),
			ThinkingBudget: v.GetInt32("GEMINI_THINKING_BUDGET"),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(v.GetString("BLOB_BACKEND")),
			UploadPath:  v.GetString("UPLOAD_PATH"),
			GCSBucket:   v.GetString("GCS_BUCKET"),
			MaxFileSize: v.GetInt64("MAX_FILE_SIZE"),
			ScratchDir:  v.GetString("SCRATCH_DIR"),
			Timeout:     v.GetDuration("BLOB_TIMEOUT"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("TOKEN_TTL"),
		},
		Screening: ScreeningConfig{
			BatchTimeout: v.GetDuration("BATCH_TIMEOUT"),
		},
		EnvFileLoaded: envLoaded,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:4173")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_DEBUG", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "resume_screening")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("AI_CALL_TIMEOUT", "60s")
	v.SetDefault("GEMINI_THINKING_BUDGET", 0)

	v.SetDefault("BLOB_BACKEND", BlobBackendLocal)
	v.SetDefault("UPLOAD_PATH", "./uploads")
	v.SetDefault("MAX_FILE_SIZE", 20971520)
	v.SetDefault("SCRATCH_DIR", os.TempDir())
	v.SetDefault("BLOB_TIMEOUT", "30s")

	v.SetDefault("TOKEN_TTL", "168h")

	v.SetDefault("BATCH_TIMEOUT", "10m")
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required but not set")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	switch c.Storage.Backend {
	case BlobBackendLocal:
	case BlobBackendGCS:
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when BLOB_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("unknown BLOB_BACKEND: %q", c.Storage.Backend)
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.Storage.MaxFileSize)
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// AllowedOrigins splits CORS_ORIGINS into a trimmed list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
