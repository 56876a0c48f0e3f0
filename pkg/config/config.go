package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env"`
	Server   ServerConfig   `yaml:"server"`
	Upload   UploadConfig   `yaml:"upload"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type UploadConfig struct {
	MaxFileSize int64 `yaml:"max_file_size"` // bytes
}

type StorageConfig struct {
	Driver    string `yaml:"driver"` // local | s3 | memory
	LocalDir  string `yaml:"local_dir"`
	PublicURL string `yaml:"public_url"` // base URL objects are served from
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
}

type DatabaseConfig struct {
	Driver        string `yaml:"driver"` // postgres | mysql | memory
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	DBName        string `yaml:"dbname"`
	AutoMigration bool   `yaml:"auto_migration"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%s", r.Host, r.Port) }

type AuthConfig struct {
	AdminEmail        string        `yaml:"admin_email"`
	AdminPasswordHash string        `yaml:"admin_password_hash"` // bcrypt
	SessionTTL        time.Duration `yaml:"session_ttl"`
}

type CleanupConfig struct {
	Schedule string        `yaml:"schedule"` // cron spec with seconds field
	MinAge   time.Duration `yaml:"min_age"`
	InServer bool          `yaml:"in_server"`
}

func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port: "3000",
			Host: "localhost",
		},
		Upload: UploadConfig{
			MaxFileSize: 25 * 1024 * 1024, // 25MB
		},
		Storage: StorageConfig{
			Driver:    "local",
			LocalDir:  "uploads",
			PublicURL: "http://localhost:3000/media",
			Region:    "eu-central-1",
		},
		Database: DatabaseConfig{
			Driver: "postgres",
			Host:   "localhost",
			Port:   "5432",
			User:   "postgres",
			DBName: "artfolio",
		},
		Redis: RedisConfig{
			Port: "6379",
		},
		Auth: AuthConfig{
			SessionTTL: 12 * time.Hour,
		},
		Cleanup: CleanupConfig{
			Schedule: "0 0 */6 * * *",
			MinAge:   24 * time.Hour,
		},
	}
}

// LoadConfig reads .env (if any), then the YAML file named by CONFIG_FILE (if
// any), then environment variables. Later sources win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if cfg.Storage.Driver == "local" && !filepath.IsAbs(cfg.Storage.LocalDir) {
		root, err := findProjectRoot()
		if err != nil {
			return nil, err
		}
		cfg.Storage.LocalDir = filepath.Join(root, cfg.Storage.LocalDir)
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Env = getEnv("APP_ENV", c.Env)

	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)

	c.Upload.MaxFileSize = getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", c.Upload.MaxFileSize)

	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.LocalDir = getEnv("UPLOAD_DIR", c.Storage.LocalDir)
	c.Storage.PublicURL = getEnv("STORAGE_PUBLIC_URL", c.Storage.PublicURL)
	c.Storage.Bucket = getEnv("S3_BUCKET", c.Storage.Bucket)
	c.Storage.Region = getEnv("AWS_REGION", c.Storage.Region)
	c.Storage.Endpoint = getEnv("S3_ENDPOINT", c.Storage.Endpoint)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.AutoMigration = getEnvAsBool("RUN_AUTO_MIGRATION", c.Database.AutoMigration)

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnv("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = int(getEnvAsInt64("REDIS_DB", int64(c.Redis.DB)))

	c.Auth.AdminEmail = getEnv("ADMIN_EMAIL", c.Auth.AdminEmail)
	c.Auth.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", c.Auth.AdminPasswordHash)
	c.Auth.SessionTTL = getEnvAsDuration("SESSION_TTL", c.Auth.SessionTTL)

	c.Cleanup.Schedule = getEnv("CLEANUP_SCHEDULE", c.Cleanup.Schedule)
	c.Cleanup.MinAge = getEnvAsDuration("CLEANUP_MIN_AGE", c.Cleanup.MinAge)
	c.Cleanup.InServer = getEnvAsBool("CLEANUP_IN_SERVER", c.Cleanup.InServer)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func findProjectRoot() (string, error) {
	current, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// no go.mod above us, stay where we are
			return os.Getwd()
		}
		current = parent
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
