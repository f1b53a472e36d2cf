package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	AppEnv       string `validate:"required,oneof=development production test"`
	HTTPAddr     string `validate:"required"`
	DataDir      string `validate:"required"`
	StoreBackend string `validate:"required,oneof=file postgres"`

	DBDSN             string `validate:"required_if=StoreBackend postgres"`
	DBMaxOpenConns    int    `validate:"gte=1"`
	DBMaxIdleConns    int    `validate:"gte=1"`
	DBConnMaxLifeMins int    `validate:"gte=1"`

	TestsDir     string `validate:"required"`
	SolutionsDir string `validate:"required"`
	ImagesDir    string `validate:"required"`
	ConverterBin string `validate:"required"`

	ExamLength           int `validate:"gte=1"`
	ScoreRateLimitPerMin int `validate:"gte=1"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	dataDir := envOrDefault("DATA_DIR", "data")
	cfg := Config{
		AppEnv:               envOrDefault("APP_ENV", "development"),
		HTTPAddr:             envOrDefault("HTTP_ADDR", ":8080"),
		DataDir:              dataDir,
		StoreBackend:         strings.ToLower(envOrDefault("STORE_BACKEND", StoreBackendFile)),
		DBDSN:                os.Getenv("DB_DSN"),
		DBMaxOpenConns:       intOrDefault("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       intOrDefault("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifeMins:    intOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		TestsDir:             envOrDefault("TESTS_DIR", filepath.Join(dataDir, "tests")),
		SolutionsDir:         envOrDefault("SOLUTIONS_DIR", filepath.Join(dataDir, "solutionSheets")),
		ImagesDir:            envOrDefault("IMAGES_DIR", filepath.Join(dataDir, "images")),
		ConverterBin:         envOrDefault("CONVERTER_BIN", "mammoth"),
		ExamLength:           intOrDefault("EXAM_LENGTH", 80),
		ScoreRateLimitPerMin: intOrDefault("SCORE_RATE_LIMIT_PER_MINUTE", 60),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) Development() bool {
	return c.AppEnv == "development"
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsToInt(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

func intOrDefault(key string, fallback int) int {
	v := stringsToInt(os.Getenv(key))
	if v <= 0 {
		return fallback
	}
	return v
}
