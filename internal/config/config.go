package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the applyform tools.
type AppConfig struct {
	SubmitURL        string
	SubmitPath       string
	SubmitFormat     string
	CatalogDir       string
	ValidateContract bool
	FormID           string
	LogLevel         string
	Environment      string
}

// Load reads configuration from environment variables and .env files.
// Without explicit files a .env in the working directory is loaded when
// present; explicit files must exist. Existing environment variables are
// never overridden.
func Load(envFiles ...string) (*AppConfig, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: load env files: %w", err)
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds the configuration from a getenv-style function.
func FromLookup(getenv func(string) string) (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.SubmitURL = strings.TrimSpace(getenv("APPLYFORM_SUBMIT_URL"))
	if cfg.SubmitURL == "" {
		cfg.SubmitURL = "http://localhost:3000"
	}

	cfg.SubmitPath = strings.TrimSpace(getenv("APPLYFORM_SUBMIT_PATH"))
	if cfg.SubmitPath == "" {
		cfg.SubmitPath = "/api/submit"
	}

	cfg.SubmitFormat = strings.ToLower(strings.TrimSpace(getenv("APPLYFORM_SUBMIT_FORMAT")))
	switch cfg.SubmitFormat {
	case "":
		cfg.SubmitFormat = "json"
	case "json", "form":
	default:
		return nil, fmt.Errorf("config: invalid APPLYFORM_SUBMIT_FORMAT %q", cfg.SubmitFormat)
	}

	cfg.CatalogDir = strings.TrimSpace(getenv("APPLYFORM_CATALOG_DIR"))

	if raw := strings.TrimSpace(getenv("APPLYFORM_VALIDATE_CONTRACT")); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("config: invalid APPLYFORM_VALIDATE_CONTRACT: %w", err)
		}
		cfg.ValidateContract = enabled
	}

	cfg.FormID = strings.TrimSpace(getenv("APPLYFORM_FORM_ID"))
	if cfg.FormID == "" {
		cfg.FormID = "scholarship.apply"
	}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}
