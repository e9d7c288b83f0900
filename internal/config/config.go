package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds all runtime configuration, parsed from environment variables.
// It is constructed once at startup and passed explicitly to each component.
type Config struct {
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	DevMode  bool   `env:"DEV_MODE"  envDefault:"false"`
	AppName  string `env:"APP_NAME"  envDefault:"estate-hub"`

	MongoURI    string `env:"MONGO_URI"     envDefault:"mongodb://localhost:27017"`
	MongoDBName string `env:"MONGO_DB_NAME" envDefault:"estatehub"`

	JWTSecret           string        `env:"JWT_SECRET"`
	TokenExpiresIn      time.Duration `env:"TOKEN_EXPIRES_IN"       envDefault:"720h"`
	ResetTokenExpires   time.Duration `env:"RESET_TOKEN_EXPIRES_IN" envDefault:"1h"`
	TrialPeriod         time.Duration `env:"TRIAL_PERIOD"           envDefault:"720h"`
	AppPasswordResetURL string        `env:"APP_PASSWORD_RESET_URL" envDefault:"http://localhost:3000/reset-password"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`
}

// Load creates a Config instance from environment variables.
func Load(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks that required configuration is present.
func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("missing MONGO_DB_NAME environment variable")
	}

	return nil
}
