package config

import "time"

// Config represents the complete configuration for the cmldb tooling.
// It provides type-safe access to all configuration values with validation.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"  validate:"required"`
	Bootstrap BootstrapConfig `koanf:"bootstrap" validate:"required"`
	Seed      SeedConfig      `koanf:"seed"      validate:"required"`
	Runtime   RuntimeConfig   `koanf:"runtime"   validate:"required"`
}

// DatabaseConfig contains database connection configuration.
type DatabaseConfig struct {
	ConnString string          `koanf:"conn_string" env:"DB_CONN_STRING"`
	Host       string          `koanf:"host"        env:"DB_HOST"`
	Port       string          `koanf:"port"        env:"DB_PORT"`
	User       string          `koanf:"user"        env:"DB_USER"`
	Password   SensitiveString `koanf:"password"    env:"DB_PASSWORD"    sensitive:"true"`
	DBName     string          `koanf:"name"        env:"DB_NAME"`
	SSLMode    string          `koanf:"ssl_mode"    env:"DB_SSL_MODE"`
}

// BootstrapConfig controls the startup provisioning statements.
// Defaults reproduce the original init script: the uuid-ossp extension and a
// full grant on the application database to the application role.
type BootstrapConfig struct {
	Extensions    []string      `koanf:"extensions"     env:"BOOTSTRAP_EXTENSIONS"     validate:"min=1,dive,required"`
	GrantDatabase string        `koanf:"grant_database" env:"BOOTSTRAP_GRANT_DATABASE" validate:"required"`
	GrantRole     string        `koanf:"grant_role"     env:"BOOTSTRAP_GRANT_ROLE"     validate:"required"`
	LockTimeout   time.Duration `koanf:"lock_timeout"   env:"BOOTSTRAP_LOCK_TIMEOUT"`
}

// SeedConfig controls master-data loading.
type SeedConfig struct {
	File         string `koanf:"file"          env:"SEED_FILE"`
	BatchSize    int    `koanf:"batch_size"    env:"SEED_BATCH_SIZE"    validate:"min=1"`
	KeepExisting bool   `koanf:"keep_existing" env:"SEED_KEEP_EXISTING"`
}

// RuntimeConfig contains runtime behavior configuration.
type RuntimeConfig struct {
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error" env:"RUNTIME_LOG_LEVEL"`
}

// Default returns the built-in configuration. Connection defaults match the
// compose environment the init script originally ran in.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			DBName:  "cml_optimization",
			SSLMode: "disable",
		},
		Bootstrap: BootstrapConfig{
			Extensions:    []string{"uuid-ossp"},
			GrantDatabase: "cml_optimization",
			GrantRole:     "cml_user",
			LockTimeout:   45 * time.Second,
		},
		Seed: SeedConfig{
			File:      "data/raw/CML_Optimization_Sample_Data.xlsx",
			BatchSize: 50,
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
	}
}
