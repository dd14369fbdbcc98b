// Package config provides library configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all data protection configuration.
//
// The root secret itself is not part of Config: the derived-key strategy
// loads it through domain.LoadRootKeyFromEnv, and the sealed strategy
// carries only references here (the keeper URI and the sealed blob).
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace prefix for metric names.
	MetricsNamespace string

	// KMSKeyURI is the keeper URI used to unseal the root secret in the
	// sealed strategy (e.g., "gcpkms://...", "hashivault://...",
	// "base64key://..." for development).
	KMSKeyURI string
	// SealedRootKey is the keeper-sealed root blob, standard base64.
	SealedRootKey string
	// SealedRootEntropy is the optional entropy salt mixed into sealed
	// derivations, standard base64.
	SealedRootEntropy string

	// DefaultAlgorithm is the AEAD used by the sealed strategy
	// ("aes-gcm" or "chacha20-poly1305").
	DefaultAlgorithm string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "dataprotection"),

		// Sealed root secret
		KMSKeyURI:         env.GetString("KMS_KEY_URI", ""),
		SealedRootKey:     env.GetString("SEALED_ROOT_KEY", ""),
		SealedRootEntropy: env.GetString("SEALED_ROOT_ENTROPY", ""),

		// Sealed strategy cipher
		DefaultAlgorithm: env.GetString("DEFAULT_ALGORITHM", "aes-gcm"),
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
