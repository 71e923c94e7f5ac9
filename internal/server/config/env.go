package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays values from environment variables. Unset or unparsable
// variables keep the current value. The process is expected to have loaded
// an optional .env file before LoadConfig runs.
func parseEnv(config *Config) {
	config.EndpointAddrGRPC = getEnv("GRPC_ADDR", config.EndpointAddrGRPC)
	config.DatabaseDriver = getEnv("DATABASE_DRIVER", config.DatabaseDriver)
	config.DatabaseDSN = getEnv("DATABASE_DSN", config.DatabaseDSN)
	config.SecretKey = getEnv("SECRET_KEY", config.SecretKey)
	config.ConfirmationTokenMaxAge = getEnvDuration("CONFIRMATION_TOKEN_MAX_AGE", config.ConfirmationTokenMaxAge)
	config.SessionTokenValidityDuration = getEnvDuration("SESSION_TOKEN_VALIDITY", config.SessionTokenValidityDuration)
	config.TaxRate = getEnvFloat("TAX_RATE", config.TaxRate)
	config.RequireSession = getEnvBool("REQUIRE_SESSION", config.RequireSession)
	config.BcryptCost = getEnvInt("BCRYPT_COST", config.BcryptCost)
	config.S3RootUser = getEnv("S3_ROOT_USER", config.S3RootUser)
	config.S3RootPassword = getEnv("S3_ROOT_PASSWORD", config.S3RootPassword)
	config.S3Bucket = getEnv("S3_BUCKET", config.S3Bucket)
	config.S3Region = getEnv("S3_REGION", config.S3Region)
	config.S3BaseEndpoint = getEnv("S3_BASE_ENDPOINT", config.S3BaseEndpoint)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
