package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/pymax/internal/flagx"
	"github.com/dmitrijs2005/pymax/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Durations
// use timex.Duration so both "48h" and integer nanoseconds are accepted.
// Pointer fields distinguish an explicit zero from an absent key.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDriver               string         `json:"database_driver"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	ConfirmationTokenMaxAge      timex.Duration `json:"confirmation_token_max_age"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	TaxRate                      *float64       `json:"tax_rate"`
	RequireSession               *bool          `json:"require_session"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config into config. Keys missing
// from the file leave the current values untouched. An unreadable file or
// invalid JSON panics, as a broken config file is a deployment error.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.ConfirmationTokenMaxAge.Duration != 0 {
		config.ConfirmationTokenMaxAge = c.ConfirmationTokenMaxAge.Duration
	}
	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.TaxRate != nil {
		config.TaxRate = *c.TaxRate
	}
	if c.RequireSession != nil {
		config.RequireSession = *c.RequireSession
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
