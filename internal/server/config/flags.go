package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/pymax/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-k string   database driver ("pgx" or "sqlite")
//	-d string   database DSN
//	-s string   token HMAC secret key
//	-m int      confirmation token max age, minutes
//	-t int      session token validity, minutes
//	-x float    estimated tax rate (0..1)
//	-r          require a session token on ledger and report calls
//	-n int      bcrypt cost
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-a", "-k", "-d", "-s", "-m", "-t", "-x", "-n", "-u", "-p", "-b", "-g", "-e"},
		"-r")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver (pgx or sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	confirmationMaxAge := fs.Int("m", int(config.ConfirmationTokenMaxAge.Minutes()), "confirmation token max age (in minutes)")
	sessionValidity := fs.Int("t", int(config.SessionTokenValidityDuration.Minutes()), "session token validity (in minutes)")

	fs.Float64Var(&config.TaxRate, "x", config.TaxRate, "estimated tax rate applied to positive net profit")
	fs.BoolVar(&config.RequireSession, "r", config.RequireSession, "require session token on ledger calls")
	fs.IntVar(&config.BcryptCost, "n", config.BcryptCost, "bcrypt cost")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ConfirmationTokenMaxAge = time.Duration(*confirmationMaxAge) * time.Minute
	config.SessionTokenValidityDuration = time.Duration(*sessionValidity) * time.Minute
}
