package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/docupload/internal/flagx"
)

// parseFlags applies the short flags found in args.
//
//	-a string   HTTP listen address (e.g., ":8080")
//	-l string   public base URL
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-x int      upload token validity, minutes
//	-m string   storage backend: local or s3
//	-f string   local storage directory
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-o string   descriptor mode: negotiation or transfer
//	-v string   log level
//
// Other arguments, including -c and -issue-token, are ignored here.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-a", "-l", "-d", "-s", "-t", "-x", "-m", "-f", "-u", "-p", "-b", "-g", "-e", "-o", "-v",
	})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address and port to run server")
	fs.StringVar(&cfg.PublicURL, "l", cfg.PublicURL, "public base url")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")

	access := fs.Int("t", int(cfg.AccessTokenValidity.Minutes()), "access token validity (in minutes)")
	uploadTTL := fs.Int("x", int(cfg.UploadTokenValidity.Minutes()), "upload token validity (in minutes)")

	fs.StringVar(&cfg.Storage, "m", cfg.Storage, "storage backend")
	fs.StringVar(&cfg.LocalStorageDir, "f", cfg.LocalStorageDir, "local storage directory")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.DescriptorMode, "o", cfg.DescriptorMode, "descriptor mode")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Durations change only when their flag is given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.AccessTokenValidity = time.Duration(*access) * time.Minute
		case "x":
			cfg.UploadTokenValidity = time.Duration(*uploadTTL) * time.Minute
		}
	})
	return nil
}
