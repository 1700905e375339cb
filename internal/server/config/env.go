package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

type lookupFunc func(key string) (string, bool)

// parseEnv overlays cfg with DOCUPLOAD_* variables. Values from envFile are
// used for keys the process environment does not define; a missing envFile
// is not an error.
func parseEnv(cfg *Config, envFile string, lookup lookupFunc) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	strs := map[string]*string{
		"DOCUPLOAD_HTTP_ADDR":         &cfg.HTTPAddr,
		"DOCUPLOAD_PUBLIC_URL":        &cfg.PublicURL,
		"DOCUPLOAD_DATABASE_DSN":      &cfg.DatabaseDSN,
		"DOCUPLOAD_SECRET_KEY":        &cfg.SecretKey,
		"DOCUPLOAD_STORAGE":           &cfg.Storage,
		"DOCUPLOAD_LOCAL_STORAGE_DIR": &cfg.LocalStorageDir,
		"DOCUPLOAD_S3_ROOT_USER":      &cfg.S3RootUser,
		"DOCUPLOAD_S3_ROOT_PASSWORD":  &cfg.S3RootPassword,
		"DOCUPLOAD_S3_BUCKET":         &cfg.S3Bucket,
		"DOCUPLOAD_S3_REGION":         &cfg.S3Region,
		"DOCUPLOAD_S3_BASE_ENDPOINT":  &cfg.S3BaseEndpoint,
		"DOCUPLOAD_DESCRIPTOR_MODE":   &cfg.DescriptorMode,
		"DOCUPLOAD_LOG_LEVEL":         &cfg.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"DOCUPLOAD_ACCESS_TOKEN_VALIDITY": &cfg.AccessTokenValidity,
		"DOCUPLOAD_UPLOAD_TOKEN_VALIDITY": &cfg.UploadTokenValidity,
	}
	for key, dst := range durations {
		v, ok := get(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}
	return nil
}
