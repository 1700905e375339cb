package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/docupload/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept both "3m" and
// integer nanoseconds; keys that are absent leave the current value alone.
type JsonConfig struct {
	HTTPAddr            *string         `json:"http_addr"`
	PublicURL           *string         `json:"public_url"`
	DatabaseDSN         *string         `json:"database_dsn"`
	SecretKey           *string         `json:"secret_key"`
	AccessTokenValidity *timex.Duration `json:"access_token_validity"`
	UploadTokenValidity *timex.Duration `json:"upload_token_validity"`
	Storage             *string         `json:"storage"`
	LocalStorageDir     *string         `json:"local_storage_dir"`
	S3RootUser          *string         `json:"s3_root_user"`
	S3RootPassword      *string         `json:"s3_root_password"`
	S3Bucket            *string         `json:"s3_bucket"`
	S3Region            *string         `json:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint"`
	DescriptorMode      *string         `json:"descriptor_mode"`
	LogLevel            *string         `json:"log_level"`
}

func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	for dst, src := range map[*string]*string{
		&cfg.HTTPAddr:        c.HTTPAddr,
		&cfg.PublicURL:       c.PublicURL,
		&cfg.DatabaseDSN:     c.DatabaseDSN,
		&cfg.SecretKey:       c.SecretKey,
		&cfg.Storage:         c.Storage,
		&cfg.LocalStorageDir: c.LocalStorageDir,
		&cfg.S3RootUser:      c.S3RootUser,
		&cfg.S3RootPassword:  c.S3RootPassword,
		&cfg.S3Bucket:        c.S3Bucket,
		&cfg.S3Region:        c.S3Region,
		&cfg.S3BaseEndpoint:  c.S3BaseEndpoint,
		&cfg.DescriptorMode:  c.DescriptorMode,
		&cfg.LogLevel:        c.LogLevel,
	} {
		if src != nil {
			*dst = *src
		}
	}
	if c.AccessTokenValidity != nil {
		cfg.AccessTokenValidity = c.AccessTokenValidity.Duration
	}
	if c.UploadTokenValidity != nil {
		cfg.UploadTokenValidity = c.UploadTokenValidity.Duration
	}
	return nil
}
