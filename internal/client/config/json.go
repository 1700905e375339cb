package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/docupload/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// distinguish absent keys from zero values.
type JsonConfig struct {
	InformationEndpoint *string         `json:"information_endpoint"`
	Token               *string         `json:"token"`
	Corpus              *string         `json:"corpus"`
	BatchSize           *int            `json:"batch_size"`
	Policy              *string         `json:"policy"`
	DescriptorMode      *string         `json:"descriptor_mode"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	StatePath           *string         `json:"state_path"`
	LogLevel            *string         `json:"log_level"`
}

// parseJSON overlays cfg with the keys present in the file at path. An empty
// path is a no-op.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set(&cfg.InformationEndpoint, jc.InformationEndpoint)
	set(&cfg.Token, jc.Token)
	set(&cfg.Corpus, jc.Corpus)
	set(&cfg.BatchSize, jc.BatchSize)
	set(&cfg.Policy, jc.Policy)
	set(&cfg.DescriptorMode, jc.DescriptorMode)
	set(&cfg.StatePath, jc.StatePath)
	set(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
