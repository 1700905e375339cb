package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvInformationEndpoint = "DOCUPLOAD_ENDPOINT"
	EnvToken               = "DOCUPLOAD_TOKEN"
	EnvCorpus              = "DOCUPLOAD_CORPUS"
	EnvBatchSize           = "DOCUPLOAD_BATCH_SIZE"
	EnvPolicy              = "DOCUPLOAD_POLICY"
	EnvDescriptorMode      = "DOCUPLOAD_DESCRIPTOR_MODE"
	EnvRequestTimeout      = "DOCUPLOAD_REQUEST_TIMEOUT"
	EnvStatePath           = "DOCUPLOAD_STATE_PATH"
	EnvLogLevel            = "DOCUPLOAD_LOG_LEVEL"
)

type lookupFunc func(key string) (string, bool)

var lookupEnv lookupFunc = os.LookupEnv

func parseEnv(cfg *Config, lookup lookupFunc) error {
	strs := map[string]*string{
		EnvInformationEndpoint: &cfg.InformationEndpoint,
		EnvToken:               &cfg.Token,
		EnvCorpus:              &cfg.Corpus,
		EnvPolicy:              &cfg.Policy,
		EnvDescriptorMode:      &cfg.DescriptorMode,
		EnvStatePath:           &cfg.StatePath,
		EnvLogLevel:            &cfg.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvBatchSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBatchSize, err)
		}
		cfg.BatchSize = n
	}

	if v, ok := lookup(EnvRequestTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
