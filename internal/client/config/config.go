package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/docupload/internal/client/upload"
	"github.com/dmitrijs2005/docupload/internal/common"
	"github.com/dmitrijs2005/docupload/internal/flagx"
	"github.com/dmitrijs2005/docupload/internal/logging"
)

// EnvConfigPath names the variable consulted for the JSON file when neither
// -c nor --config is given.
const EnvConfigPath = "DOCUPLOAD_CONFIG"

var ErrInvalidEndpoint = errors.New("information endpoint must be an absolute http(s) URL")

// Config holds runtime settings for the docupload CLI.
type Config struct {
	InformationEndpoint string
	Token               string
	Corpus              string
	BatchSize           int
	Policy              string
	DescriptorMode      string
	RequestTimeout      time.Duration
	StatePath           string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.InformationEndpoint = "http://127.0.0.1:8080/document"
	c.Token = ""
	c.Corpus = ""
	c.BatchSize = common.DefaultBatchSize
	c.Policy = string(upload.PolicyStrict)
	c.DescriptorMode = string(upload.DescriptorFromNegotiation)
	c.RequestTimeout = 30 * time.Second
	c.StatePath = "~/.docupload/state.db"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the JSON file named in args
// (or by DOCUPLOAD_CONFIG), then DOCUPLOAD_* environment variables. Command
// flags are applied on top by the CLI through BindFlags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, flagx.ConfigPath(args, EnvConfigPath)); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be corrected later.
func (c *Config) Validate() error {
	u, err := url.Parse(c.InformationEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, c.InformationEndpoint)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: %d", upload.ErrInvalidBatchSize, c.BatchSize)
	}
	if _, err := upload.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if _, err := upload.ParseDescriptorMode(c.DescriptorMode); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
