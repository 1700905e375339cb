package config

import "github.com/spf13/pflag"

// BindFlags registers one flag per Config field on fs. Flag defaults are the
// current values of c, so a flag left unset keeps what the earlier layers
// produced.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.InformationEndpoint, "endpoint", "e", c.InformationEndpoint, "information endpoint URL")
	fs.StringVarP(&c.Token, "token", "t", c.Token, "bearer token for the information endpoint")
	fs.StringVar(&c.Corpus, "corpus", c.Corpus, "corpus the documents belong to")
	fs.IntVarP(&c.BatchSize, "batch-size", "b", c.BatchSize, "maximum number of concurrent uploads")
	fs.StringVarP(&c.Policy, "policy", "p", c.Policy, "failure policy: strict or tolerant")
	fs.StringVar(&c.DescriptorMode, "descriptor-mode", c.DescriptorMode, "which step returns the document: negotiation or transfer")
	fs.DurationVar(&c.RequestTimeout, "timeout", c.RequestTimeout, "timeout of a single HTTP request")
	fs.StringVar(&c.StatePath, "state", c.StatePath, "path of the local run history database")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}
