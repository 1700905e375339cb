// Package config loads runtime configuration for the docupload CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/--config or DOCUPLOAD_CONFIG.
//  3. DOCUPLOAD_* environment variables.
//  4. Command flags registered by BindFlags.
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "30s" or integer
// nanoseconds. Missing keys keep the value of the previous layer:
//
//	{
//	  "information_endpoint": "https://docs.example.com/document",
//	  "token": "…",
//	  "corpus": "papers",
//	  "batch_size": 500,
//	  "policy": "strict",
//	  "descriptor_mode": "negotiation",
//	  "request_timeout": "30s",
//	  "state_path": "~/.docupload/state.db",
//	  "log_level": "info"
//	}
package config
