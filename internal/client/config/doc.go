// Package config loads runtime configuration for the BitNet terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. BITNET_CLIENT_* environment variables.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:3002",
//	  "db_path": "bitnet.db",
//	  "export_dir": "exports",
//	  "request_timeout": "10s",
//	  "log_level": "warn"
//	}
package config
