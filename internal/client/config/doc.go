// Package config loads runtime configuration for the telepharmacy CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c/-config, or the
//     TELEPHARMACY_CLIENT_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the identity server (empty: local mock stores)
//	-i int      online status check interval (seconds)
//	-f string   SQLite session file
//	-r string   Redis address (selects Redis session storage)
//	-l string   log format
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "session_file": "session.db",
//	  "redis_addr": "",
//	  "log_format": "text"
//	}
package config
