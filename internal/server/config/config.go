// Package config handles configuration for the identity server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the identity server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps every store in memory.
//   - SecretKey: HMAC secret for signed tokens. Empty issues mock tokens.
//   - TokenValidityDuration: lifetime of signed tokens.
//   - MetricsAddr: bind address for the Prometheus endpoint. Empty disables it.
//   - LogFormat: one of "text", "json", "zap".
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: profile photo storage. Empty bucket disables uploads.
type Config struct {
	EndpointAddrGRPC      string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	MetricsAddr           string
	LogFormat             string
	S3RootUser            string
	S3RootPassword        string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
}

// LoadDefaults populates Config with development defaults: in-memory stores,
// mock tokens, no metrics and no photo storage.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.TokenValidityDuration = 60 * time.Minute
	c.MetricsAddr = ""
	c.LogFormat = "json"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// UsesPostgres reports whether the server should persist to PostgreSQL.
func (c *Config) UsesPostgres() bool { return c.DatabaseDSN != "" }

// SignsTokens reports whether tokens should be signed JWTs rather than mock tokens.
func (c *Config) SignsTokens() bool { return c.SecretKey != "" }

// PhotosEnabled reports whether profile photo uploads are configured.
func (c *Config) PhotosEnabled() bool { return c.S3Bucket != "" }

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
