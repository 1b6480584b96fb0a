package config

import "time"

// Config holds runtime settings for the telepharmacy CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the identity server. Empty runs the
//     in-process mock stores instead.
//   - OnlineCheckInterval: how often the client checks that the server is reachable.
//   - SessionFile: SQLite file holding the persisted session.
//   - RedisAddr: when set, the session is persisted in Redis instead of SQLite.
//   - LogFormat: one of "text", "json", "zap".
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	SessionFile         string
	RedisAddr           string
	LogFormat           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.SessionFile = "session.db"
	c.RedisAddr = ""
	c.LogFormat = "text"
}

// UsesRedis reports whether session state goes to Redis.
func (c *Config) UsesRedis() bool { return c.RedisAddr != "" }

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
