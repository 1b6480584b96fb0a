package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/telepharmacy/internal/flagx"
	"github.com/dmitrijs2005/telepharmacy/internal/timex"
)

// configEnv names the config file when -c/-config is absent.
const configEnv = "TELEPHARMACY_CLIENT_CONFIG"

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell an absent key apart from an empty value.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	SessionFile         *string         `json:"session_file"`
	RedisAddr           *string         `json:"redis_addr"`
	LogFormat           *string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the file named by
// -c/-config or TELEPHARMACY_CLIENT_CONFIG. Keys absent from the file are
// left alone. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(configEnv)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
	if jc.RedisAddr != nil {
		cfg.RedisAddr = *jc.RedisAddr
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
}
