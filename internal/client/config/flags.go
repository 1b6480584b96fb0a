package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the identity server, empty for local mock stores
//	-i int      online check interval in seconds
//	-f string   SQLite session file
//	-r string   Redis address, selects Redis session storage
//	-l string   log format (text, json, zap)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-f", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "session database file")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for session storage")
	fs.StringVar(&cfg.LogFormat, "l", cfg.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
