package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
// Unknown keys and malformed pairs are ignored.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	for _, raw := range overrides {
		key, val, ok := strings.Cut(raw, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		switch key {
		case "initial_url":
			cfg.InitialURL = val
		case "fetch_delay":
			cfg.FetchDelay = val
		case "log_path":
			cfg.LogPath = val
		case "event_log_path":
			cfg.EventLogPath = val
		case "log_level":
			cfg.LogLevel = val
		case "alt_screen":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.AltScreen = b
			}
		}
	}
	return cfg
}
