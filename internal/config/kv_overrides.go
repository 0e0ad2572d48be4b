package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides. Unknown keys and
// unparsable values are ignored.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "tail_lines", "tail":
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				cfg.TailLines = n
			}
		case "refresh_ms", "refresh":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.RefreshMS = n
			}
		case "width":
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				cfg.Width = n
			}
		case "animations":
			if b, ok := parseBool(val); ok {
				cfg.Animations = b
			}
		case "spinner":
			cfg.Spinner = val
		case "shell":
			if val != "" {
				cfg.Shell = val
			}
		case "log_path":
			if val != "" {
				cfg.LogPath = val
			}
		case "log_level":
			cfg.LogLevel = val
		case "copy_frame", "copy":
			if b, ok := parseBool(val); ok {
				cfg.CopyFrame = b
			}
		}
	}
	return cfg
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true", "1", "t", "yes", "y", "on":
		return true, true
	case "false", "0", "f", "no", "n", "off":
		return false, true
	}
	return false, false
}
