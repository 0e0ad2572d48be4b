package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the persisted config file schema.
type Config struct {
	TailLines  int    `toml:"tail_lines"`
	RefreshMS  int    `toml:"refresh_ms"`
	Width      int    `toml:"width"`
	Animations bool   `toml:"animations"`
	Spinner    string `toml:"spinner"`
	Shell      string `toml:"shell"`
	LogPath    string `toml:"log_path"`
	LogLevel   string `toml:"log_level"`
	CopyFrame  bool   `toml:"copy_frame"`
	Source     string `toml:"-"`
}

func Default() Config {
	return Config{
		TailLines:  5,
		RefreshMS:  120,
		Width:      0,
		Animations: true,
		Spinner:    "dot",
		Shell:      "bash",
		LogPath:    "logs/dynlog.log",
		LogLevel:   "info",
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dynlog", "config.toml")
}

// Load reads path (DefaultPath when empty). A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return normalize(applyEnv(cfg)), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv("DYNLOG_SHELL")); env != "" {
		cfg.Shell = env
	}
	if env := strings.TrimSpace(os.Getenv("DYNLOG_LOG_PATH")); env != "" {
		cfg.LogPath = env
	}
	return cfg
}

// normalize 修正文件中的非法取值，回退到默认值。
func normalize(cfg Config) Config {
	def := Default()
	if cfg.TailLines < 0 {
		cfg.TailLines = def.TailLines
	}
	if cfg.RefreshMS <= 0 {
		cfg.RefreshMS = def.RefreshMS
	}
	if cfg.Width < 0 {
		cfg.Width = 0
	}
	if strings.TrimSpace(cfg.Shell) == "" {
		cfg.Shell = def.Shell
	}
	if strings.TrimSpace(cfg.LogPath) == "" {
		cfg.LogPath = def.LogPath
	}
	return cfg
}
