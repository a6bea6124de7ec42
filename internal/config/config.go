package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// 环境变量覆盖，优先级高于配置文件。
const (
	EnvInitialURL = "WEBSITE_CLI_INITIAL_URL"
	EnvFetchDelay = "WEBSITE_CLI_FETCH_DELAY"
)

// DefaultFetchDelay 模拟网络请求的固定延迟。
const DefaultFetchDelay = time.Second

// DefaultEventLogPath 事件队列（eq）独立日志文件的默认路径。
const DefaultEventLogPath = "logs/eq.log"

// Config is the persisted config file schema.
type Config struct {
	InitialURL string `toml:"initial_url"`
	// FetchDelay 为 Go duration 字符串，例如 "1s"、"250ms"。
	FetchDelay string `toml:"fetch_delay"`
	LogPath    string `toml:"log_path"`
	// EventLogPath 为事件队列独立日志，空字符串表示并入主日志。
	EventLogPath string `toml:"event_log_path"`
	LogLevel     string `toml:"log_level"`
	AltScreen    bool   `toml:"alt_screen"`
	Source       string `toml:"-"`
}

func Default() Config {
	return Config{
		InitialURL:   "known",
		FetchDelay:   DefaultFetchDelay.String(),
		LogPath:      "logs/website-cli.log",
		EventLogPath: DefaultEventLogPath,
		LogLevel:     "info",
		AltScreen:    true,
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".website-cli", "config.toml")
}

// Load 读取 TOML 配置；文件不存在时返回默认值（仍应用环境变量）。
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
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg = applyEnv(cfg)
	if _, err := cfg.Delay(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Delay 解析 FetchDelay；未设置时回落到 DefaultFetchDelay，"0s" 表示立即完成，负值视为错误。
func (c Config) Delay() (time.Duration, error) {
	raw := strings.TrimSpace(c.FetchDelay)
	if raw == "" {
		return DefaultFetchDelay, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid fetch_delay %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid fetch_delay %q: must not be negative", raw)
	}
	return d, nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv(EnvInitialURL)); env != "" {
		cfg.InitialURL = env
	}
	if env := strings.TrimSpace(os.Getenv(EnvFetchDelay)); env != "" {
		cfg.FetchDelay = env
	}
	return cfg
}
