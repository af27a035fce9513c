package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sandeepkv93/todoer/internal/model"
	"github.com/sandeepkv93/todoer/internal/storage"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todoer.db"
	DefaultLogName        = "todoer.log"
	DefaultSweepSeconds   = 60
	appDirName            = "todoer"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Keymap struct {
	Quit         string `toml:"quit"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Toggle       string `toml:"toggle"`
	Delete       string `toml:"delete"`
	Command      string `toml:"command"`
	Search       string `toml:"search"`
	NextCategory string `toml:"next_category"`
	PrevCategory string `toml:"prev_category"`
	CycleSort    string `toml:"cycle_sort"`
	CycleFilter  string `toml:"cycle_filter"`
	Help         string `toml:"help"`
}

type Config struct {
	DBPath               string `toml:"db_path"`
	Driver               string `toml:"driver"`
	LogPath              string `toml:"log_path"`
	LogLevel             string `toml:"log_level"`
	SweepIntervalSeconds int    `toml:"sweep_interval_seconds"`
	DefaultSort          string `toml:"default_sort"`
	DefaultFilter        string `toml:"default_filter"`
	Keys                 Keymap `toml:"keys"`
}

// Default returns the configuration used when no file exists. Data and log
// files live in dir.
func Default(dir string) Config {
	return Config{
		DBPath:               filepath.Join(dir, DefaultDBName),
		Driver:               storage.DriverCGO,
		LogPath:              filepath.Join(dir, DefaultLogName),
		LogLevel:             "info",
		SweepIntervalSeconds: DefaultSweepSeconds,
		DefaultSort:          string(model.SortCreationDate),
		DefaultFilter:        string(model.FilterNone),
		Keys: Keymap{
			Quit:         "q",
			Up:           "k",
			Down:         "j",
			Toggle:       " ",
			Delete:       "x",
			Command:      "/",
			Search:       "?",
			NextCategory: "tab",
			PrevCategory: "shift+tab",
			CycleSort:    "s",
			CycleFilter:  "f",
			Help:         "h",
		},
	}
}

// ResolvePath returns TODOER_CONFIG when set, otherwise the per-user config
// location.
func ResolvePath() (string, error) {
	if v := strings.TrimSpace(os.Getenv("TODOER_CONFIG")); v != "" {
		return v, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing the defaults first when the
// file does not exist. Missing keys keep their default values.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// FromEnv applies TODOER_* overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("TODOER_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TODOER_DRIVER"); ok {
		cfg.Driver = v
	}
	if v, ok := getEnvString("TODOER_LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("TODOER_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvInt("TODOER_SWEEP_INTERVAL_SECONDS"); ok && v > 0 {
		cfg.SweepIntervalSeconds = v
	}
	if v, ok := getEnvString("TODOER_DEFAULT_SORT"); ok {
		cfg.DefaultSort = v
	}
	if v, ok := getEnvString("TODOER_DEFAULT_FILTER"); ok {
		cfg.DefaultFilter = v
	}
	return cfg
}

func (c Config) Validate() error {
	if !storage.IsKnownDriver(c.Driver) {
		return fmt.Errorf("%w: driver %q", ErrInvalidConfig, c.Driver)
	}
	if c.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("%w: sweep_interval_seconds %d", ErrInvalidConfig, c.SweepIntervalSeconds)
	}
	if _, err := model.ParseSortMode(c.DefaultSort); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := model.ParseFilterMode(c.DefaultFilter); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) SweepInterval() time.Duration {
	if c.SweepIntervalSeconds <= 0 {
		return DefaultSweepSeconds * time.Second
	}
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (c Config) SortMode() model.SortMode {
	m, err := model.ParseSortMode(c.DefaultSort)
	if err != nil {
		return model.SortCreationDate
	}
	return m
}

func (c Config) FilterMode() model.FilterMode {
	m, err := model.ParseFilterMode(c.DefaultFilter)
	if err != nil {
		return model.FilterNone
	}
	return m
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
