package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/closurec/internal/closure"
)

// Config represents the closurec configuration.
type Config struct {
	JavaHome       string      `json:"javaHome,omitempty"`
	JarPath        string      `json:"jarPath,omitempty"`
	CheckLevel     string      `json:"checkLevel"`
	OptimizeLevel  string      `json:"optimizeLevel"`
	WarningLevel   string      `json:"warningLevel"`
	TimeoutSeconds int         `json:"timeoutSeconds"`
	Format         string      `json:"format"`
	FailOn         string      `json:"failOn"`
	Include        []string    `json:"include"`
	Exclude        []string    `json:"exclude"`
	MaxFileBytes   int64       `json:"maxFileBytes"`
	RulesFile      string      `json:"rulesFile,omitempty"`
	Cache          CacheConfig `json:"cache"`
}

// CacheConfig controls the source cache.
type CacheConfig struct {
	Dir         string `json:"dir,omitempty"`
	MaxAgeHours int    `json:"maxAgeHours"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		CheckLevel:     closure.LevelAdvanced,
		OptimizeLevel:  closure.LevelWhitespaceOnly,
		WarningLevel:   closure.WarningDefault,
		TimeoutSeconds: 60,
		Format:         "text",
		FailOn:         closure.FailOnAny,
		Include:        []string{"**/*.js"},
		Exclude:        []string{"**/node_modules/**", "**/*.min.js"},
		MaxFileBytes:   1 << 20,
		Cache: CacheConfig{
			MaxAgeHours: 24,
		},
	}
}

// Timeout returns the per-invocation compiler timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheMaxAge returns how long cache entries are kept.
func (c Config) CacheMaxAge() time.Duration {
	return time.Duration(c.Cache.MaxAgeHours) * time.Hour
}

// CompilerOptions returns the compiler invocation settings.
func (c Config) CompilerOptions() closure.Options {
	return closure.Options{
		JarPath:       c.JarPath,
		CheckLevel:    c.CheckLevel,
		OptimizeLevel: c.OptimizeLevel,
		WarningLevel:  c.WarningLevel,
		Timeout:       c.Timeout(),
	}
}

// Validate reports the first setting the compiler would reject.
func (c Config) Validate() error {
	if !closure.ValidLevel(c.CheckLevel) {
		return fmt.Errorf("invalid checkLevel %q", c.CheckLevel)
	}
	if !closure.ValidLevel(c.OptimizeLevel) {
		return fmt.Errorf("invalid optimizeLevel %q", c.OptimizeLevel)
	}
	if !closure.ValidWarningLevel(c.WarningLevel) {
		return fmt.Errorf("invalid warningLevel %q", c.WarningLevel)
	}
	if !closure.ValidFailOn(c.FailOn) {
		return fmt.Errorf("invalid failOn %q (must be any, warning, error, or none)", c.FailOn)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeoutSeconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// ConfigDir returns the platform-appropriate config directory for closurec.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "closurec"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "closurec"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "closurec"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "closurec"), nil
	default:
		return filepath.Join(home, ".config", "closurec"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.JavaHome != "" {
		dst.JavaHome = src.JavaHome
	}
	if src.JarPath != "" {
		dst.JarPath = src.JarPath
	}
	if src.CheckLevel != "" {
		dst.CheckLevel = src.CheckLevel
	}
	if src.OptimizeLevel != "" {
		dst.OptimizeLevel = src.OptimizeLevel
	}
	if src.WarningLevel != "" {
		dst.WarningLevel = src.WarningLevel
	}
	if src.TimeoutSeconds > 0 {
		dst.TimeoutSeconds = src.TimeoutSeconds
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if src.Exclude != nil {
		dst.Exclude = src.Exclude
	}
	if src.MaxFileBytes > 0 {
		dst.MaxFileBytes = src.MaxFileBytes
	}
	if src.RulesFile != "" {
		dst.RulesFile = src.RulesFile
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.MaxAgeHours > 0 {
		dst.Cache.MaxAgeHours = src.Cache.MaxAgeHours
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("CLOSUREC_JAVA_HOME"); v != "" {
		cfg.JavaHome = v
	}
	if v := os.Getenv("CLOSUREC_JAR"); v != "" {
		cfg.JarPath = v
	}
	if v := os.Getenv("CLOSUREC_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("CLOSUREC_FAIL_ON"); v != "" {
		cfg.FailOn = v
	}
	if v := os.Getenv("CLOSUREC_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("CLOSUREC_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLOSUREC_TIMEOUT must be an integer: %w", err)
		}
		cfg.TimeoutSeconds = n
	}
	if v := os.Getenv("CLOSUREC_MAX_FILE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CLOSUREC_MAX_FILE_BYTES must be an integer: %w", err)
		}
		cfg.MaxFileBytes = n
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return err
		}
	}
	return nil
}

// Keys lists the keys accepted by [SetField].
var Keys = []string{
	"javaHome", "jarPath", "checkLevel", "optimizeLevel", "warningLevel",
	"timeoutSeconds", "format", "failOn", "include", "exclude",
	"maxFileBytes", "rulesFile", "cache.dir", "cache.maxAgeHours",
}

// SetField sets a single config field by key name. Returns error if key is unknown.
// List values are comma separated.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "javaHome":
		cfg.JavaHome = value
	case "jarPath":
		cfg.JarPath = value
	case "checkLevel":
		cfg.CheckLevel = strings.ToUpper(value)
	case "optimizeLevel":
		cfg.OptimizeLevel = strings.ToUpper(value)
	case "warningLevel":
		cfg.WarningLevel = strings.ToUpper(value)
	case "timeoutSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeoutSeconds must be an integer: %w", err)
		}
		cfg.TimeoutSeconds = n
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	case "include":
		cfg.Include = splitList(value)
	case "exclude":
		cfg.Exclude = splitList(value)
	case "maxFileBytes":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("maxFileBytes must be an integer: %w", err)
		}
		cfg.MaxFileBytes = n
	case "rulesFile":
		cfg.RulesFile = value
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.maxAgeHours":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.maxAgeHours must be an integer: %w", err)
		}
		cfg.Cache.MaxAgeHours = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	list := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}
