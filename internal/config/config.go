package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	Settings SettingsConfig `mapstructure:"settings"`
	Log      LogConfig      `mapstructure:"log"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Journal  JournalConfig  `mapstructure:"journal"`
	UI       UIConfig       `mapstructure:"ui"`
}

// SettingsConfig locates the saved builder chains
type SettingsConfig struct {
	Dir          string `mapstructure:"dir"`
	LoadFirst    string `mapstructure:"load_first"`     // saved settings applied at start-up
	SaveLastTime bool   `mapstructure:"save_last_time"` // write "Last time" on exit
}

// LogConfig controls the application log
type LogConfig struct {
	Dir         string `mapstructure:"dir"`
	Level       string `mapstructure:"level"` // "debug" | "info" | "warn" | "error"
	Keep        int    `mapstructure:"keep"`
	WriteOnExit bool   `mapstructure:"write_on_exit"`
}

// AnalyzerConfig controls how dropped paths are expanded
type AnalyzerConfig struct {
	ExpandDirectories bool `mapstructure:"expand_directories"`
	ShowHidden        bool `mapstructure:"show_hidden"`
}

// WatchConfig controls external change detection
type WatchConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	DebounceMS int  `mapstructure:"debounce_ms"`
}

// JournalConfig controls the rename journal database
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// UIConfig holds terminal view settings
type UIConfig struct {
	Theme string `mapstructure:"theme"` // "light" or "dark"
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a manager for the default config path
func NewManager() *Manager {
	return NewManagerAt(ConfigPath())
}

// NewManagerAt creates a manager for the config file at path
func NewManagerAt(path string) *Manager {
	return &Manager{
		config: DefaultConfig(),
		path:   path,
	}
}

// ConfigDir returns ~/.config/renamer on every platform
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "renamer")
}

// ConfigPath returns the config file path: ~/.config/renamer/config.json
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := ConfigDir()
	return &Config{
		Settings: SettingsConfig{
			Dir:          filepath.Join(dir, "settings"),
			LoadFirst:    "Last time",
			SaveLastTime: true,
		},
		Log: LogConfig{
			Dir:         filepath.Join(dir, "logs"),
			Level:       "info",
			Keep:        10,
			WriteOnExit: false,
		},
		Analyzer: AnalyzerConfig{
			ExpandDirectories: false,
			ShowHidden:        false,
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMS: 300,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "journal.db"),
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}
}

// values flattens cfg into viper keys
func values(cfg *Config) map[string]any {
	return map[string]any{
		"settings.dir":                cfg.Settings.Dir,
		"settings.load_first":         cfg.Settings.LoadFirst,
		"settings.save_last_time":     cfg.Settings.SaveLastTime,
		"log.dir":                     cfg.Log.Dir,
		"log.level":                   cfg.Log.Level,
		"log.keep":                    cfg.Log.Keep,
		"log.write_on_exit":           cfg.Log.WriteOnExit,
		"analyzer.expand_directories": cfg.Analyzer.ExpandDirectories,
		"analyzer.show_hidden":        cfg.Analyzer.ShowHidden,
		"watch.enabled":               cfg.Watch.Enabled,
		"watch.debounce_ms":           cfg.Watch.DebounceMS,
		"journal.enabled":             cfg.Journal.Enabled,
		"journal.path":                cfg.Journal.Path,
		"ui.theme":                    cfg.UI.Theme,
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("RENAMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range values(DefaultConfig()) {
		v.SetDefault(k, val)
	}
	return v
}

// Load reads the configuration from the config file.
// If the file doesn't exist, creates it with defaults.
// If parsing fails, stores the error and returns defaults.
// RENAMER_<SECTION>_<KEY> environment variables override file values.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parseErr = nil
	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Printf("Config: failed to create directory %s: %v", configDir, err)
		return err
	}

	v := newViper(m.path)
	if _, err := os.Stat(m.path); errors.Is(err, os.ErrNotExist) {
		log.Printf("Config: creating default config at %s", m.path)
		m.config = DefaultConfig()
		if err := m.saveUnlocked(); err != nil {
			log.Printf("Config: failed to save default config: %v", err)
			return err
		}
	} else if err := v.ReadInConfig(); err != nil {
		// Keep defaults and surface the error to the caller
		log.Printf("Config: parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Config: decode error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}
	m.config = &cfg
	return nil
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	v := viper.New()
	for k, val := range values(m.config) {
		v.Set(k, val)
	}
	if err := v.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("write config %s: %w", m.path, err)
	}
	return nil
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Path returns the config file location
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

func (m *Manager) update(fn func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.config)
	return m.saveUnlocked()
}

// SetTheme updates the theme setting
func (m *Manager) SetTheme(theme string) error {
	return m.update(func(c *Config) { c.UI.Theme = theme })
}

// SetLoadFirst selects the saved settings applied at start-up
func (m *Manager) SetLoadFirst(name string) error {
	return m.update(func(c *Config) { c.Settings.LoadFirst = name })
}

// SetExpandDirectories updates the analyzer expansion setting
func (m *Manager) SetExpandDirectories(expand bool) error {
	return m.update(func(c *Config) { c.Analyzer.ExpandDirectories = expand })
}

// SetShowHidden updates whether expansion lists dot entries
func (m *Manager) SetShowHidden(show bool) error {
	return m.update(func(c *Config) { c.Analyzer.ShowHidden = show })
}

// SetWatch updates directory watching
func (m *Manager) SetWatch(enabled bool, debounceMS int) error {
	return m.update(func(c *Config) {
		c.Watch.Enabled = enabled
		if debounceMS > 0 {
			c.Watch.DebounceMS = debounceMS
		}
	})
}

// IsDarkMode returns true if dark mode is enabled
func (m *Manager) IsDarkMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.UI.Theme == "dark"
}
