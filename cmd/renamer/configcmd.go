package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justyntemme/renamer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := openConfig()
		cfg := m.Get()
		fmt.Printf("file:                %s\n", m.Path())
		fmt.Printf("settings.dir:        %s\n", cfg.Settings.Dir)
		fmt.Printf("settings.load_first: %s\n", cfg.Settings.LoadFirst)
		fmt.Printf("log.dir:             %s\n", cfg.Log.Dir)
		fmt.Printf("log.level:           %s\n", cfg.Log.Level)
		fmt.Printf("analyzer.expand:     %v\n", cfg.Analyzer.ExpandDirectories)
		fmt.Printf("analyzer.hidden:     %v\n", cfg.Analyzer.ShowHidden)
		fmt.Printf("watch:               %v (%d ms)\n", cfg.Watch.Enabled, cfg.Watch.DebounceMS)
		fmt.Printf("journal:             %v %s\n", cfg.Journal.Enabled, cfg.Journal.Path)
		fmt.Printf("ui.theme:            %s\n", cfg.UI.Theme)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set key value",
	Short: "Change one setting: theme, expand, hidden or watch",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfigValue(openConfig(), args[0], args[1])
	},
}

// setConfigValue applies one "config set" pair to m and saves it.
func setConfigValue(m *config.Manager, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		if value != "dark" && value != "light" {
			return fmt.Errorf("theme must be dark or light, got %q", value)
		}
		return m.SetTheme(value)
	case "expand":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expand: %w", err)
		}
		return m.SetExpandDirectories(on)
	case "hidden":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("hidden: %w", err)
		}
		return m.SetShowHidden(on)
	case "watch":
		// "true", "false" or a debounce in milliseconds
		if ms, err := strconv.Atoi(value); err == nil {
			return m.SetWatch(ms > 0, ms)
		}
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		return m.SetWatch(on, 0)
	}
	return fmt.Errorf("unknown config key %q", key)
}
