package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/neonalpha/alpha-term/internal/config"
	"github.com/neonalpha/alpha-term/internal/render"
)

var configReset bool

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View or change settings",
	Long: `View or change stored settings.

Keys:
  sound     <true|false>   terminal bell on new alerts
  save      <file>         text log file for matched alerts
  csv       <file>         CSV export file
  archive   <file>         SQLite archive database
  interval  <duration>     poll interval (e.g. 30s, 1m)

Examples:
  alpha-term config                     Show all settings
  alpha-term config sound               Show one setting
  alpha-term config sound true          Change a setting
  alpha-term config --reset             Reset to defaults`,
	Args: cobra.MaximumNArgs(2),
	Run:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configReset, "reset", false, "reset all settings to defaults")
}

func runConfig(cmd *cobra.Command, args []string) {
	dir, err := config.DefaultDir()
	if err != nil {
		PrintError(err.Error(), true)
		return
	}
	store := config.NewStore(dir)

	fmt.Printf("\n%sAlpha-Term Configuration%s\n\n", render.Cyan, render.Reset)

	if configReset {
		err := store.Update(func(c *config.Config) {
			c.SoundEnabled = false
			c.SaveToFile = ""
			c.CSVFile = ""
			c.ArchiveDB = ""
			c.PollInterval = 30 * time.Second
		})
		if err != nil {
			PrintError(err.Error(), true)
			return
		}
		fmt.Printf("%sConfiguration reset to defaults.%s\n\n", render.Green, render.Reset)
		return
	}

	cfg, err := store.Load()
	if err != nil {
		PrintError(err.Error(), true)
		return
	}

	switch len(args) {
	case 0:
		showConfig(cfg)
	case 1:
		value, ok := configValue(cfg, args[0])
		if !ok {
			PrintError(fmt.Sprintf("unknown config option: %s", args[0]), true)
			return
		}
		fmt.Printf("  %s: %s\n\n", args[0], value)
	case 2:
		if err := setConfig(store, args[0], args[1]); err != nil {
			PrintError(err.Error(), true)
			return
		}
		fmt.Printf("%s%s set to: %s%s\n\n", render.Green, args[0], args[1], render.Reset)
	}
}

func showConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Printf("  Sound alerts:   %s\n", onOff(cfg.SoundEnabled))
	fmt.Printf("  Auto-save file: %s\n", orNotSet(cfg.SaveToFile))
	fmt.Printf("  CSV export:     %s\n", orNotSet(cfg.CSVFile))
	fmt.Printf("  Archive DB:     %s\n", orNotSet(cfg.ArchiveDB))
	fmt.Printf("  Poll interval:  %s\n", cfg.PollInterval)
	fmt.Println("\nTo change:")
	fmt.Printf("  %salpha-term config sound true%s\n", render.Green, render.Reset)
	fmt.Printf("  %salpha-term config save alerts.txt%s\n", render.Green, render.Reset)
	fmt.Printf("  %salpha-term config --reset%s\n\n", render.Green, render.Reset)
}

func configValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "sound":
		return onOff(cfg.SoundEnabled), true
	case "save":
		return orNotSet(cfg.SaveToFile), true
	case "csv":
		return orNotSet(cfg.CSVFile), true
	case "archive":
		return orNotSet(cfg.ArchiveDB), true
	case "interval":
		return cfg.PollInterval.String(), true
	default:
		return "", false
	}
}

func setConfig(store *config.Store, key, value string) error {
	switch key {
	case "sound":
		return store.Update(func(c *config.Config) {
			c.SoundEnabled = value == "true" || value == "on"
		})
	case "save":
		return store.Update(func(c *config.Config) { c.SaveToFile = value })
	case "csv":
		return store.Update(func(c *config.Config) { c.CSVFile = value })
	case "archive":
		return store.Update(func(c *config.Config) { c.ArchiveDB = value })
	case "interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid interval %q (expected e.g. 30s, 1m)", value)
		}
		return store.Update(func(c *config.Config) { c.PollInterval = d })
	default:
		return fmt.Errorf("unknown config option: %s", key)
	}
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func orNotSet(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}
