// Package cmd contains the CLI commands for alpha-term.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/auth"
	"github.com/neonalpha/alpha-term/internal/config"
	"github.com/neonalpha/alpha-term/internal/render"
	"github.com/neonalpha/alpha-term/internal/updater"
	"github.com/neonalpha/alpha-term/pkg/version"
)

// Used for flags
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "alpha-term",
	Short:   "Terminal alerts for NeonAlpha",
	Version: version.Short(),
	Long: `alpha-term streams NeonAlpha social-media alerts to your terminal.

Commands:
  alpha-term watch           Live monitoring
  alpha-term run             View recent alerts
  alpha-term login           Login with email/password
  alpha-term logout          Log out
  alpha-term config          Configure settings
  alpha-term status          Show session and config state
  alpha-term version         Show version`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(render.Banner())
		cmd.Usage()
		printUpdateNotice()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// PrintError prints an error message and exits if fatal is true.
func PrintError(msg string, fatal bool) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	if fatal {
		os.Exit(1)
	}
}

// env bundles the stores and API client every command needs.
type env struct {
	dir     string
	configs *config.Store
	creds   *auth.Store
	cfg     *config.Config
	client  *api.Client
}

// newEnv loads config and credentials from ~/.alpha-term and builds the
// API client.
func newEnv() (*env, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}

	configs := config.NewStore(dir)
	cfg, err := configs.Load()
	if err != nil {
		return nil, err
	}

	creds := auth.NewStore(dir)
	client := api.NewClient("", creds, api.WithClientID(cfg.ClientID))

	return &env{
		dir:     dir,
		configs: configs,
		creds:   creds,
		cfg:     cfg,
		client:  client,
	}, nil
}

// printUpdateNotice shows a one-line notice when a newer release exists.
// Throttled to once per day; silenced by NO_UPDATE_CHECK=1.
func printUpdateNotice() {
	dir, err := config.DefaultDir()
	if err != nil {
		return
	}

	result := updater.NewChecker(dir).Check(false)
	if result.HasUpdate {
		fmt.Printf("%sUpdate available: %s → %s%s\n", render.Yellow, version.Short(), result.LatestVersion, render.Reset)
		fmt.Printf("   Get it at: %shttps://neonalpha.me/install%s\n\n", render.Cyan, render.Reset)
	}
}
