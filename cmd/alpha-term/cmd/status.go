package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/auth"
	"github.com/neonalpha/alpha-term/internal/render"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and configuration state",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	env, err := newEnv()
	if err != nil {
		PrintError(err.Error(), true)
		return
	}

	fmt.Printf("\n%sAlpha-Term Status%s\n\n", render.Cyan, render.Reset)

	tokens, err := env.creds.LoadTokens()
	if err != nil {
		PrintError(err.Error(), true)
		return
	}

	if tokens == nil || tokens.AccessToken == "" {
		fmt.Printf("  Session: %snot logged in%s\n", render.Red, render.Reset)
		fmt.Printf("\n  Run '%salpha-term login%s' to sign in.\n\n", render.Green, render.Reset)
		return
	}

	fmt.Printf("  Session: %slogged in%s\n", render.Green, render.Reset)
	if sub, ok := auth.TokenSubject(tokens.AccessToken); ok {
		fmt.Printf("  Account: %s\n", sub)
	}
	if exp, ok := auth.TokenExpiry(tokens.AccessToken); ok {
		fmt.Printf("  Token expires: %s\n", exp.Local().Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Printf("  Auto-refresh: %s\n", onOff(tokens.RefreshToken != ""))

	me, err := env.client.Me(cmd.Context())
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		fmt.Printf("  Tier: %ssession expired, run 'alpha-term login'%s\n", render.Red, render.Reset)
	case err != nil:
		fmt.Printf("  Tier: unavailable (%v)\n", err)
	default:
		fmt.Printf("  Tier: %s\n", strings.ToUpper(me.SubscriptionTier))
	}

	fmt.Println()
	fmt.Printf("  Poll interval:  %s\n", env.cfg.PollInterval)
	fmt.Printf("  Sound alerts:   %s\n", onOff(env.cfg.SoundEnabled))
	fmt.Printf("  Auto-save file: %s\n", orNotSet(env.cfg.SaveToFile))
	fmt.Printf("  CSV export:     %s\n", orNotSet(env.cfg.CSVFile))
	fmt.Printf("  Archive DB:     %s\n\n", orNotSet(env.cfg.ArchiveDB))
}
