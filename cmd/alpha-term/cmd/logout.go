package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neonalpha/alpha-term/internal/auth"
	"github.com/neonalpha/alpha-term/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of alpha-term",
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := config.DefaultDir()
		if err != nil {
			PrintError(err.Error(), true)
			return
		}

		creds := auth.NewStore(dir)
		if !creds.LoggedIn() {
			fmt.Println("\nYou're not logged in.")
			return
		}

		if err := creds.Clear(); err != nil {
			PrintError(err.Error(), true)
			return
		}
		fmt.Println("\nLogged out. Run 'alpha-term login' to sign in again.")
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
