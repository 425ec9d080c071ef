package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/render"
	"github.com/neonalpha/alpha-term/internal/watch"
)

var (
	runKeyword string
	runHandle  string
	runJSON    bool
	runLimit   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "View recent alerts",
	Long: `Fetch and display the most recent alerts, oldest first.

Examples:
  alpha-term run
  alpha-term run --handle elonmusk --limit 10
  alpha-term run --keyword bitcoin --json`,
	Run: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runKeyword, "keyword", "k", "", "filter by keyword")
	runCmd.Flags().StringVar(&runHandle, "handle", "", "filter by author handle")
	runCmd.Flags().BoolVarP(&runJSON, "json", "j", false, "output as JSON")
	runCmd.Flags().IntVarP(&runLimit, "limit", "l", 20, "number of alerts to show")
}

func runRun(cmd *cobra.Command, args []string) {
	env, err := newEnv()
	if err != nil {
		PrintError(err.Error(), true)
		return
	}

	ctx := cmd.Context()

	fmt.Printf("\n%sValidating subscription...%s\n\n", render.Cyan, render.Reset)
	status := watch.ValidateSession(ctx, env.client)
	if !status.Valid {
		fmt.Printf("%s%s%s\n\n", render.Red, status.Message, render.Reset)
		return
	}

	alerts, err := env.client.Alerts(ctx, runLimit)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Printf("\n%sSession expired. Please run 'alpha-term login' to sign in again.%s\n\n", render.Red, render.Reset)
			return
		}
		PrintError(fmt.Sprintf("fetch alerts: %v", err), true)
		return
	}

	criteria := watch.Criteria{Handle: runHandle, Keyword: runKeyword}
	filtered := criteria.Apply(alerts)

	if len(filtered) == 0 {
		fmt.Printf("%sNo alerts yet.%s\n", render.Yellow, render.Reset)
		fmt.Println("Alerts will appear here once your monitored accounts post.")
		fmt.Printf("\nManage your watch list at %shttps://neonalpha.me/dashboard%s\n\n", render.Cyan, render.Reset)
		return
	}

	if runJSON {
		data, err := json.MarshalIndent(filtered, "", "  ")
		if err != nil {
			PrintError(fmt.Sprintf("marshal alerts: %v", err), true)
			return
		}
		fmt.Println(string(data))
		return
	}

	title := "ALL ALERTS"
	if runHandle != "" {
		title = "@" + strings.TrimPrefix(runHandle, "@")
	}

	fmt.Printf("%s%s%s ALPHA-TERM %s%s%s\n", render.Green, render.BoxTL, strings.Repeat(render.BoxH, 8), strings.Repeat(render.BoxH, 8), render.BoxTR, render.Reset)
	fmt.Printf("%s%s%s %s%sNeonAlpha Alerts%s\n", render.Green, render.BoxV, render.Reset, render.Bold, render.Cyan, render.Reset)
	fmt.Printf("%s%s%s %s | %s*%s %s\n", render.Green, render.BoxV, render.Reset, title, render.Green, render.Reset, time.Now().Format("15:04:05"))
	fmt.Printf("%s%s%s%s%s\n", render.Green, render.BoxML, strings.Repeat(render.BoxH, 75), render.BoxMR, render.Reset)

	// Oldest first, newest at the bottom.
	for i := len(filtered) - 1; i >= 0; i-- {
		fmt.Println(render.Card(&filtered[i]))
	}

	fmt.Printf("\n%sALPHA-TERM | Showing %d alert(s) | %s | neonalpha.me%s\n\n",
		render.Cyan, len(filtered), strings.ToUpper(status.Tier), render.Reset)
}
