package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/neonalpha/alpha-term/internal/api"
	"github.com/neonalpha/alpha-term/internal/metrics"
	"github.com/neonalpha/alpha-term/internal/render"
	"github.com/neonalpha/alpha-term/internal/sink"
	"github.com/neonalpha/alpha-term/internal/watch"
)

var (
	watchSound       bool
	watchSave        string
	watchCSV         string
	watchArchive     string
	watchKeyword     string
	watchHandle      string
	watchJSON        bool
	watchTest        bool
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor alerts in live mode",
	Long: `Poll the NeonAlpha service and display new alerts as they arrive.

The first poll only establishes a baseline; alerts are shown from the
second poll onward, so starting a watch never replays history.

Examples:
  # Watch everything
  alpha-term watch

  # Watch one account for a keyword, with sound
  alpha-term watch --handle elonmusk --keyword launch --sound

  # Log matches to a file and a CSV export
  alpha-term watch --save alerts.txt --csv alerts.csv`,
	Run: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVarP(&watchSound, "sound", "s", false, "play a terminal bell on new alerts")
	watchCmd.Flags().StringVar(&watchSave, "save", "", "append alerts to a text file")
	watchCmd.Flags().StringVar(&watchCSV, "csv", "", "append alerts to a CSV export")
	watchCmd.Flags().StringVar(&watchArchive, "archive", "", "archive alerts into a SQLite database")
	watchCmd.Flags().StringVarP(&watchKeyword, "keyword", "k", "", "filter by keyword")
	watchCmd.Flags().StringVar(&watchHandle, "handle", "", "filter by author handle")
	watchCmd.Flags().BoolVarP(&watchJSON, "json", "j", false, "output alerts as JSON")
	watchCmd.Flags().BoolVarP(&watchTest, "test", "t", false, "render one synthetic alert and exit (no network)")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
}

func runWatch(cmd *cobra.Command, args []string) {
	if watchTest {
		runWatchDemo()
		return
	}

	env, err := newEnv()
	if err != nil {
		PrintError(err.Error(), true)
		return
	}

	fmt.Printf("\n%sValidating subscription...%s\n\n", render.Cyan, render.Reset)
	status := watch.ValidateSession(cmd.Context(), env.client)
	if !status.Valid {
		fmt.Printf("%s%s%s\n\n", render.Red, status.Message, render.Reset)
		fmt.Printf("%s%s%s\n", render.Green, strings.Repeat(render.BoxH, 55), render.Reset)
		fmt.Printf("%sAlpha-Term CLI is available for Pro and Elite subscribers only.%s\n", render.Yellow, render.Reset)
		fmt.Printf("%s%s%s\n\n", render.Green, strings.Repeat(render.BoxH, 55), render.Reset)
		return
	}
	fmt.Printf("%s%s%s subscription validated\n\n", render.Green, strings.ToUpper(status.Tier), render.Reset)

	// Flags override stored config without persisting.
	sound := watchSound || env.cfg.SoundEnabled
	saveFile := watchSave
	if saveFile == "" {
		saveFile = env.cfg.SaveToFile
	}
	csvFile := watchCSV
	if csvFile == "" {
		csvFile = env.cfg.CSVFile
	}
	archiveDB := watchArchive
	if archiveDB == "" {
		archiveDB = env.cfg.ArchiveDB
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fanout := sink.NewFanout()
	fanout.SetVerbose(IsVerbose())
	defer fanout.Close()

	if saveFile != "" {
		fanout.Register(sink.NewTextSink(saveFile))
		fmt.Printf("%sSaving alerts to: %s%s\n", render.Green, saveFile, render.Reset)
	}

	if csvFile != "" {
		// Monitor metadata enriches the CSV source/priority columns;
		// the export still works without it.
		monitorMap := map[string]api.Monitor{}
		monitors, err := env.client.Monitors(ctx)
		if err != nil {
			fmt.Printf("%sCSV export: %s (could not load monitors)%s\n", render.Yellow, csvFile, render.Reset)
		} else {
			for _, m := range monitors {
				monitorMap[m.ID] = m
			}
			fmt.Printf("%sCSV export: %s%s (%d monitors loaded)\n", render.Green, csvFile, render.Reset, len(monitors))
		}
		fanout.Register(sink.NewCSVSink(csvFile, monitorMap))
	}

	if archiveDB != "" {
		archive, err := sink.NewSQLiteSink(archiveDB)
		if err != nil {
			PrintError(fmt.Sprintf("open archive: %v", err), false)
		} else {
			fanout.Register(archive)
			fmt.Printf("%sArchiving alerts to: %s%s\n", render.Green, archiveDB, render.Reset)
		}
	}

	fanout.Register(sink.NewDisplaySink(os.Stdout, watchJSON))

	fmt.Print(render.Banner())
	fmt.Printf("%sPress Ctrl+C to quit%s\n", render.Cyan, render.Reset)
	fmt.Printf("%sWaiting for new alerts...%s\n\n", render.Yellow, render.Reset)

	scheduler := watch.NewScheduler(env.client, fanout, watch.Options{
		Interval: env.cfg.PollInterval,
		Criteria: watch.Criteria{Handle: watchHandle, Keyword: watchKeyword},
		Sound:    sound,
		Out:      os.Stdout,
		Verbose:  IsVerbose(),
	})

	g, ctx := errgroup.WithContext(ctx)

	var metricsServer *metrics.Server
	if watchMetricsAddr != "" {
		metricsServer = metrics.NewServer(watchMetricsAddr)
		g.Go(metricsServer.Start)
	}

	g.Go(func() error {
		defer func() {
			if metricsServer != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				metricsServer.Shutdown(shutdownCtx)
			}
		}()
		return scheduler.Run(ctx)
	})

	err = g.Wait()
	switch {
	case errors.Is(err, watch.ErrSessionExpired):
		os.Exit(1)
	case errors.Is(err, context.Canceled):
		fmt.Printf("\n%sStopped. %d alert(s) this session.%s\n", render.Cyan, scheduler.Total(), render.Reset)
	case err != nil:
		PrintError(err.Error(), true)
	}
}

// runWatchDemo renders one synthetic alert without touching the network.
func runWatchDemo() {
	fmt.Print(render.Banner())

	demo := &api.Alert{
		ID:           "demo-1",
		MonitorID:    "demo",
		Platform:     api.PlatformTwitter,
		PostID:       "demo",
		Text:         "$BTC showing strong momentum. Accumulation phase continuing. Watch for breakout above $76K. The bull run is just getting started. #bitcoin #crypto",
		AuthorHandle: "elonmusk",
		AuthorName:   "Elon Musk",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if watchJSON {
		display := sink.NewDisplaySink(os.Stdout, true)
		display.Write(context.Background(), demo)
	} else {
		fmt.Println()
		fmt.Println(render.Card(demo))
	}

	fmt.Printf("%s%s%s\n", render.Green, strings.Repeat(render.BoxH, 55), render.Reset)
	fmt.Printf("%sTo use alpha-term for real:%s\n", render.Yellow, render.Reset)
	fmt.Printf("  1. Subscribe to Pro or Elite at %shttps://neonalpha.me%s\n", render.Cyan, render.Reset)
	fmt.Printf("  2. Run '%salpha-term login%s'\n", render.Green, render.Reset)
	fmt.Printf("  3. Run '%salpha-term watch%s'\n", render.Green, render.Reset)
	fmt.Printf("%s%s%s\n\n", render.Green, strings.Repeat(render.BoxH, 55), render.Reset)
}
