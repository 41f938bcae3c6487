package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "bastion-demo",
		Short: "Demonstration front-end for the bastion failure-handling primitives",
		Long: `bastion-demo runs a small front-end demonstrating the bastion library:

  • an asynchronous data fetch with manual retry and stale-result rejection
  • a registration form validated on both the client and the server
  • a render-crash boundary with an explicit external reset

Run "serve" to start the simulated backend, then "demo" to walk the
front-end scenario against it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		serveCmd(),
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// initLogging installs a tinted slog handler as the default logger.
func initLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bastion-demo %s (%s)\n", version, commit)
		},
	}
}
