package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/bastion-ui/bastion/internal/demo"
)

func demoCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk the demo front-end scenario against a running backend",
		Long: `Walks the three demo panels against a running "serve" backend:
the data fetch with failure and manual retry, the client/server
registration form flow, and the render-crash boundary with reset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &demo.Scenario{
				BaseURL: baseURL,
				Logger:  slog.Default().With("component", "demo"),
				Timeout: timeout,
			}
			return s.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&baseURL, "url", "u", "http://localhost:8080", "base URL of the demo backend")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "per-step wait timeout")
	return cmd
}
