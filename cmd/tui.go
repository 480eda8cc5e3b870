package cmd

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/timada-org/todos/internal/board"
	"github.com/timada-org/todos/internal/core"
	"github.com/timada-org/todos/internal/ui"
	"github.com/timada-org/todos/pkg/client"
)

var (
	logFile string

	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal client",

		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := core.NewConfig(cfgFile)
			if err != nil {
				return err
			}

			f, err := tea.LogToFile(logFile, "")
			if err != nil {
				return err
			}
			defer f.Close()

			core.NewLogger(f, config.Log)

			return runTUI(cmd.Context(), config)
		},
	}
)

func init() {
	tuiCmd.Flags().StringVar(&logFile, "log", os.DevNull, "file receiving client logs")
}

func runTUI(ctx context.Context, config *core.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c, err := client.New(client.ClientOptions{
		URL:   config.Client.URL,
		Token: config.Client.Token,
	})
	if err != nil {
		return err
	}

	events, err := c.Events(ctx, "todos/#")
	if err != nil {
		// The list still works without live updates.
		log.Warn("live updates unavailable", "err", err)
		events = nil
	}

	return ui.Run(ctx, board.New(c), events)
}
