package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "todos",
		Short: "A todo list with favorites, colors and live updates",
		Long:  `Todos serves a small todo list over HTTP, streams changes as server sent events and ships a terminal client.`,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (defaults are used when empty)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
}
