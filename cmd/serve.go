package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/timada-org/todos/internal/api"
	"github.com/timada-org/todos/internal/core"
	"github.com/timada-org/todos/internal/service"
	"github.com/timada-org/todos/internal/sse"
	"github.com/timada-org/todos/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the todos server",

	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.NewConfig(cfgFile)
		if err != nil {
			return err
		}

		core.NewLogger(os.Stderr, config.Log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, config)
	},
}

func serve(ctx context.Context, config *core.Config) error {
	s, err := store.NewSQLiteStore(config.Database)
	if err != nil {
		return err
	}
	defer s.Close()

	sseServer := sse.New()

	bus := core.NewEventBus(&core.EventBusOptions{
		Server: sseServer,
	})

	var auth *api.Auth
	if config.Auth.JwksURL != "" {
		auth, err = api.NewAuth(config.Auth.JwksURL)
		if err != nil {
			return err
		}
	}

	app := api.New(api.Options{
		Addr:    config.Addr,
		Service: service.New(service.Options{Repository: s, Bus: bus}),
		Sse:     sseServer,
		Auth:    auth,
	})
	defer app.Close()

	log.Info("opened database", "path", config.Database)

	return app.Listen(ctx)
}
