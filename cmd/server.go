package cmd

import (
	"errors"
	httpNet "net/http"

	"golang-portfolio/internal/delivery/http"
	telegramDelivery "golang-portfolio/internal/delivery/telegram"
	"golang-portfolio/pkg/logger"
	"golang-portfolio/pkg/telegram"

	"github.com/spf13/cobra"
)

func newStartCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the HTTP API and the scheduled price refresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return start(cmd, *configPath)
		},
	}
}

func start(cmd *cobra.Command, configPath string) error {
	ctx := cmd.Context()

	appDep, err := NewAppDependency(ctx, configPath)
	if err != nil {
		return err
	}
	defer appDep.Close()

	services := appDep.Services()
	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.cfg, services)

	if err := services.SchedulerService.Start(ctx); err != nil {
		return err
	}
	defer services.SchedulerService.Stop()

	if bot, ok := appDep.notifier.(*telegram.TelegramRateLimiter); ok {
		botHandler := telegramDelivery.NewTelegramBotHandler(ctx, appDep.cfg, appDep.log, bot, appDep.echo, services)
		if err := botHandler.Start(); err != nil {
			return err
		}
	}

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	serverErr := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, httpNet.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		appDep.log.Info("Shutting down gracefully...")
	case err := <-serverErr:
		if err != nil {
			appDep.log.Error("Failed to start HTTP server", logger.ErrorField(err))
			return err
		}
	}

	return apiServer.Stop()
}
