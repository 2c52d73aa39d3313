package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/grocery/internal/constants"
	"github.com/Alturino/grocery/internal/log"
	notification "github.com/Alturino/grocery/notification/cmd"
)

func Start() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().
		Timestamp().
		Str(log.KeyAppName, constants.AppGrocery).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.AppGrocery}
	commands := []*cobra.Command{
		{
			Use:   "api",
			Short: "Run grocery api serving cart, order, user, address, wishlist and help request",
			Run: func(cmd *cobra.Command, args []string) {
				RunApi(cmd.Context())
			},
		},
		{
			Use:   "notification",
			Short: "Run notification service consuming order events",
			Run: func(cmd *cobra.Command, args []string) {
				notification.RunNotificationService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
