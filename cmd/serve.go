package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/powerus/internal/server"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat api and the web client",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default is :8080)")
	serveCmd.Flags().String("static-dir", "", "directory with the web client to serve")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("server.static-dir", serveCmd.Flags().Lookup("static-dir"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, logger := setup()
	logger.Info("starting the powerus server", zap.String("version", version))

	if viper.GetBool("debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, err := newServices(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing services", zap.Error(err))
	}

	srv, err := server.New(config.Server, server.Deps{
		Chat:         svc.chat,
		Matcher:      svc.matcher,
		Engine:       svc.engine,
		Roster:       svc.roster,
		Bookings:     svc.bookings,
		DefaultHours: config.Pricing.DefaultHours,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("preparing http server", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}

	logger.Info("exiting", zap.String("reason", "shutdown requested"))
}
