package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spigell/powerus/internal/display"
	"go.uber.org/zap"
)

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List the professionals in the roster",
	Run: func(cmd *cobra.Command, _ []string) {
		listWorkers(cmd)
	},
}

func init() {
	rootCmd.AddCommand(workersCmd)

	workersCmd.Flags().StringP("trade", "t", "", "show only workers of this trade")
	workersCmd.Flags().StringP("output", "o", string(display.FormatHuman), "output format: human, json or yaml")
}

func listWorkers(cmd *cobra.Command) {
	config, logger := setup()

	format, err := display.ParseFormat(cmd.Flag("output").Value.String())
	if err != nil {
		logger.Fatal("parsing flags", zap.Error(err))
	}

	workers, err := loadRoster(config.Roster, logger)
	if err != nil {
		logger.Fatal("loading roster", zap.Error(err))
	}

	if err := display.Workers(os.Stdout, format, workers.ByTrade(cmd.Flag("trade").Value.String())); err != nil {
		logger.Fatal("printing workers", zap.Error(err))
	}
}
