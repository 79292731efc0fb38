package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spigell/powerus/internal/display"
	"github.com/spigell/powerus/internal/pricing"
	"github.com/spigell/powerus/internal/problem"
	"go.uber.org/zap"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote a job for a worker from the roster",
	Run: func(cmd *cobra.Command, _ []string) {
		quote(cmd)
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringP("worker", "w", "", "worker id (required)")
	quoteCmd.Flags().Float64P("hours", "H", 0, "estimated hours (default is pricing.default-hours)")
	quoteCmd.Flags().StringP("urgency", "u", string(problem.UrgencyFlexible), "emergency, soon or flexible")
	quoteCmd.Flags().StringP("complexity", "c", string(problem.ComplexityModerate), "simple, moderate or complex")
	quoteCmd.Flags().StringP("output", "o", string(display.FormatHuman), "output format: human, json or yaml")

	quoteCmd.MarkFlagRequired("worker")
}

func quote(cmd *cobra.Command) {
	config, logger := setup()

	format, err := display.ParseFormat(cmd.Flag("output").Value.String())
	if err != nil {
		logger.Fatal("parsing flags", zap.Error(err))
	}

	p := problem.Default()
	var ok bool
	if p.Urgency, ok = problem.ParseUrgency(cmd.Flag("urgency").Value.String()); !ok {
		logger.Fatal("unknown urgency", zap.String("urgency", cmd.Flag("urgency").Value.String()))
	}
	if p.Details.Complexity, ok = problem.ParseComplexity(cmd.Flag("complexity").Value.String()); !ok {
		logger.Fatal("unknown complexity", zap.String("complexity", cmd.Flag("complexity").Value.String()))
	}

	hours, _ := cmd.Flags().GetFloat64("hours")
	if !cmd.Flags().Changed("hours") {
		hours = config.Pricing.DefaultHours
	}

	workers, err := loadRoster(config.Roster, logger)
	if err != nil {
		logger.Fatal("loading roster", zap.Error(err))
	}

	id := cmd.Flag("worker").Value.String()
	worker, found := workers.Find(id)
	if !found {
		logger.Fatal("worker not found", zap.String("worker_id", id), zap.Int("roster_size", workers.Len()))
	}

	result, err := pricing.NewEngine(logger).Price(worker, p, hours, nil)
	if err != nil {
		logger.Fatal("pricing the job", zap.Error(err))
	}

	if err := display.Quote(os.Stdout, format, worker, result); err != nil {
		logger.Fatal("printing the quote", zap.Error(err))
	}
}
