package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/larserikfagernaes/spendmatch/internal/cli"
	"github.com/larserikfagernaes/spendmatch/internal/engine"
	"github.com/larserikfagernaes/spendmatch/internal/model"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compare matching strategies on labeled history",
		Long: `Hold one transaction out per sampled supplier, rebuild profiles
from the remainder and measure each strategy's accuracy on the
held-out set. The split is seeded, so the same seed reproduces the
same report.`,
		RunE: runEvaluate,
	}

	cmd.Flags().String("strategy", "all", "strategy to evaluate, or \"all\"")
	cmd.Flags().Float64("threshold", 0.7, "minimum similarity to accept a match (0.0-1.0)")
	cmd.Flags().Int("test-size", 50, "number of suppliers to hold a transaction out from")
	cmd.Flags().Int64("seed", 42, "random seed for the train/test split")
	cmd.Flags().Int("min-examples", 2, "minimum labeled examples to keep a supplier profile")
	cmd.Flags().Int("workers", 0, "scoring workers (0 = number of CPUs)")
	cmd.Flags().String("save", "", "directory to save per-strategy JSON reports to")
	cmd.Flags().Int("show-incorrect", 10, "how many incorrect predictions to print per strategy (0 = none)")

	return cmd
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	strategyFlag := stringOption(cmd, "strategy", "matching.strategy")
	threshold := floatOption(cmd, "threshold", "matching.threshold")
	testSize, _ := cmd.Flags().GetInt("test-size")
	seed, _ := cmd.Flags().GetInt64("seed")
	minExamples, _ := cmd.Flags().GetInt("min-examples")
	workers, _ := cmd.Flags().GetInt("workers")
	saveDir, _ := cmd.Flags().GetString("save")
	showIncorrect, _ := cmd.Flags().GetInt("show-incorrect")

	var strategies []model.Strategy
	if strategyFlag != "all" {
		strategy, err := model.ParseStrategy(strategyFlag)
		if err != nil {
			return err
		}
		strategies = []model.Strategy{strategy}
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	eng, err := initEngine(store, minExamples, workers)
	if err != nil {
		return err
	}

	reports, err := eng.Evaluate(ctx, engine.EvaluateOptions{
		Strategies: strategies,
		Threshold:  threshold,
		TestSize:   testSize,
		Seed:       seed,
	})
	if err != nil {
		return err
	}

	best := engine.Best(reports)
	cli.RenderEvaluation(os.Stdout, reports, best)

	if showIncorrect > 0 {
		for i := range reports {
			cli.RenderIncorrect(os.Stdout, &reports[i], showIncorrect)
		}
	}

	if saveDir != "" {
		if err := saveReports(saveDir, reports); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("Reports written to "+saveDir))
	}
	return nil
}

// saveReports writes one timestamped JSON file per strategy report.
func saveReports(dir string, reports []model.EvaluationReport) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	for i := range reports {
		name := fmt.Sprintf("%s_%s.json", reports[i].Strategy, stamp)
		if err := writeJSON(filepath.Join(dir, name), &reports[i]); err != nil {
			return err
		}
	}
	return nil
}
