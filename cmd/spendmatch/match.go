package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/larserikfagernaes/spendmatch/internal/cli"
	"github.com/larserikfagernaes/spendmatch/internal/engine"
	"github.com/larserikfagernaes/spendmatch/internal/model"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match unlabeled transactions to suppliers",
		Long: `Build supplier profiles from labeled transactions, score every
unlabeled transaction with the chosen strategy and write accepted
matches (including the supplier's usual category) back to the
database. Use --dry-run to preview without writing.`,
		RunE: runMatch,
	}

	cmd.Flags().String("strategy", string(model.StrategyHybrid), "scoring strategy (term-vector, edit-distance, hybrid, shingle)")
	cmd.Flags().Float64("threshold", 0.7, "minimum similarity to accept a match (0.0-1.0)")
	cmd.Flags().Int("limit", 0, "maximum transactions to process (0 = all)")
	cmd.Flags().Int("batch", 50, "progress-log cadence for write-backs")
	cmd.Flags().Int("min-examples", 2, "minimum labeled examples to keep a supplier profile")
	cmd.Flags().Int("workers", 0, "scoring workers (0 = number of CPUs)")
	cmd.Flags().Bool("dry-run", false, "score without writing anything")
	cmd.Flags().String("output", "", "write the apply summary as JSON to this file")

	return cmd
}

func runMatch(cmd *cobra.Command, _ []string) error {
	strategyFlag := stringOption(cmd, "strategy", "matching.strategy")
	threshold := floatOption(cmd, "threshold", "matching.threshold")
	limit, _ := cmd.Flags().GetInt("limit")
	batch, _ := cmd.Flags().GetInt("batch")
	minExamples, _ := cmd.Flags().GetInt("min-examples")
	workers, _ := cmd.Flags().GetInt("workers")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	output, _ := cmd.Flags().GetString("output")

	strategy, err := model.ParseStrategy(strategyFlag)
	if err != nil {
		return err
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

	bar := cli.NewProgressBar(os.Stderr, -1, "Matching transactions...")
	summary, err := eng.Apply(ctx, engine.ApplyOptions{
		Strategy:   strategy,
		Threshold:  threshold,
		Limit:      limit,
		Batch:      batch,
		DryRun:     dryRun,
		OnProgress: func(model.MatchResult) { _ = bar.Add(1) },
	})
	_ = bar.Finish()
	if err != nil {
		return err
	}

	cli.RenderApplySummary(os.Stdout, summary)

	if output != "" {
		if err := writeJSON(output, summary); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("Summary written to "+output))
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
