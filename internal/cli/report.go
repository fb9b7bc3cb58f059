package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/schollz/progressbar/v3"

	"github.com/larserikfagernaes/spendmatch/internal/model"
)

// RenderEvaluation writes a strategy-comparison table for the given
// reports and highlights the winner.
func RenderEvaluation(w io.Writer, reports []model.EvaluationReport, best *model.EvaluationReport) {
	fmt.Fprintln(w, TitleStyle.Render("Strategy comparison"))

	header := fmt.Sprintf("%-15s %9s %9s %11s %10s", "STRATEGY", "ACCURACY", "CORRECT", "CONFIDENCE", "ELAPSED")
	fmt.Fprintln(w, TableHeaderStyle.Render(header))

	for _, r := range reports {
		line := fmt.Sprintf("%-15s %8.1f%% %6d/%-2d %11.1f %10s",
			r.Strategy, r.Accuracy*100, r.Correct, r.Total, r.MeanConfidence, r.Elapsed.Round(1e6))
		if best != nil && r.Strategy == best.Strategy {
			fmt.Fprintln(w, SuccessStyle.Render(line+"  *"))
			continue
		}
		fmt.Fprintln(w, TableCellStyle.Render(line))
	}

	if best != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, BoldStyle.Render(fmt.Sprintf("Best strategy: %s (%.1f%% accuracy)", best.Strategy, best.Accuracy*100)))
	}
}

// RenderIncorrect lists the mismatched predictions of one report, up
// to max lines.
func RenderIncorrect(w io.Writer, report *model.EvaluationReport, max int) {
	wrong := report.Incorrect()
	if len(wrong) == 0 {
		return
	}

	fmt.Fprintln(w, WarningStyle.Render(fmt.Sprintf("Incorrect predictions (%s):", report.Strategy)))
	for i, p := range wrong {
		if max > 0 && i >= max {
			fmt.Fprintln(w, SubtleStyle.Render(fmt.Sprintf("  ... and %d more", len(wrong)-max)))
			break
		}
		predicted := p.Predicted
		if !p.Matched {
			predicted = "(no match)"
		}
		fmt.Fprintln(w, SubtleStyle.Render(fmt.Sprintf("  %q: predicted %s, expected %s (confidence %d)",
			p.Description, predicted, p.TrueSupplier, p.Confidence)))
	}
}

// RenderApplySummary writes the outcome of a batch-apply run.
func RenderApplySummary(w io.Writer, summary *model.ApplySummary) {
	title := "Batch apply"
	if summary.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, TitleStyle.Render(title))

	fmt.Fprintf(w, "%s %d processed, %d matched, %d skipped",
		BoldStyle.Render("Result:"), summary.Processed, summary.Matched, summary.Skipped)
	if summary.Failed > 0 {
		fmt.Fprintf(w, ", %s", ErrorStyle.Render(fmt.Sprintf("%d failed", summary.Failed)))
	}
	fmt.Fprintf(w, " in %s\n", summary.Elapsed.Round(1e6))

	if len(summary.BySupplier) > 0 {
		names := make([]string, 0, len(summary.BySupplier))
		for name := range summary.BySupplier {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if summary.BySupplier[names[i]] != summary.BySupplier[names[j]] {
				return summary.BySupplier[names[i]] > summary.BySupplier[names[j]]
			}
			return names[i] < names[j]
		})

		fmt.Fprintln(w, SubtleStyle.Render("Matches per supplier:"))
		for _, name := range names {
			fmt.Fprintf(w, "  %-40s %d\n", name, summary.BySupplier[name])
		}
	}

	for _, f := range summary.Failures {
		fmt.Fprintln(w, ErrorStyle.Render(fmt.Sprintf("  failed %s: %s", f.TransactionID, f.Error)))
	}
}

// NewProgressBar creates the progress bar used while scoring a batch.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
