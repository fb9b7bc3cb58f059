package model

import "time"

// Prediction records a single evaluated match for audit.
type Prediction struct {
	TransactionID string   `json:"transaction_id"`
	Description   string   `json:"description"`
	TrueSupplier  string   `json:"true_supplier"`
	Predicted     string   `json:"predicted_supplier"`
	PredictedName string   `json:"predicted_supplier_name"`
	Strategy      Strategy `json:"strategy"`
	Confidence    int      `json:"confidence"`
	Matched       bool     `json:"matched"`
	Correct       bool     `json:"correct"`
}

// EvaluationReport aggregates one strategy's performance over a
// held-out test split. The seed and threshold are recorded so a report
// can be reproduced exactly.
type EvaluationReport struct {
	RunID          string        `json:"run_id"`
	Strategy       Strategy      `json:"strategy"`
	Accuracy       float64       `json:"accuracy"`
	Correct        int           `json:"correct"`
	Total          int           `json:"total"`
	MeanConfidence float64       `json:"mean_confidence"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	Threshold      float64       `json:"threshold"`
	Seed           int64         `json:"seed"`
	Predictions    []Prediction  `json:"predictions"`
}

// Incorrect returns the predictions that picked the wrong supplier.
func (r *EvaluationReport) Incorrect() []Prediction {
	var wrong []Prediction
	for _, p := range r.Predictions {
		if !p.Correct {
			wrong = append(wrong, p)
		}
	}
	return wrong
}

// ApplyFailure records one transaction whose write-back failed during
// a batch apply. Failures never abort the batch.
type ApplyFailure struct {
	TransactionID string `json:"transaction_id"`
	Error         string `json:"error"`
}

// ApplySummary is the outcome of one batch-apply run.
type ApplySummary struct {
	RunID      string         `json:"run_id"`
	Strategy   Strategy       `json:"strategy"`
	Threshold  float64        `json:"threshold"`
	DryRun     bool           `json:"dry_run"`
	Processed  int            `json:"processed"`
	Matched    int            `json:"matched"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
	BySupplier map[string]int `json:"by_supplier"`
	Elapsed    time.Duration  `json:"elapsed_ns"`
	Results    []MatchResult  `json:"results"`
	Failures   []ApplyFailure `json:"failures,omitempty"`
}
