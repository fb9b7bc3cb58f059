// Package engine orchestrates the matching pipeline: profile
// construction from labeled data, strategy evaluation over a held-out
// split, and batch application of accepted matches to storage.
package engine

import (
	"context"
	"fmt"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/normalize"
	"github.com/larserikfagernaes/spendmatch/internal/profile"
	"github.com/larserikfagernaes/spendmatch/internal/scorer"
	"github.com/larserikfagernaes/spendmatch/internal/service"
)

// Config carries the engine-wide tunables shared by evaluation and
// batch application.
type Config struct {
	Scorer  scorer.Config
	Profile profile.Options
	// Workers sizes the scoring pool. Below 1 defaults to the CPU
	// count.
	Workers int
	// Retry governs storage write-backs.
	Retry service.RetryOptions
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Scorer:  scorer.DefaultConfig(),
		Profile: profile.DefaultOptions(),
		Retry:   service.DefaultRetryOptions(),
	}
}

// Engine wires the matching pipeline to its storage collaborator.
type Engine struct {
	storage service.Storage
	cfg     Config
}

// New creates an engine. Configuration is validated up front so a bad
// threshold or weight never reaches a scoring run.
func New(storage service.Storage, cfg Config) (*Engine, error) {
	if storage == nil {
		return nil, fmt.Errorf("%w: storage is required", common.ErrMissingConfig)
	}
	if err := cfg.Scorer.Validate(); err != nil {
		return nil, err
	}
	return &Engine{storage: storage, cfg: cfg}, nil
}

// buildProfiles loads suppliers and derives profiles from the given
// labeled transactions.
func (e *Engine) buildProfiles(ctx context.Context, labeled []model.Transaction) ([]*model.SupplierProfile, error) {
	suppliers, err := e.storage.GetSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading suppliers: %w", err)
	}

	b := profile.NewBuilder(normalize.New(e.cfg.Scorer.Normalize), e.cfg.Profile)
	return b.Build(labeled, suppliers), nil
}
