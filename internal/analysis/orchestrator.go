package analysis

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brandlift/partnerfit/internal/config"
	"github.com/brandlift/partnerfit/internal/cost"
	"github.com/brandlift/partnerfit/internal/model"
	"github.com/brandlift/partnerfit/internal/store"
	"github.com/brandlift/partnerfit/pkg/profiledata"
	"github.com/brandlift/partnerfit/pkg/scoring"
)

// Analyzer orchestrates bulk profile analyses: it validates the request,
// fans windows of profiles out to concurrent pipelines, and settles credits
// and usage once the batch drains.
type Analyzer struct {
	cfg      *config.Config
	store    store.Store
	profiles profiledata.Client
	scorer   scoring.Client
	costCalc *cost.Calculator
}

// New creates an Analyzer wired to the given collaborators.
func New(cfg *config.Config, st store.Store, profiles profiledata.Client, scorer scoring.Client, costCalc *cost.Calculator) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		store:    st,
		profiles: profiles,
		scorer:   scorer,
		costCalc: costCalc,
	}
}

// AnalyzeBulk processes a bulk request end to end. Individual profile
// failures are reported in the result, not as an error; the returned error
// is reserved for request rejection (validation, insufficient credits) and
// context cancellation.
func (a *Analyzer) AnalyzeBulk(ctx context.Context, req model.BulkRequest) (*model.BulkResult, error) {
	req, err := ValidateRequest(req, a.cfg.Analysis.MaxProfiles)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("user_id", req.UserID),
		zap.String("analysis_type", string(req.AnalysisType)),
	)

	// Advisory pre-flight. The real guard is the conditional debit at
	// reconcile time; this check only rejects requests that obviously
	// cannot be covered.
	required := int64(len(req.Profiles)) * unitCost
	balance, err := a.store.GetCreditBalance(ctx, req.UserID)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: read credit balance")
	}
	if balance < required {
		return nil, &InsufficientCreditsError{Balance: balance, Required: required}
	}

	log.Info("analysis: bulk run starting",
		zap.Int("profiles", len(req.Profiles)),
		zap.Int64("balance", balance),
	)

	size := windowSizeFor(req.AnalysisType)
	wins := windows(req.Profiles, size)
	coll := newCollector(len(req.Profiles))
	delay := time.Duration(a.cfg.Analysis.WindowDelayMS) * time.Millisecond

	for i, win := range wins {
		g, winCtx := errgroup.WithContext(ctx)
		g.SetLimit(size)
		for _, handle := range win {
			g.Go(func() error {
				coll.add(a.analyzeProfile(winCtx, handle, req))
				return nil
			})
		}
		// Pipelines never return errors; Wait only orders the window.
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "analysis: bulk run canceled")
		}

		log.Debug("analysis: window complete",
			zap.Int("window", i+1),
			zap.Int("windows", len(wins)),
		)

		if i < len(wins)-1 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, eris.Wrap(ctx.Err(), "analysis: bulk run canceled")
			}
		}
	}

	successes, failures := coll.outcomes()
	rec := a.reconcile(ctx, req, successes, balance)

	log.Info("analysis: bulk run complete",
		zap.Int("successful", len(successes)),
		zap.Int("failed", len(failures)),
		zap.Int64("credits_used", rec.creditsUsed),
	)

	return &model.BulkResult{
		TotalRequested:   len(req.Profiles),
		Successful:       len(successes),
		Failed:           len(failures),
		Results:          successes,
		Errors:           failures,
		CreditsUsed:      rec.creditsUsed,
		CreditsRemaining: rec.remaining,
		AvgCost:          rec.avgCost,
		EfficiencyRatio:  rec.efficiency,
	}, nil
}
