package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brandlift/partnerfit/internal/cost"
	"github.com/brandlift/partnerfit/internal/model"
)

// unitCost is the fixed credit charge per successfully completed analysis.
const unitCost = 1

// reconciliation summarizes the end-of-batch accounting pass.
type reconciliation struct {
	creditsUsed int64
	remaining   int64
	avgCost     float64
	efficiency  float64
}

// reconcile runs after all windows have drained: it issues one aggregate
// ledger debit for the batch and best-effort usage increments per success.
// Accounting failures are logged and never discard completed work; the
// response keeps every computed result.
func (a *Analyzer) reconcile(ctx context.Context, req model.BulkRequest, successes []model.ProfileSuccess, priorBalance int64) reconciliation {
	log := zap.L().With(zap.String("user_id", req.UserID))

	creditsUsed := int64(len(successes)) * unitCost

	var actualCost float64
	runIDs := make([]string, 0, len(successes))
	for _, s := range successes {
		actualCost += s.Cost
		runIDs = append(runIDs, s.RunID)
	}

	var avgCost float64
	if len(successes) > 0 {
		avgCost = cost.Round2(actualCost / float64(len(successes)))
	}
	var efficiency float64
	if actualCost > 0 {
		efficiency = float64(creditsUsed) / actualCost
	}

	if creditsUsed > 0 {
		entry := model.LedgerEntry{
			UserID:      req.UserID,
			Amount:      creditsUsed,
			Type:        model.LedgerEntryUse,
			Description: fmt.Sprintf("bulk %s analysis: %d profiles", req.AnalysisType, len(successes)),
			RunIDs:      runIDs,
		}
		if err := a.store.DebitCredits(ctx, entry); err != nil {
			// Completed paid work is returned even when the debit fails; the
			// ledger is reconciled out of band from this log line.
			log.Error("analysis: ledger debit failed",
				zap.Int64("credits", creditsUsed),
				zap.Strings("run_ids", runIDs),
				zap.Error(err),
			)
		}
	}

	remaining, err := a.store.GetCreditBalance(ctx, req.UserID)
	if err != nil {
		log.Warn("analysis: balance read after debit failed", zap.Error(err))
		remaining = priorBalance - creditsUsed
		if remaining < 0 {
			remaining = 0
		}
	}

	month := model.MonthKey(time.Now())
	for _, s := range successes {
		inc := model.UsageIncrement{
			UserID:       req.UserID,
			Month:        month,
			AnalysisType: req.AnalysisType,
			Cost:         s.Cost,
			Score:        s.Score,
		}
		if err := a.store.IncrementUsage(ctx, inc); err != nil {
			log.Warn("analysis: usage increment failed",
				zap.String("handle", s.Handle),
				zap.String("month", month),
				zap.Error(err),
			)
		}
	}

	return reconciliation{
		creditsUsed: creditsUsed,
		remaining:   remaining,
		avgCost:     avgCost,
		efficiency:  efficiency,
	}
}
