package analysis

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/brandlift/partnerfit/internal/model"
	"github.com/brandlift/partnerfit/internal/resilience"
	"github.com/brandlift/partnerfit/pkg/profiledata"
	"github.com/brandlift/partnerfit/pkg/scoring"
)

// analyzeProfile runs the per-profile pipeline: fetch, pre-screen, score,
// persist. Each stage failure is contained to this profile; the returned
// outcome is always terminal.
func (a *Analyzer) analyzeProfile(ctx context.Context, handle string, req model.BulkRequest) outcome {
	log := zap.L().With(
		zap.String("handle", handle),
		zap.String("user_id", req.UserID),
	)

	fail := func(stage model.Stage, reason model.FailReason, err error) outcome {
		log.Warn("analysis: profile failed",
			zap.String("stage", string(stage)),
			zap.String("reason", string(reason)),
			zap.Error(err),
		)
		f := &model.ProfileFailure{Handle: handle, Reason: reason, Stage: stage}
		if err != nil {
			f.Detail = err.Error()
		}
		return outcome{failure: f}
	}

	// Fetch. Transient provider trouble (including 429s) is retried; a
	// missing profile never is.
	attrs, err := a.fetchProfile(ctx, handle)
	if err != nil {
		switch {
		case errors.Is(err, profiledata.ErrNotFound):
			return fail(model.StageFetching, model.FailNotFound, err)
		case errors.Is(err, profiledata.ErrRateLimited):
			return fail(model.StageFetching, model.FailRateLimited, err)
		case errors.Is(err, profiledata.ErrMalformed):
			return fail(model.StageFetching, model.FailMalformedProfile, err)
		default:
			return fail(model.StageFetching, model.FailProviderError, err)
		}
	}

	profile := toProfile(attrs)
	totalCost := a.costCalc.Fetch()

	// Pre-screen: heuristics that finalize the score without a paid call.
	var score int
	var summary string
	preScreened := false
	degraded := false

	if verdict, hit := preScreen(profile); hit {
		score = verdict.Score
		summary = verdict.Summary
		preScreened = true
		log.Info("analysis: profile pre-screened",
			zap.Int("score", score),
			zap.Int("followers", profile.FollowersCount),
		)
	} else {
		resp, err := a.scorer.Complete(ctx, scoring.Request{
			Model:     a.cfg.Scoring.Model,
			MaxTokens: a.cfg.Scoring.MaxTokens,
			System:    scoreSystemPrompt,
			Prompt:    buildScorePrompt(profile, req.BusinessID),
		})
		if err != nil {
			return fail(model.StageScoring, model.FailScoringError, err)
		}
		totalCost += a.costCalc.Score(resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)

		decoded := decodeScoreResult(resp.Text)
		if decoded.Status == DecodeErr {
			log.Warn("analysis: scorer output undecodable",
				zap.String("notes", decoded.Notes),
			)
			return fail(model.StageScoring, model.FailScoringError, errors.New(decoded.Notes))
		}
		if decoded.Status == DecodeDegraded {
			degraded = true
			log.Warn("analysis: degraded decode of scorer output",
				zap.String("notes", decoded.Notes),
			)
		}
		score = decoded.Score
		summary = decoded.Summary
	}

	// Persist. The run ID is the stable reference the ledger links to.
	saved, err := a.store.SaveAnalysis(ctx, model.AnalysisRecord{
		Handle:       handle,
		AnalysisType: req.AnalysisType,
		BusinessID:   req.BusinessID,
		UserID:       req.UserID,
		Score:        score,
		Summary:      summary,
		Cost:         totalCost,
		PreScreened:  preScreened,
		Profile:      profile,
	})
	if err != nil {
		return fail(model.StagePersisted, model.FailPersistence, err)
	}

	log.Info("analysis: profile scored",
		zap.Int("score", score),
		zap.Bool("pre_screened", preScreened),
		zap.String("run_id", saved.RunID),
	)

	return outcome{success: &model.ProfileSuccess{
		Handle:      handle,
		Score:       score,
		Summary:     summary,
		Cost:        totalCost,
		RunID:       saved.RunID,
		PreScreened: preScreened,
		Degraded:    degraded,
	}}
}

// fetchProfile wraps the provider call in retry. Rate limiting and network
// trouble retry; NotFound and Malformed are permanent for this profile.
func (a *Analyzer) fetchProfile(ctx context.Context, handle string) (*profiledata.ProfileAttributes, error) {
	cfg := resilience.DefaultRetryConfig()
	if a.cfg.ProfileData.FetchRetries > 0 {
		cfg.MaxAttempts = a.cfg.ProfileData.FetchRetries
	}
	cfg.ShouldRetry = func(err error) bool {
		if errors.Is(err, profiledata.ErrNotFound) || errors.Is(err, profiledata.ErrMalformed) {
			return false
		}
		return errors.Is(err, profiledata.ErrRateLimited) || resilience.IsTransient(err)
	}
	cfg.OnRetry = resilience.RetryLogger("profiledata", "fetch")

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (*profiledata.ProfileAttributes, error) {
		return a.profiles.Fetch(ctx, handle)
	})
}

// toProfile converts provider attributes into the domain record.
func toProfile(attrs *profiledata.ProfileAttributes) model.Profile {
	return model.Profile{
		Handle:         attrs.Handle,
		FullName:       attrs.FullName,
		Biography:      attrs.Biography,
		FollowersCount: attrs.FollowersCount,
		FollowingCount: attrs.FollowingCount,
		PostsCount:     attrs.PostsCount,
		IsPrivate:      attrs.IsPrivate,
		IsVerified:     attrs.IsVerified,
		IsBusiness:     attrs.IsBusiness,
		Category:       attrs.Category,
		ExternalURL:    attrs.ExternalURL,
		FetchedAt:      time.Now().UTC(),
	}
}
