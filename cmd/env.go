package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/brandlift/partnerfit/internal/analysis"
	"github.com/brandlift/partnerfit/internal/cost"
	"github.com/brandlift/partnerfit/internal/store"
	"github.com/brandlift/partnerfit/pkg/profiledata"
	"github.com/brandlift/partnerfit/pkg/scoring"
)

// analysisEnv bundles everything an analysis command needs. Callers should
// defer env.Close().
type analysisEnv struct {
	Store    store.Store
	Analyzer *analysis.Analyzer
}

func (e *analysisEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "partnerfit.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initAnalysis sets up the store, provider clients, pricing, and the
// Analyzer.
func initAnalysis(ctx context.Context) (*analysisEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	rates, err := cost.LoadRates(cfg.Pricing.RatesPath)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	profileOpts := []profiledata.Option{
		profiledata.WithBaseURL(cfg.ProfileData.BaseURL),
		profiledata.WithRateLimit(cfg.ProfileData.RateLimit),
	}
	if cfg.ProfileData.TimeoutSecs > 0 {
		profileOpts = append(profileOpts, profiledata.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.ProfileData.TimeoutSecs) * time.Second,
		}))
	}
	profiles := profiledata.NewClient(cfg.ProfileData.Key, profileOpts...)
	scorer := scoring.NewClient(cfg.Scoring.Key)

	analyzer := analysis.New(cfg, st, profiles, scorer, cost.NewCalculator(rates))

	return &analysisEnv{Store: st, Analyzer: analyzer}, nil
}
