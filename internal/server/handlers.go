package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/brandlift/partnerfit/internal/analysis"
	"github.com/brandlift/partnerfit/internal/model"
	"github.com/brandlift/partnerfit/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleBulkAnalysis accepts a bulk request and runs it synchronously. A
// request rejected up front maps to 400 or 402; per-profile failures travel
// inside the 200 body.
func (s *Server) handleBulkAnalysis(w http.ResponseWriter, r *http.Request) {
	var req model.BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.analyzer.AnalyzeBulk(r.Context(), req)
	if err != nil {
		var vErr *analysis.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: vErr.Reason, Field: vErr.Field})
			return
		}
		var cErr *analysis.InsufficientCreditsError
		if errors.As(err, &cErr) {
			writeError(w, http.StatusPaymentRequired, cErr.Error())
			return
		}
		zap.L().Error("server: bulk analysis failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	rec, err := s.runs.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		zap.L().Error("server: get run failed", zap.String("run_id", runID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{
		UserID:       q.Get("user_id"),
		AnalysisType: model.AnalysisType(q.Get("analysis_type")),
		Limit:        queryInt(q.Get("limit"), 50),
		Offset:       queryInt(q.Get("offset"), 0),
	}

	runs, err := s.runs.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("server: list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	balance, err := s.runs.GetCreditBalance(r.Context(), userID)
	if err != nil {
		zap.L().Error("server: balance lookup failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "balance": balance})
}

func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
