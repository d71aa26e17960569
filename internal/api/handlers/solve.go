package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	mw "github.com/Harshitk-cp/geosolve/internal/api/middleware"
	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxProblemBytes bounds a problem body.
const maxProblemBytes = 1 << 20

type SolveHandler struct {
	svc     *service.SolverService
	timeout time.Duration
	logger  *zap.Logger
}

func NewSolveHandler(svc *service.SolverService, timeout time.Duration, logger *zap.Logger) *SolveHandler {
	return &SolveHandler{svc: svc, timeout: timeout, logger: logger}
}

type listSolutionsResponse struct {
	Solutions []domain.SolutionSummary `json:"solutions"`
	Count     int                      `json:"count"`
}

// Solve handles POST /v1/solve. With ?format=text the rendered proofs are
// returned as plain text instead of the full solution.
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req domain.Problem
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProblemBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	sol, err := h.svc.Solve(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoRecords), errors.Is(err, service.ErrMalformedRecord):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "solve timed out")
		default:
			h.logger.Error("solve failed",
				zap.String("request_id", mw.RequestIDFromContext(r.Context())),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "failed to solve problem")
		}
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(renderText(sol)))
		return
	}
	writeJSON(w, http.StatusOK, sol)
}

// GetByID handles GET /v1/solutions/{id}.
func (h *SolveHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid solution id")
		return
	}

	sol, err := h.svc.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSolutionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoSolutionStore):
			writeError(w, http.StatusNotImplemented, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to get solution")
		}
		return
	}
	writeJSON(w, http.StatusOK, sol)
}

// List handles GET /v1/solutions?limit=N.
func (h *SolveHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	sums, err := h.svc.List(r.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrNoSolutionStore) {
			writeError(w, http.StatusNotImplemented, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list solutions")
		return
	}
	if sums == nil {
		sums = []domain.SolutionSummary{}
	}
	writeJSON(w, http.StatusOK, listSolutionsResponse{Solutions: sums, Count: len(sums)})
}

func renderText(sol *domain.Solution) string {
	var b strings.Builder
	b.WriteString("Status: " + string(sol.Status) + "\n")
	if len(sol.Conclusions) == 0 {
		b.WriteString("No conclusions.\n")
	}
	for _, c := range sol.Conclusions {
		b.WriteString("\n")
		b.WriteString(c.Text)
	}
	return b.String()
}
