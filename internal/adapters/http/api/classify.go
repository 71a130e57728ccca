package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/okian/sketchrec/internal/app"
	"github.com/okian/sketchrec/internal/domain/model"
	"github.com/okian/sketchrec/pkg/logger"
)

// ClassifyDependencies defines the interface for stroke classification.
type ClassifyDependencies interface {
	Classify(ctx context.Context, stroke model.Stroke, threshold *float64, top int) (service.Recognition, error)
}

// classifyRequest is the body of POST /classify.
type classifyRequest struct {
	Points    model.Stroke `json:"points"`
	Threshold *float64     `json:"threshold,omitempty"`
	Top       int          `json:"top,omitempty"`
}

type candidateResponse struct {
	Label string   `json:"label"`
	Cost  *float64 `json:"cost"`
}

// classifyResponse reports the recognized label. Label is null and Matched
// false when no template is close enough; Cost is null when there are no
// templates at all.
type classifyResponse struct {
	RequestID  string              `json:"request_id"`
	Label      *string             `json:"label"`
	Matched    bool                `json:"matched"`
	Cost       *float64            `json:"cost"`
	Threshold  float64             `json:"threshold"`
	DisplayMS  int64               `json:"display_ms"`
	Candidates []candidateResponse `json:"candidates,omitempty"`
}

// ClassifyHandler handles classification requests.
type ClassifyHandler struct {
	deps   ClassifyDependencies
	maxTop int
	logger logger.Logger
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps ClassifyDependencies, maxTop int, log logger.Logger) *ClassifyHandler {
	return &ClassifyHandler{deps: deps, maxTop: maxTop, logger: log}
}

// HandleClassify handles POST /classify requests.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req classifyRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if req.Top < 0 || req.Top > h.maxTop {
		writeError(w, http.StatusBadRequest, codeBadRequest,
			fmt.Errorf("%w: %w: top must be in [0, %d]", ErrBadRequest, ErrTooManyResults, h.maxTop))
		return
	}

	rec, err := h.deps.Classify(r.Context(), req.Points, req.Threshold, req.Top)
	if err != nil {
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "classification failed", logger.Error(err))
		}
		writeError(w, status, code, err)
		return
	}

	resp := classifyResponse{
		RequestID: rec.RequestID,
		Matched:   rec.Result.Matched(),
		Cost:      finite(rec.Result.Cost),
		Threshold: rec.Threshold,
		DisplayMS: rec.DisplayDuration.Milliseconds(),
	}
	if resp.Matched {
		label := rec.Result.Label
		resp.Label = &label
	}
	for _, c := range rec.Candidates {
		resp.Candidates = append(resp.Candidates, candidateResponse{Label: c.Label, Cost: finite(c.Cost)})
	}
	writeJSON(w, http.StatusOK, resp)
}
