package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/sketchrec/internal/domain/model"
	"github.com/okian/sketchrec/pkg/logger"
)

// TemplateDependencies defines the interface for template management.
type TemplateDependencies interface {
	Templates(ctx context.Context) ([]model.Template, error)
	SaveTemplate(ctx context.Context, label string, stroke model.Stroke) error
	DeleteTemplate(ctx context.Context, label string) error
}

type templateRequest struct {
	Label  string       `json:"label"`
	Points model.Stroke `json:"points"`
}

// templateResponse lists a stored template. Points are the normalized
// sequence, not the stroke that was submitted.
type templateResponse struct {
	Label  string         `json:"label"`
	Points model.Sequence `json:"points"`
}

type savedResponse struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// TemplatesHandler handles template requests.
type TemplatesHandler struct {
	deps   TemplateDependencies
	logger logger.Logger
}

// NewTemplatesHandler creates a new templates handler.
func NewTemplatesHandler(deps TemplateDependencies, log logger.Logger) *TemplatesHandler {
	return &TemplatesHandler{deps: deps, logger: log}
}

// HandleTemplates handles GET and POST /templates requests.
func (h *TemplatesHandler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.save(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// HandleTemplate handles DELETE /templates/{label} requests.
func (h *TemplatesHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}
	label := strings.TrimPrefix(r.URL.Path, "/templates/")
	if label == "" || strings.Contains(label, "/") {
		writeError(w, http.StatusBadRequest, codeBadRequest, ErrMissingLabel)
		return
	}
	if err := h.deps.DeleteTemplate(r.Context(), label); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TemplatesHandler) list(w http.ResponseWriter, r *http.Request) {
	templates, err := h.deps.Templates(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]templateResponse, len(templates))
	for i, t := range templates {
		out[i] = templateResponse{Label: t.Label, Points: t.Sequence}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TemplatesHandler) save(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: %w", ErrBadRequest, ErrMissingLabel))
		return
	}
	if err := h.deps.SaveTemplate(r.Context(), req.Label, req.Points); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, savedResponse{Label: req.Label, Points: len(req.Points)})
}

func (h *TemplatesHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "template request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}
