package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lcm/internal/renderer"
	"lcm/pkg/platform/httputil"
	"lcm/pkg/requestcontext"
)

// Renderer defines the render operation the handler needs.
type Renderer interface {
	Render(req renderer.RenderRequest) (renderer.RenderedMessage, error)
}

// Handler exposes the renderer over HTTP.
type Handler struct {
	renderer Renderer
	logger   *slog.Logger
}

// New constructs a render handler with its dependencies.
func New(r Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		renderer: r,
		logger:   logger,
	}
}

// Register mounts render endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/render", h.HandleRender)
}

// HandleRender handles POST /render requests.
func (h *Handler) HandleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[RenderRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	msg, err := h.renderer.Render(req.Parsed())
	if err != nil {
		h.logger.ErrorContext(ctx, "render failed",
			"request_id", requestID,
			"state_id", req.StateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "response rendered",
		"request_id", requestID,
		"state_id", msg.StateID,
		"language", msg.Language,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, msg)
}
