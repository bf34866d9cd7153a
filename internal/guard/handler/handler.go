package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lcm/internal/guard"
	"lcm/pkg/platform/httputil"
	"lcm/pkg/requestcontext"
)

// Evaluator defines the guard operations the handler needs.
type Evaluator interface {
	Evaluate(text string, lang guard.Language) guard.Decision
	EvaluateTwoPass(userText, draftText string, lang guard.Language) (guard.Decision, guard.Pass)
}

// Handler exposes the guard over HTTP.
type Handler struct {
	guard  Evaluator
	logger *slog.Logger
}

// New constructs a guard handler with its dependencies.
func New(g Evaluator, logger *slog.Logger) *Handler {
	return &Handler{
		guard:  g,
		logger: logger,
	}
}

// Register mounts guard endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/guard/evaluate", h.HandleEvaluate)
}

// HandleEvaluate handles POST /guard/evaluate requests. A block is a
// successful evaluation and returns 200.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	var resp *EvaluateResponse
	var decision guard.Decision
	if req.Draft != "" {
		var pass guard.Pass
		decision, pass = h.guard.EvaluateTwoPass(req.Text, req.Draft, req.ParsedLanguage())
		resp = FromTwoPass(decision, pass)
	} else {
		decision = h.guard.Evaluate(req.Text, req.ParsedLanguage())
		resp = FromDecision(decision)
	}

	h.logger.InfoContext(ctx, "guard evaluated",
		"request_id", requestID,
		"blocked", decision.Blocked,
		"reason_code", decision.Reason,
		"pass", resp.Pass,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, resp)
}
