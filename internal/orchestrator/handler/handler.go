package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lcm/internal/contract"
	"lcm/internal/orchestrator"
	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
	"lcm/pkg/platform/httputil"
	"lcm/pkg/requestcontext"
)

// Service defines the orchestrator operation the handler needs.
type Service interface {
	ProduceFirstResponse(ctx context.Context, in orchestrator.Input, lang domain.Language) (*orchestrator.Response, error)
}

// Handler exposes the first-response pipeline over HTTP.
type Handler struct {
	service     Service
	contract    *contract.Validator
	logger      *slog.Logger
	defaultLang domain.Language
}

// New constructs a first-response handler. defaultLang applies when neither
// the body nor Accept-Language names a language.
func New(service Service, logger *slog.Logger, defaultLang domain.Language) *Handler {
	if !defaultLang.IsValid() {
		defaultLang = domain.DefaultLanguage
	}
	return &Handler{
		service:     service,
		contract:    contract.New(),
		logger:      logger,
		defaultLang: defaultLang,
	}
}

// Register mounts first-response endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/first-response", h.HandleFirstResponse)
}

// HandleFirstResponse handles POST /first-response requests. Blocks are
// returned as 200 with blocked=true; render defects are 500s.
func (h *Handler) HandleFirstResponse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	raw, err := io.ReadAll(io.LimitReader(r.Body, httputil.MaxBodyBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read request body"))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	req, ok := httputil.DecodeAndPrepare[FirstResponseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.contract.CheckForbiddenFields(raw); err != nil {
		h.logger.WarnContext(ctx, "request rejected by contract",
			"request_id", requestID,
			"reject_code", contract.RejectCodeOf(err),
		)
		httputil.WriteError(w, err)
		return
	}

	lang := h.language(req.Lang, r.Header.Get("Accept-Language"))
	resp, err := h.service.ProduceFirstResponse(ctx, req.Input(), lang)
	if err != nil {
		h.logger.ErrorContext(ctx, "first response failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "first response produced",
		"request_id", requestID,
		"blocked", resp.Blocked,
		"reason_code", resp.ReasonCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) language(bodyLang, acceptLanguage string) domain.Language {
	switch {
	case bodyLang != "":
		return domain.ParseLanguage(bodyLang)
	case acceptLanguage != "":
		return domain.ParseLanguage(acceptLanguage)
	default:
		return h.defaultLang
	}
}
