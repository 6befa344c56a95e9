package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/logger"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/response"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   QueryUsecase
	validator *validator.Validator
}

func NewHandler(usecase QueryUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Query handles POST /api/v1/chat/query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ChatQuery")

	var req entity.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateQuery(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	ctxzap.Debug(ctx, "answering query",
		zap.String("user_id", req.UserID),
		zap.String("location", req.Location),
		zap.String("language", string(req.Language)),
	)

	result, err := h.usecase.Answer(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "query answered",
		zap.String("request_id", result.RequestID),
		zap.String("provider", result.Provider),
		zap.Bool("degraded", result.Degraded),
	)

	response.Success(w, result)
}

// History handles GET /api/v1/chat/history/{user_id}
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	ctx := logger.WithAction(r.Context(), "ChatHistory", zap.String("user_id", userID))

	if userID == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "user_id is required", entity.ErrMissingField)
		return
	}

	history := h.usecase.History(userID)

	ctxzap.Debug(ctx, "history listed", zap.Int("count", len(history.Exchanges)))

	response.Success(w, history)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(ctx, w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrRegionNotFound) {
		h.respondError(ctx, w, http.StatusNotFound, err.Error(), err)
	} else if errors.Is(err, entity.ErrInvalidQuery) || errors.Is(err, entity.ErrUnsupportedLanguage) || errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
