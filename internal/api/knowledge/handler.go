package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/logger"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/response"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   KnowledgeUsecase
	validator *validator.Validator
}

func NewHandler(usecase KnowledgeUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// AddDocument handles POST /api/v1/knowledge/documents
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AddDocument")

	var req entity.AddDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateDocument(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	id, err := h.usecase.AddDocument(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "document added",
		zap.String("document_id", id),
		zap.String("document_type", req.DocumentType),
	)

	response.Created(w, &entity.AddDocumentResponse{ID: id})
}

// Search handles POST /api/v1/knowledge/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SearchKnowledge")

	var req entity.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateSearch(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	results := h.usecase.Search(ctx, req)

	ctxzap.Debug(ctx, "knowledge searched", zap.Int("results", len(results)))

	response.Success(w, &entity.SearchResponse{
		Results: results,
		Total:   len(results),
	})
}

// Stats handles GET /api/v1/knowledge/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "KnowledgeStats")

	stats, err := h.usecase.Stats(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, stats)
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
	if errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrUnsupportedLanguage) {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	} else if errors.Is(err, entity.ErrVectorStoreUnavailable) {
		h.respondError(ctx, w, http.StatusServiceUnavailable, "knowledge store unavailable", err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
