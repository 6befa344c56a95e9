package ingres

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/logger"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/response"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   GatewayUsecase
	validator *validator.Validator
}

func NewHandler(usecase GatewayUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Facet handles the per-district data endpoints, one per data type
func (h *Handler) Facet(dataType entity.DataType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		district := r.URL.Query().Get("district")
		ctx := logger.WithAction(r.Context(), "GetFacet", zap.String("data_type", string(dataType)))
		ctx = logger.WithDistrict(ctx, district)

		if err := h.validator.ValidateDistrict(district); err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "district query parameter is required", err)
			return
		}

		q, err := parseQualifiers(r)
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
			return
		}

		result, err := h.usecase.Fetch(ctx, dataType, district, q)
		if err != nil {
			h.handleUsecaseError(ctx, w, err)
			return
		}

		ctxzap.Debug(ctx, "facet served",
			zap.String("source", string(result.Source)),
			zap.Bool("degraded", result.Degraded),
		)

		response.Success(w, result)
	}
}

// Districts handles GET /api/v1/ingres/districts
func (h *Handler) Districts(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDistricts")

	result, err := h.usecase.Districts(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

// Summary handles GET /api/v1/ingres/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	district := r.URL.Query().Get("district")
	ctx := logger.WithDistrict(logger.WithAction(r.Context(), "DistrictSummary"), district)

	if err := h.validator.ValidateDistrict(district); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "district query parameter is required", err)
		return
	}

	q, err := parseQualifiers(r)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	live, err := h.usecase.FetchFacets(ctx, district, q)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, &entity.FacetSummaryResponse{
		District:          live.District,
		Source:            live.Source(),
		Degraded:          live.Degraded(),
		FacetsAvailable:   live.Available(),
		FacetsUnavailable: live.Unavailable(),
		Facets:            live.Facets,
	})
}

func parseQualifiers(r *http.Request) (entity.Qualifiers, error) {
	values := r.URL.Query()

	q := entity.Qualifiers{
		Season: values.Get("season"),
		Block:  values.Get("block"),
	}

	if raw := values.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1900 || year > 2100 {
			return entity.Qualifiers{}, fmt.Errorf("%w: year must be a four digit number", entity.ErrInvalidParameter)
		}
		q.Year = year
	}

	return q, nil
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
	} else if errors.Is(err, entity.ErrInvalidQuery) || errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrMissingField) {
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	} else {
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
