package response

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	// Headers are already sent, so a failed encode can only be dropped.
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes an ErrorResponse carrying the request id so callers can
// match a failure with server logs.
func Error(ctx context.Context, w http.ResponseWriter, status int, message string) {
	body := entity.ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		RequestID: middleware.GetReqID(ctx),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxzap.Warn(ctx, "Failed to write error response", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}
