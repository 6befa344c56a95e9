package api

import (
	"context"
	"net/http"
	"time"

	chatapi "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/api/chat"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/api/docs"
	ingresapi "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/api/ingres"
	knowledgeapi "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/api/knowledge"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/api/middleware"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/entity"
	"github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Handlers groups the route handlers mounted by SetupRouter
type Handlers struct {
	Chat      *chatapi.Handler
	Ingres    *ingresapi.Handler
	Knowledge *knowledgeapi.Handler
}

// HealthSource reports the state of the pipeline for /health
type HealthSource interface {
	Providers() map[string]bool
	KnowledgeCount(ctx context.Context) (int, error)
	RegionCount() int
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, health HealthSource, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", healthHandler(health))

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	chatapi.RegisterRoutes(r, h.Chat)
	ingresapi.RegisterRoutes(r, h.Ingres)
	knowledgeapi.RegisterRoutes(r, h.Knowledge)

	return r
}

// healthHandler reports "degraded" when the knowledge store cannot be counted.
// Unconfigured providers do not degrade health since the template always answers.
func healthHandler(health HealthSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := &entity.HealthResponse{
			Status:    "healthy",
			Providers: health.Providers(),
			Regions:   health.RegionCount(),
			Timestamp: time.Now().UTC(),
		}

		count, err := health.KnowledgeCount(r.Context())
		if err != nil {
			ctxzap.Warn(r.Context(), "health check: knowledge store unavailable", zap.Error(err))
			resp.Status = "degraded"
		}
		resp.KnowledgeDocuments = count

		response.Success(w, resp)
	}
}
