package docs

import (
	"net/http"

	apidocs "github.com/SoumyaRaikwar/JALBUDDY-CHATBOT-SIH/docs"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const openAPIPath = "/docs/swagger.yaml"

// RegisterRoutes mounts Swagger UI under /docs, backed by the embedded OpenAPI file.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get(openAPIPath, openAPIHandler)
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL(openAPIPath),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))
}

func openAPIHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(apidocs.SwaggerYAML)
}
