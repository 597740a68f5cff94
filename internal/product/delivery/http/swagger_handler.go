package http

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// RegisterSwaggerDocs registers Swagger documentation routes.
// A nil handler serves the UI over the registered swag spec.
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	if swaggerHandler == nil {
		swaggerHandler = httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))
	}
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}
