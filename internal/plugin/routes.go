package plugin

import (
	"net/http"

	"github.com/gorilla/mux"

	"mcid/internal/auth"
)

// RegisterRoutes — маршруты плагина под скоупом plugin:read.
// MCID в пути строгий: ровно 32 hex-символа, без дефисов.
func RegisterRoutes(r *mux.Router, h *Handler, v auth.Verifier) {
	sub := r.PathPrefix("/api/v1/plugin").Subrouter()
	sub.Use(auth.Require(v, auth.Permissions{"plugin": {"read"}}))
	sub.HandleFunc("/code/{mcid:[0-9a-f]{32}}", h.GetCode).Methods(http.MethodGet)
}
