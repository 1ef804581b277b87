package codes

import (
	"net/http"

	"github.com/gorilla/mux"

	"mcid/internal/auth"
)

// RegisterRoutes вешает эндпоинты приложений на /api/v1 со скоупами
// codes:request / codes:verify (каждый маршрут — свой сабраутер, права
// проверяются до хендлера).
func RegisterRoutes(r *mux.Router, h *Handler, v auth.Verifier) {
	request := r.PathPrefix("/api/v1").Subrouter()
	request.Use(auth.Require(v, auth.Permissions{"codes": {"request"}}))
	request.HandleFunc("/codes/request", h.RequestCode).Methods(http.MethodPost)
	request.HandleFunc("/lookup/{username}", h.LookupUsername).Methods(http.MethodGet)

	verify := r.PathPrefix("/api/v1").Subrouter()
	verify.Use(auth.Require(v, auth.Permissions{"codes": {"verify"}}))
	verify.HandleFunc("/codes/verify", h.VerifyCode).Methods(http.MethodPost)
}
