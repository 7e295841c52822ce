package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"borrowhub-backend/internal/security"
	"borrowhub-backend/internal/service"
)

// NewRouter wires the REST façade. Routes map 1:1 onto the lifecycle and
// dispute operations; everything under /api/v1 requires a bearer token.
func NewRouter(
	tokens security.TokenManager,
	rentalSvc service.RentalService,
	disputeSvc service.DisputeService,
	noteSvc service.NotificationService,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, MetricsMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	rentals := NewRentalHandler(rentalSvc)
	api.HandleFunc("/rentals", rentals.Create).Methods("POST")
	api.HandleFunc("/rentals", rentals.List).Methods("GET")
	api.HandleFunc("/rentals/{id}", rentals.Get).Methods("GET")
	api.HandleFunc("/rentals/{id}/approve", rentals.Approve).Methods("POST")
	api.HandleFunc("/rentals/{id}/reject", rentals.Reject).Methods("POST")
	api.HandleFunc("/rentals/{id}/cancel", rentals.Cancel).Methods("POST")

	disputes := NewDisputeHandler(disputeSvc)
	api.HandleFunc("/disputes", disputes.Open).Methods("POST")
	api.HandleFunc("/disputes", disputes.List).Methods("GET")
	api.HandleFunc("/disputes/{id}", disputes.Get).Methods("GET")
	api.HandleFunc("/disputes/{id}/resolve", AdminOnly(disputes.Resolve)).Methods("POST")

	notes := NewNotificationHandler(noteSvc)
	api.HandleFunc("/notifications", notes.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notes.MarkAsRead).Methods("POST")

	return router
}
