package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"borrowhub-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateRentalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Code: "validation_error"})
		return
	}
	input.RenterID = userID(r)

	rental, err := h.rentalSvc.CreateRental(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rental, err := h.rentalSvc.ApproveRental(r.Context(), userID(r), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Code: "validation_error"})
		return
	}
	rental, err := h.rentalSvc.RejectRental(r.Context(), userID(r), rentalID, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rental, err := h.rentalSvc.CancelRental(r.Context(), userID(r), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	rentalID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), userID(r), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	role := q.Get("role")
	if role != "owner" {
		role = "renter"
	}
	page := queryInt(q.Get("page"), 1)
	pageSize := queryInt(q.Get("page_size"), 20)

	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), userID(r), role, q.Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rentals":     rentals,
		"total_count": total,
	})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id", Code: "validation_error"})
		return 0, false
	}
	return int32(id), true
}

func queryInt(raw string, fallback int32) int32 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
