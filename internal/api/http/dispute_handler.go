package http

import (
	"encoding/json"
	"net/http"

	"borrowhub-backend/internal/service"
)

type DisputeHandler struct {
	disputeSvc service.DisputeService
}

func NewDisputeHandler(disputeSvc service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputeSvc: disputeSvc}
}

func (h *DisputeHandler) Open(w http.ResponseWriter, r *http.Request) {
	var input service.OpenDisputeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Code: "validation_error"})
		return
	}

	dispute, err := h.disputeSvc.OpenDispute(r.Context(), userID(r), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dispute)
}

func (h *DisputeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	disputeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		DeductionPercentage int32 `json:"deduction_percentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Code: "validation_error"})
		return
	}

	dispute, err := h.disputeSvc.ResolveDispute(r.Context(), userID(r), disputeID, body.DeductionPercentage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) Get(w http.ResponseWriter, r *http.Request) {
	disputeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	dispute, err := h.disputeSvc.GetDispute(r.Context(), userID(r), disputeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispute)
}

func (h *DisputeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	pageSize := queryInt(q.Get("page_size"), 20)

	disputes, total, err := h.disputeSvc.ListMyDisputes(r.Context(), userID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"disputes":    disputes,
		"total_count": total,
	})
}
