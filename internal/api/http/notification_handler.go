package http

import (
	"net/http"

	"borrowhub-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), 1)
	pageSize := queryInt(q.Get("page_size"), 20)

	notes, total, err := h.noteSvc.List(r.Context(), userID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notes,
		"total_count":   total,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	noteID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), userID(r), noteID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
