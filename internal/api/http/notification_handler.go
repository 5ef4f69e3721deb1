package http

import (
	"net/http"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/repository"
	"eventhub-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.NotificationFilter{
		Type:     domain.NotificationType(q.Get("type")),
		Page:     queryInt32(r, "page"),
		PageSize: queryInt32(r, "page_size"),
	}
	if raw := q.Get("is_read"); raw != "" {
		isRead := raw == "true"
		filter.IsRead = &isRead
	}

	user := userFromContext(r.Context())
	notes, total, err := h.noteSvc.List(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: notes, Total: total, Page: max(filter.Page, 1)})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	count, err := h.noteSvc.UnreadCount(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user := userFromContext(r.Context())
	if err := h.noteSvc.MarkRead(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	count, err := h.noteSvc.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked_read": count})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user := userFromContext(r.Context())
	if err := h.noteSvc.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}
