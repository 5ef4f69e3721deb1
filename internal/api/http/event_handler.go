package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/repository"
	"eventhub-backend/internal/service"
)

type EventHandler struct {
	eventSvc service.EventService
}

func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

type eventRequest struct {
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	EventDate            time.Time  `json:"event_date"`
	EventTime            string     `json:"event_time"`
	Location             string     `json:"location"`
	Category             string     `json:"category"`
	ImageURL             string     `json:"image_url"`
	MaxParticipants      int32      `json:"max_participants"`
	PriceCents           int32      `json:"price_cents"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
}

func (req eventRequest) toInput() service.EventInput {
	return service.EventInput{
		Title:                req.Title,
		Description:          req.Description,
		EventDate:            req.EventDate,
		EventTime:            req.EventTime,
		Location:             req.Location,
		Category:             req.Category,
		ImageURL:             req.ImageURL,
		MaxParticipants:      req.MaxParticipants,
		PriceCents:           req.PriceCents,
		RegistrationDeadline: req.RegistrationDeadline,
	}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		return 0, domain.ErrValidation
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, name string) int32 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 32)
	return int32(v)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user := userFromContext(r.Context())
	event, err := h.eventSvc.Create(r.Context(), user.ID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	event, err := h.eventSvc.Get(r.Context(), id, callerID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.EventFilter{
		Search:       q.Get("search"),
		Category:     q.Get("category"),
		Status:       domain.EventStatus(q.Get("status")),
		UpcomingOnly: q.Get("upcoming") == "true",
		SortBy:       q.Get("sort_by"),
		SortOrder:    q.Get("sort_order"),
		Page:         queryInt32(r, "page"),
		PageSize:     queryInt32(r, "page_size"),
	}

	events, total, err := h.eventSvc.List(r.Context(), filter, callerID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: events, Total: total, Page: max(filter.Page, 1)})
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.eventSvc.Update(r.Context(), id, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Status domain.EventStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.eventSvc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.eventSvc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

func (h *EventHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.eventSvc.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
