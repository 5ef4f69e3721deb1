package http

import (
	"net/http"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/repository"
	"eventhub-backend/internal/service"
)

type ParticipantHandler struct {
	partSvc service.ParticipantService
}

func NewParticipantHandler(partSvc service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{partSvc: partSvc}
}

func participantFilter(r *http.Request) repository.ParticipantFilter {
	q := r.URL.Query()
	return repository.ParticipantFilter{
		Status:    domain.ParticipantStatus(q.Get("status")),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Page:      queryInt32(r, "page"),
		PageSize:  queryInt32(r, "page_size"),
	}
}

func (h *ParticipantHandler) Join(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		EmergencyContact    string `json:"emergency_contact"`
		DietaryRequirements string `json:"dietary_requirements"`
		AccessibilityNeeds  string `json:"accessibility_needs"`
	}
	// join with an empty body is valid; details are optional
	_ = decodeJSON(r, &req)

	user := userFromContext(r.Context())
	p, err := h.partSvc.Join(r.Context(), eventID, user.ID, domain.AttendeeDetails{
		EmergencyContact:    req.EmergencyContact,
		DietaryRequirements: req.DietaryRequirements,
		AccessibilityNeeds:  req.AccessibilityNeeds,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ParticipantHandler) Leave(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user := userFromContext(r.Context())
	if err := h.partSvc.Leave(r.Context(), eventID, user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "application withdrawn"})
}

func (h *ParticipantHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	_ = decodeJSON(r, &req)

	user := userFromContext(r.Context())
	p, err := h.partSvc.Approve(r.Context(), id, user.ID, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ParticipantHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user := userFromContext(r.Context())
	p, err := h.partSvc.Reject(r.Context(), id, user.ID, req.Reason, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ParticipantHandler) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParticipantIDs []int32 `json:"participant_ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user := userFromContext(r.Context())
	count, err := h.partSvc.BulkApprove(r.Context(), req.ParticipantIDs, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"approved": count})
}

func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.partSvc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "participant removed"})
}

func (h *ParticipantHandler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	f := participantFilter(r)
	participants, total, err := h.partSvc.ListForEvent(r.Context(), eventID, f)
	if err != nil {
		writeError(w, err)
		return
	}
	if participants == nil {
		participants = []domain.Participant{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: participants, Total: total, Page: max(f.Page, 1)})
}

// ListMine returns the caller's applications across all events.
func (h *ParticipantHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	f := participantFilter(r)
	participants, total, err := h.partSvc.ListForUser(r.Context(), user.ID, f)
	if err != nil {
		writeError(w, err)
		return
	}
	if participants == nil {
		participants = []domain.Participant{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: participants, Total: total, Page: max(f.Page, 1)})
}

func (h *ParticipantHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	f := participantFilter(r)
	f.EventID = queryInt32(r, "event_id")
	participants, total, err := h.partSvc.ListPending(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	if participants == nil {
		participants = []domain.Participant{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: participants, Total: total, Page: max(f.Page, 1)})
}

func (h *ParticipantHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.partSvc.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
