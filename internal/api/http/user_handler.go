package http

import (
	"net/http"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	profile, err := h.userSvc.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user := userFromContext(r.Context())
	updated, err := h.userSvc.UpdateProfile(r.Context(), user.ID, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, total, err := h.userSvc.List(r.Context(), queryInt32(r, "page"), queryInt32(r, "page_size"))
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: users, Total: total, Page: max(queryInt32(r, "page"), 1)})
}

func (h *UserHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Blocked bool `json:"blocked"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.userSvc.SetBlocked(r.Context(), id, req.Blocked); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user updated"})
}
