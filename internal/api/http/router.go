package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"eventhub-backend/internal/service"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth         *AuthHandler
	Event        *EventHandler
	Participant  *ParticipantHandler
	Notification *NotificationHandler
	User         *UserHandler
}

func NewHandlers(
	authSvc service.AuthService,
	eventSvc service.EventService,
	partSvc service.ParticipantService,
	noteSvc service.NotificationService,
	userSvc service.UserService,
) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(authSvc),
		Event:        NewEventHandler(eventSvc),
		Participant:  NewParticipantHandler(partSvc),
		Notification: NewNotificationHandler(noteSvc),
		User:         NewUserHandler(userSvc),
	}
}

// NewRouter registers every route. Event reads are public (with optional
// caller identity for participation status); everything else requires a
// valid access token, and review/admin routes the organizer role on top.
func NewRouter(h *Handlers, mw *Middleware) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// auth
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)

	// events
	api.HandleFunc("/events", mw.OptionalAuth(h.Event.List)).Methods(http.MethodGet)
	api.HandleFunc("/events", mw.RequireOrganizer(h.Event.Create)).Methods(http.MethodPost)
	api.HandleFunc("/events/stats", mw.RequireOrganizer(h.Event.Stats)).Methods(http.MethodGet)
	api.HandleFunc("/events/{id:[0-9]+}", mw.OptionalAuth(h.Event.Get)).Methods(http.MethodGet)
	api.HandleFunc("/events/{id:[0-9]+}", mw.RequireOrganizer(h.Event.Update)).Methods(http.MethodPut)
	api.HandleFunc("/events/{id:[0-9]+}", mw.RequireOrganizer(h.Event.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/events/{id:[0-9]+}/status", mw.RequireOrganizer(h.Event.UpdateStatus)).Methods(http.MethodPut)

	// admission
	api.HandleFunc("/events/{id:[0-9]+}/join", mw.Authenticate(h.Participant.Join)).Methods(http.MethodPost)
	api.HandleFunc("/events/{id:[0-9]+}/leave", mw.Authenticate(h.Participant.Leave)).Methods(http.MethodDelete)
	api.HandleFunc("/events/{id:[0-9]+}/participants", mw.RequireOrganizer(h.Participant.ListForEvent)).Methods(http.MethodGet)
	api.HandleFunc("/participants/my", mw.Authenticate(h.Participant.ListMine)).Methods(http.MethodGet)
	api.HandleFunc("/participants/pending", mw.RequireOrganizer(h.Participant.ListPending)).Methods(http.MethodGet)
	api.HandleFunc("/participants/stats", mw.RequireOrganizer(h.Participant.Stats)).Methods(http.MethodGet)
	api.HandleFunc("/participants/bulk-approve", mw.RequireOrganizer(h.Participant.BulkApprove)).Methods(http.MethodPost)
	api.HandleFunc("/participants/{id:[0-9]+}/approve", mw.RequireOrganizer(h.Participant.Approve)).Methods(http.MethodPut)
	api.HandleFunc("/participants/{id:[0-9]+}/reject", mw.RequireOrganizer(h.Participant.Reject)).Methods(http.MethodPut)
	api.HandleFunc("/participants/{id:[0-9]+}", mw.RequireOrganizer(h.Participant.Delete)).Methods(http.MethodDelete)

	// notifications
	api.HandleFunc("/notifications", mw.Authenticate(h.Notification.List)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/unread-count", mw.Authenticate(h.Notification.UnreadCount)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", mw.Authenticate(h.Notification.MarkAllRead)).Methods(http.MethodPut)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", mw.Authenticate(h.Notification.MarkRead)).Methods(http.MethodPut)
	api.HandleFunc("/notifications/{id:[0-9]+}", mw.Authenticate(h.Notification.Delete)).Methods(http.MethodDelete)

	// users
	api.HandleFunc("/users/me", mw.Authenticate(h.User.Me)).Methods(http.MethodGet)
	api.HandleFunc("/users/me", mw.Authenticate(h.User.UpdateMe)).Methods(http.MethodPut)
	api.HandleFunc("/users", mw.RequireOrganizer(h.User.List)).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/block", mw.RequireOrganizer(h.User.SetBlocked)).Methods(http.MethodPut)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
