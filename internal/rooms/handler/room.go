package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"studyroom/internal/auth"
	"studyroom/internal/rooms/service"
	apperrors "studyroom/pkg/errors"
	httputil "studyroom/pkg/http"
	"studyroom/pkg/logger"
	"studyroom/pkg/model"
)

type RoomHandler struct {
	service  service.RoomService
	sessions *auth.Manager
	log      *logger.Logger
}

func NewRoomHandler(service service.RoomService, sessions *auth.Manager, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service:  service,
		sessions: sessions,
		log:      log,
	}
}

// ListActive serves the self-service room list; only bookable rooms appear.
func (h *RoomHandler) ListActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.ListActive(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListActive", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "ListActive", "error", err)
	}
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}
	room.ID = ""
	room.IsActive = true

	created, err := h.service.Create(r.Context(), &room)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "error", err)
	}
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	room, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/rooms", h.sessions.RequireSession(h.ListActive))

	router.GET("/api/admin/rooms", h.sessions.RequireAdmin(h.List))
	router.POST("/api/admin/rooms", h.sessions.RequireAdmin(h.Create))
	router.PUT("/api/admin/rooms/:id", h.sessions.RequireAdmin(h.Update))
}
