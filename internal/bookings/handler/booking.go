package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"studyroom/internal/auth"
	"studyroom/internal/bookings/service"
	apperrors "studyroom/pkg/errors"
	httputil "studyroom/pkg/http"
	"studyroom/pkg/logger"
	"studyroom/pkg/model"
)

type BookingHandler struct {
	service  service.BookingService
	sessions *auth.Manager
	log      *logger.Logger
}

func NewBookingHandler(service service.BookingService, sessions *auth.Manager, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:  service,
		sessions: sessions,
		log:      log,
	}
}

// List serves the shared timetable for one day; defaults to the current day.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.ListByDate(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, _ := auth.FromContext(r.Context())

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Create(r.Context(), ident.StudentID, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ident, _ := auth.FromContext(r.Context())

	err := h.service.Delete(r.Context(), ps.ByName("id"), ident.StudentID, ident.IsAdmin)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// MyBookings lists the caller's bookings across all dates, newest day first.
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, _ := auth.FromContext(r.Context())

	bookings, err := h.service.ListByStudent(r.Context(), ident.StudentID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MyBookings", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "MyBookings", "error", err)
	}
}

func (h *BookingHandler) AdminList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var bookings []*model.Booking
	var err error

	if date := r.URL.Query().Get("date"); date != "" {
		bookings, err = h.service.ListByDate(r.Context(), date)
	} else {
		bookings, err = h.service.ListAll(r.Context())
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdminList", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "AdminList", "error", err)
	}
}

func (h *BookingHandler) AdminCreate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AdminBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdminCreate", "error", writeErr)
		}
		return
	}

	booking, err := h.service.AdminCreate(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdminCreate", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "AdminCreate", "error", err)
	}
}

func (h *BookingHandler) AdminDelete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ident, _ := auth.FromContext(r.Context())

	err := h.service.Delete(r.Context(), ps.ByName("id"), ident.StudentID, true)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdminDelete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/bookings", h.sessions.RequireSession(h.List))
	router.POST("/api/bookings", h.sessions.RequireSession(h.Create))
	router.DELETE("/api/bookings/:id", h.sessions.RequireSession(h.Delete))
	router.GET("/api/my-bookings", h.sessions.RequireSession(h.MyBookings))

	router.GET("/api/admin/bookings", h.sessions.RequireAdmin(h.AdminList))
	router.POST("/api/admin/bookings", h.sessions.RequireAdmin(h.AdminCreate))
	router.DELETE("/api/admin/bookings/:id", h.sessions.RequireAdmin(h.AdminDelete))
}
