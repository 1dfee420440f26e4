package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"studyroom/internal/auth"
	"studyroom/internal/users/service"
	apperrors "studyroom/pkg/errors"
	httputil "studyroom/pkg/http"
	"studyroom/pkg/logger"
	"studyroom/pkg/model"
)

// BookingLister provides the bookings shown on the admin user-inspect view.
type BookingLister interface {
	ListByStudent(ctx context.Context, studentID string) ([]*model.Booking, error)
}

type UserHandler struct {
	service  service.UserService
	bookings BookingLister
	sessions *auth.Manager
	log      *logger.Logger
}

func NewUserHandler(service service.UserService, bookings BookingLister, sessions *auth.Manager, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		bookings: bookings,
		sessions: sessions,
		log:      log,
	}
}

type loginRequest struct {
	StudentID string `json:"student_id"`
}

type userWithBookings struct {
	User     *model.User      `json:"user"`
	Bookings []*model.Booking `json:"bookings"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "error", writeErr)
		}
		return
	}

	user, err := h.service.Login(r.Context(), req.StudentID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "error", writeErr)
		}
		return
	}

	// Identity resolution succeeded, but banned accounts never get a session.
	if user.IsBanned {
		h.log.Warn("Banned user attempted login", "student_id", user.StudentID)
		if writeErr := httputil.WriteError(w, apperrors.Forbidden("Your account has been suspended")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "error", writeErr)
		}
		return
	}

	ident := auth.Identity{
		UserID:    user.ID,
		StudentID: user.StudentID,
		IsAdmin:   user.IsAdmin,
	}
	if err := h.sessions.Establish(w, r, ident); err != nil {
		h.log.Error("failed to establish session", "student_id", user.StudentID, "error", err)
		if writeErr := httputil.WriteError(w, apperrors.Internal("Failed to establish session", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.sessions.Clear(w, r); err != nil {
		h.log.Error("failed to clear session", "error", err)
	}
	httputil.WriteNoContent(w)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ident, _ := auth.FromContext(r.Context())

	user, err := h.service.GetByID(r.Context(), ident.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Me", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "error", err)
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, users); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *UserHandler) Inspect(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	studentID := ps.ByName("studentID")

	user, err := h.service.GetByStudentID(r.Context(), studentID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Inspect", "error", writeErr)
		}
		return
	}

	bookings, err := h.bookings.ListByStudent(r.Context(), studentID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Inspect", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, userWithBookings{User: user, Bookings: bookings}); err != nil {
		h.log.Error("failed to write success response", "handler", "Inspect", "error", err)
	}
}

type banRequest struct {
	IsBanned *bool `json:"is_banned"`
}

func (h *UserHandler) Ban(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	studentID := ps.ByName("studentID")

	// Absent body or absent flag defaults to banning.
	banned := true
	if r.Body != nil && r.ContentLength != 0 {
		var req banRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Ban", "error", writeErr)
			}
			return
		}
		if req.IsBanned != nil {
			banned = *req.IsBanned
		}
	}

	user, err := h.service.SetBanned(r.Context(), studentID, banned)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Ban", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Ban", "error", err)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/login", h.Login)
	router.POST("/api/logout", h.Logout)
	router.GET("/api/me", h.sessions.RequireSession(h.Me))

	router.GET("/api/admin/users", h.sessions.RequireAdmin(h.List))
	router.GET("/api/admin/users/:studentID", h.sessions.RequireAdmin(h.Inspect))
	router.POST("/api/admin/users/:studentID/ban", h.sessions.RequireAdmin(h.Ban))
}
