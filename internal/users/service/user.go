package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	userserrors "studyroom/internal/users/errors"
	"studyroom/internal/users/repository"
	"studyroom/pkg/config"
	apperrors "studyroom/pkg/errors"
	"studyroom/pkg/kafka"
	"studyroom/pkg/model"
	"studyroom/pkg/sanitizer"
)

var studentIDPattern = regexp.MustCompile(`^[0-9]{10}$`)

// EventPublisher publishes account lifecycle events. A nil publisher disables
// event publication.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type UserService interface {
	// Login resolves an identifier to an account, creating it on first use
	// and refreshing last_login. Banned accounts resolve successfully; the
	// session layer decides what to do with them.
	Login(ctx context.Context, rawStudentID string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByStudentID(ctx context.Context, studentID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	SetBanned(ctx context.Context, studentID string, banned bool) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	events EventPublisher
	cfg    *config.Config
	now    func() time.Time
}

func NewUserService(repo repository.UserRepository, events EventPublisher, cfg *config.Config) UserService {
	return &userService{
		repo:   repo,
		events: events,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (s *userService) Login(ctx context.Context, rawStudentID string) (*model.User, error) {
	studentID := sanitizer.NormalizeStudentID(rawStudentID)
	if studentID == "" {
		return nil, apperrors.InvalidInput("Student ID is required")
	}

	isAdmin := studentID == s.cfg.AdminStudentID
	if !isAdmin && !studentIDPattern.MatchString(studentID) {
		return nil, apperrors.InvalidInput("Student ID must be exactly 10 digits")
	}

	user, err := s.repo.FindByStudentID(ctx, studentID)
	switch {
	case err == nil:
	case errors.Is(err, userserrors.ErrNotFound):
		user = &model.User{
			StudentID: studentID,
			IsAdmin:   isAdmin,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			// A concurrent first login may have won the unique index race;
			// fall back to the account it created.
			if errors.Is(err, userserrors.ErrDuplicateStudentID) {
				user, err = s.repo.FindByStudentID(ctx, studentID)
				if err != nil {
					return nil, apperrors.Internal("Failed to resolve account", err)
				}
				break
			}
			return nil, apperrors.Internal("Failed to create account", err)
		}
		s.cfg.Log.Info("Account created on first login", "student_id", studentID, "is_admin", isAdmin)
	default:
		return nil, apperrors.Internal("Failed to resolve account", err)
	}

	loginAt := s.now().UTC().Truncate(time.Millisecond)
	if err := s.repo.RefreshLastLogin(ctx, user.ID, loginAt); err != nil {
		return nil, apperrors.Internal("Failed to refresh last login", err)
	}
	user.LastLogin = &loginAt

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) GetByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	if studentID == "" {
		return nil, apperrors.InvalidInput("Student ID cannot be empty")
	}

	user, err := s.repo.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", studentID)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to retrieve users", err)
	}
	return users, nil
}

func (s *userService) SetBanned(ctx context.Context, studentID string, banned bool) (*model.User, error) {
	if studentID == "" {
		return nil, apperrors.InvalidInput("Student ID cannot be empty")
	}

	user, err := s.repo.SetBanned(ctx, studentID, banned)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", studentID)
		}
		return nil, apperrors.Internal("Failed to update ban flag", err)
	}

	s.cfg.Log.Info("User ban flag updated", "student_id", studentID, "is_banned", banned)
	s.publishBanEvent(ctx, user)

	return user, nil
}

func (s *userService) publishBanEvent(ctx context.Context, user *model.User) {
	if s.events == nil {
		return
	}

	eventType := "user.unbanned"
	if user.IsBanned {
		eventType = "user.banned"
	}
	msg := kafka.NewEvent(eventType, user.StudentID, user)
	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish user event",
			"event_type", eventType,
			"student_id", user.StudentID,
			"error", err,
		)
	}
}
