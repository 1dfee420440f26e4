package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "studyroom/internal/bookings/errors"
	"studyroom/internal/bookings/repository"
	"studyroom/internal/bookings/validator"
	"studyroom/pkg/config"
	apperrors "studyroom/pkg/errors"
	"studyroom/pkg/kafka"
	"studyroom/pkg/model"
	"studyroom/pkg/sanitizer"
	"studyroom/pkg/timeslot"
)

// RoomFinder resolves the room referenced by a booking request.
type RoomFinder interface {
	Get(ctx context.Context, id string) (*model.Room, error)
}

// EventPublisher publishes booking lifecycle events. A nil publisher disables
// event publication.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	// Create admits a self-service booking for the current day. The full
	// rule set applies: the room must be active, the slot must not overlap
	// any existing booking for the room, and the student's total booked
	// minutes for the day must stay within the daily quota.
	Create(ctx context.Context, studentID string, req *model.BookingRequest) (*model.Booking, error)
	// AdminCreate force-creates a booking on any date, skipping the
	// overlap and quota checks. The target room must still exist and be
	// active.
	AdminCreate(ctx context.Context, req *model.AdminBookingRequest) (*model.Booking, error)
	// Delete cancels a booking. Students may cancel only their own;
	// admins may cancel any.
	Delete(ctx context.Context, id, requesterStudentID string, isAdmin bool) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByDate(ctx context.Context, date string) ([]*model.Booking, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.Booking, error)
	ListAll(ctx context.Context) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	rooms     RoomFinder
	validator *validator.BookingValidator
	events    EventPublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	rooms RoomFinder,
	validator *validator.BookingValidator,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		validator: validator,
		events:    events,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, studentID string, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "student_id", studentID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	room, err := s.resolveRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	// Self-service bookings are pinned to the current day server-side.
	date := s.now().Format(model.DateLayout)

	booking := &model.Booking{
		RoomID:      room.ID,
		StudentID:   studentID,
		BookingDate: date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		TeamMembers: s.sanitizeMembers(req.TeamMembers),
	}

	// Two advisory locks serialize the check-then-insert sequence against
	// both admission rules: one per room/date for the overlap check, one
	// per student/date for the quota check. Always acquired in the same
	// order.
	roomLock, err := s.acquireLock(ctx, fmt.Sprintf("room_%s_%s", room.ID, date))
	if err != nil {
		return nil, err
	}
	defer s.releaseLock(ctx, roomLock)

	quotaLock, err := s.acquireLock(ctx, fmt.Sprintf("quota_%s_%s", studentID, date))
	if err != nil {
		return nil, err
	}
	defer s.releaseLock(ctx, quotaLock)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.verifyQuota(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"student_id", booking.StudentID,
		"booking_date", booking.BookingDate,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	s.publishEvent(ctx, "booking.created", booking)

	return booking, nil
}

func (s *bookingService) AdminCreate(ctx context.Context, req *model.AdminBookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateAdmin(req); err != nil {
		s.cfg.Log.Warn("Admin booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	room, err := s.resolveRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	date := req.BookingDate
	if date == "" {
		date = s.now().Format(model.DateLayout)
	}

	booking := &model.Booking{
		RoomID:      room.ID,
		StudentID:   sanitizer.NormalizeStudentID(req.StudentID),
		BookingDate: date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		TeamMembers: s.sanitizeMembers(req.TeamMembers),
	}

	// Force-create: no overlap or quota verification.
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking force-created",
		"booking_id", booking.ID,
		"room_id", booking.RoomID,
		"student_id", booking.StudentID,
		"booking_date", booking.BookingDate,
	)
	s.publishEvent(ctx, "booking.created", booking)

	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id, requesterStudentID string, isAdmin bool) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && booking.StudentID != requesterStudentID {
		s.cfg.Log.Warn("Cancellation denied",
			"booking_id", id,
			"owner", booking.StudentID,
			"requester", requesterStudentID,
		)
		return apperrors.Forbidden("You can only cancel your own bookings")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking cancelled",
		"booking_id", id,
		"requester", requesterStudentID,
		"is_admin", isAdmin,
	)
	s.publishEvent(ctx, "booking.cancelled", booking)

	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	if date == "" {
		date = s.now().Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	bookings, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListByStudent(ctx context.Context, studentID string) ([]*model.Booking, error) {
	if studentID == "" {
		return nil, apperrors.InvalidInput("Student ID cannot be empty")
	}

	bookings, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListAll(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// --- Helpers ---

func (s *bookingService) resolveRoom(ctx context.Context, roomID string) (*model.Room, error) {
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	// An inactive room is not bookable; callers see it as absent.
	if !room.IsActive {
		return nil, apperrors.NotFound(fmt.Sprintf("Room %q", room.Name))
	}
	return room, nil
}

func (s *bookingService) sanitizeMembers(members model.TeamMemberList) model.TeamMemberList {
	sanitized := make(model.TeamMemberList, 0, len(members))
	for _, m := range members {
		m.Name = sanitizer.NormalizeName(m.Name)
		m.StudentID = sanitizer.NormalizeStudentID(m.StudentID)
		m.Phone = sanitizer.NormalizePhone(m.Phone)
		if m.Name == "" && m.StudentID == "" && m.Phone == "" {
			continue
		}
		sanitized = append(sanitized, m)
	}
	return sanitized
}

// verifyNoConflict enforces the overlap rule inside the admission
// transaction. Intervals are half-open, so a booking ending at 1000 never
// conflicts with one starting at 1000. excludeID skips one booking, for
// checks against a record being replaced.
func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking, excludeID string) error {
	existing, err := s.repo.FindByRoomAndDate(ctx, booking.RoomID, booking.BookingDate)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if timeslot.Overlaps(b.StartTime, b.EndTime, booking.StartTime, booking.EndTime) {
			return apperrors.Conflict(fmt.Sprintf(
				"Time slot overlaps with an existing booking (%04d - %04d)",
				b.StartTime, b.EndTime,
			))
		}
	}
	return nil
}

// verifyQuota enforces the daily per-student limit inside the admission
// transaction. A booking that lands exactly on the quota is admitted; only
// strictly exceeding it is rejected.
func (s *bookingService) verifyQuota(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindByStudentAndDate(ctx, booking.StudentID, booking.BookingDate)
	if err != nil {
		return apperrors.Internal("Failed to check daily usage", err)
	}

	used := 0
	for _, b := range existing {
		used += timeslot.Minutes(b.StartTime, b.EndTime)
	}
	requested := timeslot.Minutes(booking.StartTime, booking.EndTime)

	if used+requested > s.cfg.DailyQuotaMinutes {
		return apperrors.QuotaExceeded(fmt.Sprintf(
			"Daily booking limit exceeded: %d minutes booked, %d requested, %d allowed",
			used, requested, s.cfg.DailyQuotaMinutes,
		))
	}
	return nil
}

func (s *bookingService) acquireLock(ctx context.Context, lockID string) (string, error) {
	_, err := s.lockRepo.Acquire(ctx, lockID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrSlotLocked) {
			return "", apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}
	return lockID, nil
}

func (s *bookingService) releaseLock(ctx context.Context, lockID string) {
	if lockID == "" {
		return
	}
	if err := s.lockRepo.Release(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", err)
	}
}

func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.events == nil {
		return
	}
	msg := kafka.NewEvent(eventType, booking.ID, booking)
	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
