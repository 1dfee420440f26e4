package service

import (
	"context"
	"errors"
	"fmt"

	roomserrors "studyroom/internal/rooms/errors"
	"studyroom/internal/rooms/repository"
	"studyroom/pkg/config"
	apperrors "studyroom/pkg/errors"
	"studyroom/pkg/model"
	"studyroom/pkg/sanitizer"
)

type RoomService interface {
	// EnsureDefaults seeds the default room set on an empty collection.
	// It is a no-op once any room exists.
	EnsureDefaults(ctx context.Context) error
	ListActive(ctx context.Context) ([]*model.Room, error)
	List(ctx context.Context) ([]*model.Room, error)
	Get(ctx context.Context, id string) (*model.Room, error)
	Create(ctx context.Context, room *model.Room) (*model.Room, error)
	Update(ctx context.Context, id string, update *model.RoomUpdate) (*model.Room, error)
}

type roomService struct {
	repo repository.RoomRepository
	cfg  *config.Config
}

func NewRoomService(repo repository.RoomRepository, cfg *config.Config) RoomService {
	return &roomService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *roomService) EnsureDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count rooms: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i := 1; i <= s.cfg.DefaultRoomCount; i++ {
		room := &model.Room{
			Name:     fmt.Sprintf("스터디룸 %d", i),
			Capacity: s.cfg.DefaultRoomCapacity,
			IsActive: true,
		}
		if err := s.repo.Create(ctx, room); err != nil {
			// Another instance may be seeding concurrently.
			if errors.Is(err, roomserrors.ErrDuplicateName) {
				continue
			}
			return fmt.Errorf("failed to seed default room %q: %w", room.Name, err)
		}
	}

	s.cfg.Log.Info("Seeded default rooms",
		"count", s.cfg.DefaultRoomCount,
		"capacity", s.cfg.DefaultRoomCapacity,
	)
	return nil
}

func (s *roomService) ListActive(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.repo.FindAll(ctx, true)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	return rooms, nil
}

func (s *roomService) List(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.repo.FindAll(ctx, false)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	return rooms, nil
}

func (s *roomService) Get(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}

	return room, nil
}

func (s *roomService) Create(ctx context.Context, room *model.Room) (*model.Room, error) {
	room.Name = sanitizer.NormalizeRoomName(room.Name)
	if room.Name == "" {
		return nil, apperrors.InvalidInput("Room name is required")
	}
	if room.Capacity == 0 {
		room.Capacity = s.cfg.DefaultRoomCapacity
	}
	if room.Capacity < 1 {
		return nil, apperrors.InvalidInput("Room capacity must be at least 1")
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if errors.Is(err, roomserrors.ErrDuplicateName) {
			return nil, apperrors.Conflict(fmt.Sprintf("Room %q already exists", room.Name))
		}
		return nil, apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created", "room_id", room.ID, "name", room.Name, "capacity", room.Capacity)
	return room, nil
}

func (s *roomService) Update(ctx context.Context, id string, update *model.RoomUpdate) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if update.Name != nil {
		normalized := sanitizer.NormalizeRoomName(*update.Name)
		if normalized == "" {
			return nil, apperrors.InvalidInput("Room name cannot be empty")
		}
		update.Name = &normalized
	}
	if update.Capacity != nil && *update.Capacity < 1 {
		return nil, apperrors.InvalidInput("Room capacity must be at least 1")
	}

	room, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		if errors.Is(err, roomserrors.ErrDuplicateName) {
			return nil, apperrors.Conflict("Room name already exists")
		}
		return nil, apperrors.Internal("Failed to update room", err)
	}

	s.cfg.Log.Info("Room updated", "room_id", id)
	return room, nil
}
