package service

import (
	"context"
	"io"
	"testing"

	roomserrors "studyroom/internal/rooms/errors"
	"studyroom/pkg/config"
	apperrors "studyroom/pkg/errors"
	"studyroom/pkg/logger"
	"studyroom/pkg/model"
)

type mockRoomRepository struct {
	createFn   func(ctx context.Context, room *model.Room) error
	findByIDFn func(ctx context.Context, id string) (*model.Room, error)
	findAllFn  func(ctx context.Context, activeOnly bool) ([]*model.Room, error)
	updateFn   func(ctx context.Context, id string, update *model.RoomUpdate) (*model.Room, error)
	countFn    func(ctx context.Context) (int64, error)
}

func (m *mockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	return m.createFn(ctx, room)
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockRoomRepository) FindAll(ctx context.Context, activeOnly bool) ([]*model.Room, error) {
	return m.findAllFn(ctx, activeOnly)
}

func (m *mockRoomRepository) Update(ctx context.Context, id string, update *model.RoomUpdate) (*model.Room, error) {
	return m.updateFn(ctx, id, update)
}

func (m *mockRoomRepository) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultRoomCount:    6,
		DefaultRoomCapacity: 4,
		Log:                 logger.New(logger.Config{Output: io.Discard}),
	}
}

func TestRoomService_EnsureDefaults(t *testing.T) {
	t.Run("seeds six rooms on empty collection", func(t *testing.T) {
		var seeded []*model.Room
		repo := &mockRoomRepository{
			countFn: func(_ context.Context) (int64, error) { return 0, nil },
			createFn: func(_ context.Context, room *model.Room) error {
				seeded = append(seeded, room)
				return nil
			},
		}
		svc := NewRoomService(repo, testConfig())

		if err := svc.EnsureDefaults(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seeded) != 6 {
			t.Fatalf("expected 6 seeded rooms, got %d", len(seeded))
		}
		if seeded[0].Name != "스터디룸 1" || seeded[5].Name != "스터디룸 6" {
			t.Errorf("unexpected room names: %q .. %q", seeded[0].Name, seeded[5].Name)
		}
		for _, room := range seeded {
			if room.Capacity != 4 {
				t.Errorf("room %q: expected capacity 4, got %d", room.Name, room.Capacity)
			}
			if !room.IsActive {
				t.Errorf("room %q: expected active", room.Name)
			}
		}
	})

	t.Run("no-op when rooms exist", func(t *testing.T) {
		repo := &mockRoomRepository{
			countFn: func(_ context.Context) (int64, error) { return 3, nil },
			createFn: func(_ context.Context, _ *model.Room) error {
				t.Fatal("must not create rooms when collection is non-empty")
				return nil
			},
		}
		svc := NewRoomService(repo, testConfig())

		if err := svc.EnsureDefaults(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("tolerates concurrent seeding", func(t *testing.T) {
		repo := &mockRoomRepository{
			countFn: func(_ context.Context) (int64, error) { return 0, nil },
			createFn: func(_ context.Context, _ *model.Room) error {
				return roomserrors.ErrDuplicateName
			},
		}
		svc := NewRoomService(repo, testConfig())

		if err := svc.EnsureDefaults(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRoomService_ListActive_FiltersInactive(t *testing.T) {
	var gotActiveOnly bool
	repo := &mockRoomRepository{
		findAllFn: func(_ context.Context, activeOnly bool) ([]*model.Room, error) {
			gotActiveOnly = activeOnly
			return []*model.Room{{ID: "r1", Name: "스터디룸 1", IsActive: true}}, nil
		},
	}
	svc := NewRoomService(repo, testConfig())

	rooms, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotActiveOnly {
		t.Error("expected active-only filter")
	}
	if len(rooms) != 1 {
		t.Errorf("expected 1 room, got %d", len(rooms))
	}
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name     string
		room     *model.Room
		repoErr  error
		wantCode string
	}{
		{
			name: "valid",
			room: &model.Room{Name: "세미나실 A", Capacity: 8},
		},
		{
			name:     "empty name",
			room:     &model.Room{Name: "   ", Capacity: 4},
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name: "omitted capacity defaults",
			room: &model.Room{Name: "세미나실 B"},
		},
		{
			name:     "negative capacity",
			room:     &model.Room{Name: "세미나실 C", Capacity: -1},
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name:     "duplicate name",
			room:     &model.Room{Name: "스터디룸 1", Capacity: 4},
			repoErr:  roomserrors.ErrDuplicateName,
			wantCode: apperrors.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRoomRepository{
				createFn: func(_ context.Context, room *model.Room) error {
					if tt.repoErr != nil {
						return tt.repoErr
					}
					room.ID = "new-id"
					return nil
				},
			}
			svc := NewRoomService(repo, testConfig())

			room, err := svc.Create(context.Background(), tt.room)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if appErr := apperrors.AsAppError(err); appErr.Code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if room.ID == "" {
				t.Error("expected assigned room ID")
			}
			if room.Capacity < 1 {
				t.Errorf("expected positive capacity, got %d", room.Capacity)
			}
		})
	}
}

func TestRoomService_Update(t *testing.T) {
	t.Run("unknown room", func(t *testing.T) {
		repo := &mockRoomRepository{
			updateFn: func(_ context.Context, _ string, _ *model.RoomUpdate) (*model.Room, error) {
				return nil, roomserrors.ErrNotFound
			},
		}
		svc := NewRoomService(repo, testConfig())

		active := false
		_, err := svc.Update(context.Background(), "missing", &model.RoomUpdate{IsActive: &active})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
			t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
		}
	})

	t.Run("deactivation passes through", func(t *testing.T) {
		var gotUpdate *model.RoomUpdate
		repo := &mockRoomRepository{
			updateFn: func(_ context.Context, id string, update *model.RoomUpdate) (*model.Room, error) {
				gotUpdate = update
				return &model.Room{ID: id, Name: "스터디룸 1", Capacity: 4, IsActive: false}, nil
			},
		}
		svc := NewRoomService(repo, testConfig())

		active := false
		room, err := svc.Update(context.Background(), "r1", &model.RoomUpdate{IsActive: &active})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotUpdate.IsActive == nil || *gotUpdate.IsActive {
			t.Error("expected deactivation to reach the repository")
		}
		if room.IsActive {
			t.Error("expected returned room to be inactive")
		}
	})

	t.Run("invalid capacity", func(t *testing.T) {
		svc := NewRoomService(&mockRoomRepository{}, testConfig())

		capacity := 0
		_, err := svc.Update(context.Background(), "r1", &model.RoomUpdate{Capacity: &capacity})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
