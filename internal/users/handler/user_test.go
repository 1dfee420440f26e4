package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"studyroom/internal/auth"
	apperrors "studyroom/pkg/errors"
	"studyroom/pkg/logger"
	"studyroom/pkg/model"
)

type mockUserService struct {
	loginFunc          func(ctx context.Context, studentID string) (*model.User, error)
	getByStudentIDFunc func(ctx context.Context, studentID string) (*model.User, error)
	setBannedFunc      func(ctx context.Context, studentID string, banned bool) (*model.User, error)
}

func (m *mockUserService) Login(ctx context.Context, studentID string) (*model.User, error) {
	return m.loginFunc(ctx, studentID)
}

func (m *mockUserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}

func (m *mockUserService) GetByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	if m.getByStudentIDFunc != nil {
		return m.getByStudentIDFunc(ctx, studentID)
	}
	return nil, nil
}

func (m *mockUserService) List(ctx context.Context) ([]*model.User, error) {
	return []*model.User{}, nil
}

func (m *mockUserService) SetBanned(ctx context.Context, studentID string, banned bool) (*model.User, error) {
	if m.setBannedFunc != nil {
		return m.setBannedFunc(ctx, studentID, banned)
	}
	return nil, nil
}

type mockBookingLister struct {
	bookings []*model.Booking
}

func (m *mockBookingLister) ListByStudent(_ context.Context, _ string) ([]*model.Booking, error) {
	return m.bookings, nil
}

func newTestHandler(svc *mockUserService) *UserHandler {
	log := logger.New(logger.Config{Output: io.Discard})
	return NewUserHandler(svc, &mockBookingLister{}, auth.NewManager("test-secret", "test-session"), log)
}

func TestLogin_Success(t *testing.T) {
	svc := &mockUserService{
		loginFunc: func(_ context.Context, studentID string) (*model.User, error) {
			return &model.User{ID: "u1", StudentID: studentID}, nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"student_id":"2021123456"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected session cookie on successful login")
	}
}

func TestLogin_BannedUserGetsNoSession(t *testing.T) {
	svc := &mockUserService{
		loginFunc: func(_ context.Context, studentID string) (*model.User, error) {
			return &model.User{ID: "u1", StudentID: studentID, IsBanned: true}, nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"student_id":"2021123456"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req, nil)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("banned user must not receive a session cookie")
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Error("expected error field in response body")
	}
}

func TestLogin_InvalidStudentID(t *testing.T) {
	svc := &mockUserService{
		loginFunc: func(_ context.Context, _ string) (*model.User, error) {
			return nil, apperrors.InvalidInput("Student ID must be exactly 10 digits")
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"student_id":"123"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLogin_MalformedBody(t *testing.T) {
	h := newTestHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	h.Login(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBan_DefaultsToBanning(t *testing.T) {
	var gotBanned *bool
	svc := &mockUserService{
		setBannedFunc: func(_ context.Context, studentID string, banned bool) (*model.User, error) {
			gotBanned = &banned
			return &model.User{ID: "u1", StudentID: studentID, IsBanned: banned}, nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/2021123456/ban", nil)
	rec := httptest.NewRecorder()
	h.Ban(rec, req, httprouter.Params{{Key: "studentID", Value: "2021123456"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotBanned == nil || !*gotBanned {
		t.Error("expected ban without body to default to banning")
	}
}

func TestBan_ExplicitUnban(t *testing.T) {
	var gotBanned *bool
	svc := &mockUserService{
		setBannedFunc: func(_ context.Context, studentID string, banned bool) (*model.User, error) {
			gotBanned = &banned
			return &model.User{ID: "u1", StudentID: studentID, IsBanned: banned}, nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/2021123456/ban", strings.NewReader(`{"is_banned":false}`))
	rec := httptest.NewRecorder()
	h.Ban(rec, req, httprouter.Params{{Key: "studentID", Value: "2021123456"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotBanned == nil || *gotBanned {
		t.Error("expected explicit unban to reach the service")
	}
}
