package validator

import (
	"io"
	"testing"

	"studyroom/pkg/logger"
	"studyroom/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Output: io.Discard}))
}

func TestBookingValidator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     model.BookingRequest
		wantErr bool
	}{
		{
			name: "valid one hour slot",
			req:  model.BookingRequest{RoomID: "r1", StartTime: 900, EndTime: 1000},
		},
		{
			name: "valid half hour slot",
			req:  model.BookingRequest{RoomID: "r1", StartTime: 1330, EndTime: 1400},
		},
		{
			name:    "missing room",
			req:     model.BookingRequest{StartTime: 900, EndTime: 1000},
			wantErr: true,
		},
		{
			name:    "minute sixty is not a carry",
			req:     model.BookingRequest{RoomID: "r1", StartTime: 1060, EndTime: 1200},
			wantErr: true,
		},
		{
			name:    "minute above sixty",
			req:     model.BookingRequest{RoomID: "r1", StartTime: 900, EndTime: 999},
			wantErr: true,
		},
		{
			name:    "hour out of range",
			req:     model.BookingRequest{RoomID: "r1", StartTime: 2400, EndTime: 2500},
			wantErr: true,
		},
		{
			name:    "end equals start",
			req:     model.BookingRequest{RoomID: "r1", StartTime: 900, EndTime: 900},
			wantErr: true,
		},
		{
			name:    "end before start",
			req:     model.BookingRequest{RoomID: "r1", StartTime: 1400, EndTime: 1300},
			wantErr: true,
		},
		{
			name:    "cross midnight rejected",
			req:     model.BookingRequest{RoomID: "r1", StartTime: 2300, EndTime: 100},
			wantErr: true,
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestBookingValidator_ValidateAdmin(t *testing.T) {
	tests := []struct {
		name    string
		req     model.AdminBookingRequest
		wantErr bool
	}{
		{
			name: "valid with explicit date",
			req: model.AdminBookingRequest{
				RoomID: "r1", StudentID: "2021123456",
				BookingDate: "2026-09-01", StartTime: 900, EndTime: 1000,
			},
		},
		{
			name: "valid with date defaulted",
			req: model.AdminBookingRequest{
				RoomID: "r1", StudentID: "2021123456",
				StartTime: 900, EndTime: 1000,
			},
		},
		{
			name: "missing student",
			req: model.AdminBookingRequest{
				RoomID: "r1", BookingDate: "2026-09-01", StartTime: 900, EndTime: 1000,
			},
			wantErr: true,
		},
		{
			name: "malformed date",
			req: model.AdminBookingRequest{
				RoomID: "r1", StudentID: "2021123456",
				BookingDate: "09/01/2026", StartTime: 900, EndTime: 1000,
			},
			wantErr: true,
		},
		{
			name: "invalid times still rejected for admins",
			req: model.AdminBookingRequest{
				RoomID: "r1", StudentID: "2021123456",
				BookingDate: "2026-09-01", StartTime: 1060, EndTime: 1200,
			},
			wantErr: true,
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAdmin(&tt.req)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
