package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire and storage format for booking dates. Dates are plain
// calendar days with no time zone semantics.
const DateLayout = "2006-01-02"

type Booking struct {
	ID          string         `json:"id,omitempty" bson:"_id,omitempty"`
	RoomID      string         `json:"room_id" bson:"room_id"`
	StudentID   string         `json:"student_id" bson:"student_id"`
	BookingDate string         `json:"booking_date" bson:"booking_date"`
	StartTime   int            `json:"start_time" bson:"start_time"`
	EndTime     int            `json:"end_time" bson:"end_time"`
	TeamMembers TeamMemberList `json:"team_members" bson:"team_members,omitempty"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
}

// BookingRequest is the self-service creation payload. The booking date is
// pinned to the current day server-side; clients cannot choose it.
type BookingRequest struct {
	RoomID      string         `json:"room_id" validate:"required"`
	StartTime   int            `json:"start_time" validate:"packedtime"`
	EndTime     int            `json:"end_time" validate:"packedtime"`
	TeamMembers TeamMemberList `json:"team_members"`
}

// AdminBookingRequest is the force-create payload. The student identifier is
// free-form here: admins may assign bookings to identifiers that never logged
// in. An empty booking date defaults to the current day.
type AdminBookingRequest struct {
	RoomID      string         `json:"room_id" validate:"required"`
	StudentID   string         `json:"student_id" validate:"required"`
	BookingDate string         `json:"booking_date" validate:"omitempty,bookingdate"`
	StartTime   int            `json:"start_time" validate:"packedtime"`
	EndTime     int            `json:"end_time" validate:"packedtime"`
	TeamMembers TeamMemberList `json:"team_members"`
}

// TeamMember describes one accompanying person on a booking. All fields are
// free-form; the phone is normalized to E.164 when present.
type TeamMember struct {
	Name      string `json:"name" bson:"name"`
	StudentID string `json:"student_id,omitempty" bson:"student_id,omitempty"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// TeamMemberList tolerates malformed input: anything that does not decode as a
// list of members becomes an empty list instead of an error. Stored records
// written by earlier versions of the system carry arbitrary JSON here.
type TeamMemberList []TeamMember

func (l *TeamMemberList) UnmarshalJSON(data []byte) error {
	var members []TeamMember
	if err := json.Unmarshal(data, &members); err != nil {
		*l = TeamMemberList{}
		return nil
	}
	if members == nil {
		members = []TeamMember{}
	}
	*l = members
	return nil
}

func (l TeamMemberList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]TeamMember(l))
}
