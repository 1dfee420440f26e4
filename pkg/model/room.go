package model

import "time"

type Room struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name" validate:"required,min=1,max=50"`
	Capacity  int       `json:"capacity" bson:"capacity" validate:"required,min=1"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// RoomUpdate carries a partial admin update; nil fields are left untouched.
type RoomUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,min=1"`
	IsActive *bool   `json:"is_active,omitempty"`
}
