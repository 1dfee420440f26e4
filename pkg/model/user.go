package model

import "time"

type User struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty"`
	StudentID string     `json:"student_id" bson:"student_id"`
	IsAdmin   bool       `json:"is_admin" bson:"is_admin"`
	IsBanned  bool       `json:"is_banned" bson:"is_banned"`
	LastLogin *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}
