package model

import "time"

// SlotLock is an advisory lock document used to serialize the
// check-then-insert admission sequence for a single slot coordinate
// (room/date or student/date). The unique _id makes acquisition atomic; a TTL
// index on expires_at reaps locks leaked by crashed requests.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
