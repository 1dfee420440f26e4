package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "studyroom/internal/bookings/errors"
	"studyroom/pkg/config"
	"studyroom/pkg/model"
)

const (
	LockCollectionName = "Slot_locks"
)

// SlotLockRepository provides operations for advisory slot locks.
type SlotLockRepository interface {
	Acquire(ctx context.Context, lockID string) (*model.SlotLock, error)
	Release(ctx context.Context, lockID string) error
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts a lock document keyed by lockID. A duplicate key means
// another request holds the coordinate; the TTL index on expires_at reaps
// locks leaked by crashed requests.
func (r *mongoSlotLockRepository) Acquire(ctx context.Context, lockID string) (*model.SlotLock, error) {
	now := time.Now().UTC()
	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: now.Add(r.cfg.SlotLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrSlotLocked
		}
		return nil, fmt.Errorf("failed to acquire slot lock %s: %w", lockID, err)
	}

	return lock, nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	if err != nil {
		return fmt.Errorf("failed to release slot lock %s: %w", lockID, err)
	}
	return nil
}
