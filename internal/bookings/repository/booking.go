package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "studyroom/internal/bookings/errors"
	"studyroom/pkg/config"
	dbmongo "studyroom/pkg/db/mongo"
	"studyroom/pkg/model"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	FindByRoomAndDate(ctx context.Context, roomID, date string) ([]*model.Booking, error)
	FindByStudentAndDate(ctx context.Context, studentID, date string) ([]*model.Booking, error)
	FindByDate(ctx context.Context, date string) ([]*model.Booking, error)
	FindByStudent(ctx context.Context, studentID string) ([]*model.Booking, error)
	FindAll(ctx context.Context) ([]*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	tx         dbmongo.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		tx:         dbmongo.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) FindByRoomAndDate(ctx context.Context, roomID, date string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"room_id": roomID, "booking_date": date}, sortByStart())
}

func (r *mongoBookingRepository) FindByStudentAndDate(ctx context.Context, studentID, date string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"student_id": studentID, "booking_date": date}, sortByStart())
}

func (r *mongoBookingRepository) FindByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"booking_date": date}, sortByStart())
}

func (r *mongoBookingRepository) FindByStudent(ctx context.Context, studentID string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"student_id": studentID}, sortByDateDesc())
}

func (r *mongoBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{}, sortByDateDesc())
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error {
	return r.tx.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func sortByStart() *options.FindOptions {
	return options.Find().SetSort(bson.D{
		{Key: "room_id", Value: 1},
		{Key: "start_time", Value: 1},
	})
}

func sortByDateDesc() *options.FindOptions {
	return options.Find().SetSort(bson.D{
		{Key: "booking_date", Value: -1},
		{Key: "start_time", Value: 1},
	})
}
