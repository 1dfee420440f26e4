package main

import (
	"context"

	"github.com/joho/godotenv"

	"studyroom/internal/auth"
	bookingshandler "studyroom/internal/bookings/handler"
	bookingsrepository "studyroom/internal/bookings/repository"
	bookingsservice "studyroom/internal/bookings/service"
	bookingsvalidator "studyroom/internal/bookings/validator"
	roomshandler "studyroom/internal/rooms/handler"
	roomsrepository "studyroom/internal/rooms/repository"
	roomsservice "studyroom/internal/rooms/service"
	usershandler "studyroom/internal/users/handler"
	usersrepository "studyroom/internal/users/repository"
	usersservice "studyroom/internal/users/service"
	"studyroom/pkg/app"
	"studyroom/pkg/config"
	"studyroom/pkg/kafka"
)

const ServiceName = "studyroom"

func main() {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting studyroom service")

	producer := initProducer(cfg)
	if producer != nil {
		defer producer.Close()
	}

	sessions := auth.NewManager(cfg.SessionSecret, cfg.SessionName)

	roomService := initRooms(cfg)
	bookingService := initBookings(cfg, roomService, producer)
	userService := initUsers(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		sessions.StudentKeyExtractor,
		usershandler.NewUserHandler(userService, bookingService, sessions, cfg.Log),
		roomshandler.NewRoomHandler(roomService, sessions, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, sessions, cfg.Log),
	)
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, event publication disabled")
		return nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaTopic)
	return producer
}

func initRooms(cfg *config.Config) roomsservice.RoomService {
	roomRepo := roomsrepository.NewMongoRoomRepository(cfg)
	roomService := roomsservice.NewRoomService(roomRepo, cfg)

	if err := roomService.EnsureDefaults(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to seed default rooms", "error", err)
	}

	cfg.Log.Info("Room service initialized", "database", cfg.MongoDatabaseName)
	return roomService
}

func initBookings(cfg *config.Config, rooms bookingsservice.RoomFinder, producer *kafka.Producer) bookingsservice.BookingService {
	// A typed nil pointer inside a non-nil interface would defeat the
	// service's nil check, so the conversion is guarded.
	var events bookingsservice.EventPublisher
	if producer != nil {
		events = producer
	}

	bookingValidator := bookingsvalidator.NewBookingValidator(cfg.Log)
	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepository.NewMongoSlotLockRepository(cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		rooms,
		bookingValidator,
		events,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initUsers(cfg *config.Config, producer *kafka.Producer) usersservice.UserService {
	var events usersservice.EventPublisher
	if producer != nil {
		events = producer
	}

	userRepo := usersrepository.NewMongoUserRepository(cfg)
	userService := usersservice.NewUserService(userRepo, events, cfg)

	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return userService
}
