package main // main wires configuration, storage, handlers and the HTTP server

import (
	"log" // log reports startup progress and fatal wiring errors

	"github.com/joho/godotenv" // godotenv loads .env files in development

	"github.com/wmu/thats-my-spot/internal/config"
	"github.com/wmu/thats-my-spot/internal/database"
	"github.com/wmu/thats-my-spot/internal/handler"
	"github.com/wmu/thats-my-spot/internal/notifier"
	"github.com/wmu/thats-my-spot/internal/queue"
	"github.com/wmu/thats-my-spot/internal/repository"
	"github.com/wmu/thats-my-spot/internal/router"
	queue_publisher "github.com/wmu/thats-my-spot/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	buildingRepo := repository.NewBuildingRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	mailer := notifier.NewMailer(cfg)

	// The consumer drains booking.confirmed and sends confirmation mail.
	// It reconnects on broker failure and never takes the server down.
	go func() {
		if err := queue.StartBookingConsumer(queue_publisher.BrokerURL(), mailer); err != nil {
			log.Printf("warn: booking consumer stopped: %v", err)
		}
	}()

	e := router.New(router.Deps{
		Cfg:       cfg,
		Auth:      handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Buildings: handler.NewBuildingHandler(buildingRepo),
		Rooms:     handler.NewRoomHandler(roomRepo, buildingRepo),
		Bookings:  handler.NewBookingHandler(bookingRepo, roomRepo, userRepo, mailer),
		Redis:     rdb,
	})

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
