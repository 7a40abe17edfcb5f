package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/campusbook/room-booking/internal/config"
	"github.com/campusbook/room-booking/internal/database"
	"github.com/campusbook/room-booking/internal/handler"
	"github.com/campusbook/room-booking/internal/middleware"
	"github.com/campusbook/room-booking/internal/queue"
	"github.com/campusbook/room-booking/internal/repository"
	"github.com/campusbook/room-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: when unreachable the cache and rate limiter become
	// pass-through.
	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	buildingRepo := repository.NewBuildingRepo(db)
	deptRepo := repository.NewDepartmentRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	catalogHandler := handler.NewCatalogHandler(roomRepo, buildingRepo, deptRepo, bookingRepo)
	bookingHandler := handler.NewBookingHandler(bookingRepo, roomRepo)
	adminBookings := handler.NewAdminBookingHandler(bookingRepo, roomRepo)
	adminCatalog := handler.NewAdminCatalogHandler(roomRepo, buildingRepo, deptRepo)
	adminSchedules := handler.NewAdminScheduleHandler(scheduleRepo, bookingRepo, roomRepo)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, catalogHandler, middleware.NewResponseCache(config.LoadCacheConfig(), rdb))
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminBookings, adminCatalog, adminSchedules, authHandler, cfg.JWTSecret)

	// Decision events are consumed in the background and appended to
	// logs/booking.log; the consumer reconnects on broker failures.
	go func() {
		if err := queue.StartDecisionConsumer(); err != nil {
			log.Printf("decision consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
