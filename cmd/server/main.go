package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/config"
	"github.com/iliyamo/railway-reservation/internal/database"
	"github.com/iliyamo/railway-reservation/internal/handler"
	"github.com/iliyamo/railway-reservation/internal/middleware"
	"github.com/iliyamo/railway-reservation/internal/otp"
	"github.com/iliyamo/railway-reservation/internal/queue"
	"github.com/iliyamo/railway-reservation/internal/repository"
	"github.com/iliyamo/railway-reservation/internal/router"
	"github.com/iliyamo/railway-reservation/internal/service"
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

	// Repositories.
	users := repository.NewUserRepo(db)
	trains := repository.NewTrainRepo(db)
	coaches := repository.NewCoachRepo(db)
	bookings := repository.NewBookingRepo(db)
	quotas := repository.NewQuotaRepo(db)
	positions := repository.NewPositionRepo(db)
	alerts := repository.NewAlertRepo(db)
	tracking := repository.NewTrackingRepo(db)

	// Phone verification provider; nil leaves the OTP endpoints reporting
	// the service as unconfigured.
	var verifier otp.Verifier
	if cfg.TwilioConfigured() {
		verifier = otp.NewTwilioVerify(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVerifySID)
	}

	// Notification sink: AMQP when configured, otherwise discard. The
	// consumer drains the same queue into logs/alerts.log.
	var events service.Publisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		events = service.NewAMQPPublisher(cfg.AMQPURL)
		go queue.StartTrainEventsConsumer()
	}

	// Redis-backed middleware; both pass through when Redis is absent.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	otpLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterHealth(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, verifier), cfg.JWTSecret, otpLimit)
	router.RegisterTrains(e, handler.NewTrainHandler(trains), handler.NewTrackingHandler(tracking, trains), cache)
	router.RegisterCoaches(e, handler.NewSeatMapHandler(coaches, trains))
	router.RegisterBookings(e, handler.NewBookingHandler(bookings, coaches, users, trains))
	router.RegisterQuotas(e, handler.NewQuotaHandler(quotas))
	router.RegisterLive(e, handler.NewPositionHandler(positions, events), handler.NewAlertHandler(alerts, events))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
