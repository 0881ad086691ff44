package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/notify"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	queue_publisher "github.com/iliyamo/room-reservation/internal/service"
	"github.com/iliyamo/room-reservation/internal/sheets"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure schema: %v", err)
	}
	cancel()

	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)

	svc := booking.NewService(bookings, queue_publisher.New(), booking.Settings{
		Rooms:       cfg.Rooms,
		DayStart:    cfg.DayStart,
		DayEnd:      cfg.DayEnd,
		SlotMinutes: cfg.SlotMinutes,
	})

	startConsumers(cfg)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	e := echo.New()
	e.Use(echomw.CORS())
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users))
	router.RegisterBooking(e, handler.NewBookingHandler(svc, users), cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// startConsumers launches the side-effect subscribers that apply
// booking events to the spreadsheet mirror and the WhatsApp channel.
// Each one is optional: without its configuration the subscriber is
// simply not started and events for it accumulate nowhere.
func startConsumers(cfg config.Config) {
	brokerURL := queue_publisher.BrokerURL()

	if cfg.SpreadsheetID != "" && cfg.SheetsCredFile != "" {
		mirror, err := sheets.NewMirror(context.Background(), cfg.SpreadsheetID, cfg.SheetsCredFile)
		if err != nil {
			log.Printf("sheets mirror disabled: %v", err)
		} else {
			go queue.StartMirrorConsumer(brokerURL, mirror)
		}
	} else {
		log.Printf("sheets mirror disabled: not configured")
	}

	if cfg.FonnteAPIKey != "" && cfg.FonnteTarget != "" {
		wa := notify.NewWhatsApp(cfg.FonnteAPIKey, cfg.FonnteTarget)
		go queue.StartNotifyConsumer(brokerURL, wa, notify.EventMessage)
	} else {
		log.Printf("whatsapp notifications disabled: not configured")
	}
}
