package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/jirayuth/lounge-booking/internal/booking"
	"github.com/jirayuth/lounge-booking/internal/catalog"
	"github.com/jirayuth/lounge-booking/internal/config"
	"github.com/jirayuth/lounge-booking/internal/database"
	"github.com/jirayuth/lounge-booking/internal/handler"
	"github.com/jirayuth/lounge-booking/internal/middleware"
	"github.com/jirayuth/lounge-booking/internal/model"
	"github.com/jirayuth/lounge-booking/internal/payment"
	"github.com/jirayuth/lounge-booking/internal/queue"
	"github.com/jirayuth/lounge-booking/internal/repository"
	"github.com/jirayuth/lounge-booking/internal/router"
	queuepublisher "github.com/jirayuth/lounge-booking/internal/service"
	"github.com/jirayuth/lounge-booking/internal/vip"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	// Static tables: the service menu and the tier multipliers.
	menu := catalog.Default()
	if cfg.CatalogPath != "" {
		var err error
		if menu, err = catalog.Load(cfg.CatalogPath); err != nil {
			log.Fatal(err)
		}
	}
	tiers := vip.Default()
	if cfg.VIPTiersPath != "" {
		var err error
		if tiers, err = vip.Load(cfg.VIPTiersPath); err != nil {
			log.Fatal(err)
		}
	}

	// The bill ledger is the single shared mutable resource.  MySQL
	// when configured, otherwise the in-memory ledger for development.
	var ledger repository.BillLedger
	var feedbackRepo *repository.FeedbackRepo
	if cfg.UseDatabase() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatal(err)
		}
		ledger = repository.NewBillRepo(db)
		feedbackRepo = repository.NewFeedbackRepo(db)
	} else {
		log.Printf("no database configured; using in-memory ledger (bills are lost on restart)")
		ledger = repository.NewMemoryLedger()
	}

	// Redis backs the draft store, the rate limiter and the response
	// cache.  All three degrade gracefully when it is unreachable.
	rdb := config.NewRedisClient()
	var drafts booking.DraftStore
	if rdb != nil {
		drafts = booking.NewRedisDraftStore(rdb, cfg.DraftTTL)
	} else {
		log.Printf("redis unavailable; using in-memory draft store")
		drafts = booking.NewMemoryDraftStore(cfg.DraftTTL)
	}

	sessions := payment.NewManager(ledger, cfg.PaymentDeadline)
	sessions.OnCancelled = func(b *model.Bill) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ev := queue.BillCancelledEvent{BillID: b.ID, Customer: b.Customer, Strike: b.Strike}
		if err := queuepublisher.PublishBillCancelled(ctx, ev); err != nil {
			log.Printf("publish cancellation for bill %d: %v", b.ID, err)
		}
	}
	sessions.OnLatePayment = func(b *model.Bill) {
		log.Printf("bill %d: late payment flagged for manual reconciliation", b.ID)
	}

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	bookingHandler := &handler.BookingHandler{
		Factory:  booking.NewFactory(menu, tiers, cfg.BookingGrace),
		Checker:  booking.NewChecker(cfg.Rooms, ledger),
		Drafts:   drafts,
		Ledger:   ledger,
		Sessions: sessions,
		Publish:  queuepublisher.PublishPaymentRequested,
	}
	billHandler := &handler.BillHandler{Ledger: ledger, Sessions: sessions}
	reportHandler := &handler.ReportHandler{Ledger: ledger}

	router.RegisterRoutes(e)
	router.RegisterBooking(e, bookingHandler, billHandler)
	router.RegisterOperator(e, billHandler, reportHandler, cfg.JWTSecret)
	if feedbackRepo != nil {
		router.RegisterFeedback(e, &handler.FeedbackHandler{Repo: feedbackRepo})
	}

	// Re-arm deadline timers for bills still awaiting payment from a
	// previous run, then start listening for external confirmations.
	if err := sessions.Resume(context.Background()); err != nil {
		log.Fatal(err)
	}
	go func() {
		if err := queue.StartConfirmConsumer(sessions); err != nil {
			log.Printf("confirm consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
