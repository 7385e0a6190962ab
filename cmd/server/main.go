package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"parkvendor/internal/api"
	"parkvendor/internal/auth"
	"parkvendor/internal/config"
	dbschema "parkvendor/internal/db"
	"parkvendor/internal/repository"
	"parkvendor/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.Close()

	if err := dbschema.EnsureSchema(db); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	rateRepo := repository.NewRateRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	vendorRepo := repository.NewVendorRepository(db)

	notifier := service.NewNotifyService(cfg.Notifications)
	payments := service.NewPaymentService(cfg.Payments)
	bookingSvc := service.NewBookingService(bookingRepo, rateRepo, feeRepo, notifier, payments)
	rateSvc := service.NewRateService(rateRepo, feeRepo)
	authSvc := service.NewVendorAuthService(vendorRepo, cfg.JWTSecret)
	jobSvc := service.NewJobService(bookingRepo)

	watcher := service.NewDurationWatcher(bookingRepo, 5*time.Second)
	watcher.Start()
	defer watcher.Stop()

	bookingHandler := api.NewBookingHandler(bookingSvc, watcher)
	rateHandler := api.NewRateHandler(rateSvc)
	authHandler := api.NewAuthHandler(authSvc)
	webhookHandler := api.NewPaymentWebhookHandler(cfg.Payments.StripeWebhookSecret, bookingSvc)

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/vendor/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/vendor/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/payments/webhook", webhookHandler.HandleWebhook).Methods("POST")

	// Vendor endpoints (protected)
	vendor := r.PathPrefix("/api/vendor").Subrouter()
	vendor.Use(auth.VendorAuthMiddleware(cfg.JWTSecret))
	vendor.HandleFunc("/bookings", bookingHandler.List).Methods("GET")
	vendor.HandleFunc("/bookings", bookingHandler.Create).Methods("POST")
	vendor.HandleFunc("/bookings/{id}/approve", bookingHandler.Approve).Methods("POST")
	vendor.HandleFunc("/bookings/{id}/cancel", bookingHandler.Cancel).Methods("POST")
	vendor.HandleFunc("/bookings/{id}/park", bookingHandler.AllowParking).Methods("POST")
	vendor.HandleFunc("/bookings/{id}/quote", bookingHandler.Quote).Methods("GET")
	vendor.HandleFunc("/bookings/{id}/exit", bookingHandler.Exit).Methods("POST")
	vendor.HandleFunc("/bookings/{id}/duration", bookingHandler.Duration).Methods("GET")
	vendor.HandleFunc("/bookings/{id}/subscription", bookingHandler.SubscriptionStatus).Methods("GET")
	vendor.HandleFunc("/rates", rateHandler.List).Methods("GET")
	vendor.HandleFunc("/rates", rateHandler.Put).Methods("PUT")
	vendor.HandleFunc("/rates/{category}/{tier}", rateHandler.Delete).Methods("DELETE")
	vendor.HandleFunc("/fees", rateHandler.Fees).Methods("GET")

	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() {
		if err := jobSvc.CancelTimedOutBookings(); err != nil {
			log.Printf("Timeout sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule timeout sweep: %v", err)
	}
	if _, err := c.AddFunc("@daily", func() {
		if err := jobSvc.ExpireSubscriptions(); err != nil {
			log.Printf("Subscription sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule subscription sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
