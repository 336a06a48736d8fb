package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/config"
	"appointment-booking-api/internal/handler"
	"appointment-booking-api/internal/logger"
	"appointment-booking-api/internal/middleware"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/store"
	"appointment-booking-api/internal/timeutil"
)

func main() {
	cfg := config.Load()

	zl := logger.New(cfg)
	defer zl.Sync()

	clock, err := timeutil.NewClock(cfg.Timezone)
	if err != nil {
		zl.Fatal("timezone", zap.Error(err))
	}

	// database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("db", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		zl.Fatal("db ping", zap.Error(err))
	}
	zl.Info("connected to postgres")

	// run migrations
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		zl.Warn("migration file not found, skipping", zap.Error(err))
	} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
		zl.Warn("migration failed", zap.Error(err))
	} else {
		zl.Info("migration applied")
	}

	st := store.New(pool)
	if err := st.SeedProviders(context.Background(), seedProviders()); err != nil {
		zl.Warn("provider seeding failed", zap.Error(err))
	}

	engine := booking.New(st, clock)
	h := handler.New(st, engine, clock, zl, cfg)

	rl := middleware.NewRateLimiter(5, 10)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLogger(zl))

	r.Get("/", h.Root)
	r.Route("/api", func(r chi.Router) {
		r.Get("/providers", h.ListProviders)
		r.Get("/availability", h.Availability)
		r.With(middleware.RateLimit(rl)).Post("/appointments", h.CreateAppointment)
		r.Get("/providers/{provider_id}/appointments", h.ProviderAppointments)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		zl.Info("http listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Error("http", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}

func seedProviders() []model.Provider {
	return []model.Provider{
		{
			ID:        "provider-1",
			Name:      "Dr. Sarah Chen",
			Specialty: "Family Medicine",
			Bio:       "Dr. Chen has over 15 years of experience in family medicine and preventive care.",
		},
		{
			ID:        "provider-2",
			Name:      "Dr. James Kumar",
			Specialty: "Internal Medicine",
			Bio:       "Dr. Kumar specializes in internal medicine with a focus on chronic disease management.",
		},
	}
}
