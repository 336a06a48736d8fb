// Package handler is the thin HTTP transport over the availability and
// booking core. It owns request decoding, boundary validation and the
// {code, message, details} error rendering; business rules live in the
// booking and slot packages.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"appointment-booking-api/internal/apperror"
	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/config"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/timeutil"
)

// Store is the read surface the handlers need; writes go through the engine.
type Store interface {
	ListProviders(ctx context.Context) ([]model.Provider, error)
	GetProvider(ctx context.Context, id string) (*model.Provider, error)
	BookedSlotIDs(ctx context.Context, providerID string, fromUTC, toUTC time.Time) (map[string]struct{}, error)
	ListAppointments(ctx context.Context, providerID string, fromUTC, toUTC time.Time) ([]model.Appointment, error)
}

type Handler struct {
	store      Store
	engine     *booking.Engine
	clock      *timeutil.Clock
	log        *zap.Logger
	appName    string
	appVersion string
}

func New(st Store, engine *booking.Engine, clock *timeutil.Clock, log *zap.Logger, cfg *config.Config) *Handler {
	return &Handler{
		store:      st,
		engine:     engine,
		clock:      clock,
		log:        log,
		appName:    cfg.AppName,
		appVersion: cfg.AppVersion,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response", zap.Error(err))
	}
}

// writeError renders taxonomy errors with their own status and code; anything
// else is a 500 with the fallback code, logged but not exposed.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *apperror.Error
	if !errors.As(err, &apiErr) {
		h.log.Error("internal error", zap.Error(err))
		apiErr = apperror.Internal(http.StatusInternalServerError, "Internal server error")
	}
	h.writeJSON(w, apiErr.Status, apiErr)
}

// Root mirrors the service index the API has always served.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": h.appName,
		"version": h.appVersion,
		"endpoints": map[string]string{
			"providers":    "/api/providers",
			"availability": "/api/availability",
			"appointments": "/api/appointments",
		},
	})
}
