// Package booking validates booking requests against the business-hour rules
// and reserves slots through the store. The engine is stateless; every
// concurrency guarantee comes from the store's uniqueness constraint.
package booking

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"appointment-booking-api/internal/apperror"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/slot"
	"appointment-booking-api/internal/store"
	"appointment-booking-api/internal/timeutil"
)

// Store is the persistence surface the engine needs.
type Store interface {
	GetProvider(ctx context.Context, id string) (*model.Provider, error)
	HasConfirmed(ctx context.Context, providerID string, startUTC time.Time) (bool, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) (store.InsertResult, error)
}

type Engine struct {
	store Store
	clock *timeutil.Clock
}

func New(st Store, clock *timeutil.Clock) *Engine {
	return &Engine{store: st, clock: clock}
}

type Request struct {
	SlotID     string
	ProviderID string
	Patient    model.Patient
	Reason     string
}

// Book runs the full reservation sequence: provider lookup, slot id decode,
// business-window validation, availability pre-check, insert. The slot's
// timing is re-derived from its identifier; no server-side slot table exists.
// Failures are returned as *apperror.Error values.
func (e *Engine) Book(ctx context.Context, req Request) (*model.Appointment, *model.Provider, error) {
	provider, err := e.store.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil, apperror.NotFound("Provider not found")
		}
		return nil, nil, err
	}

	startUTC, err := slot.DecodeID(req.SlotID)
	if err != nil {
		return nil, nil, apperror.Validation("Invalid slot ID format", nil)
	}
	endUTC := startUTC.Add(slot.Duration)

	localStart := e.clock.FromUTC(startUTC)

	// These checks are authoritative at booking time, whatever snapshot the
	// slot id came from.
	if wd := localStart.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return nil, nil, apperror.Unprocessable("Appointments cannot be booked on weekends", nil)
	}
	if localStart.Hour() == slot.LunchHour && localStart.Minute() == 0 {
		return nil, nil, apperror.Unprocessable("Appointments cannot be booked during the lunch hour", nil)
	}
	if localStart.Hour() < slot.OpenHour || localStart.Hour() >= slot.CloseHour {
		return nil, nil, apperror.Unprocessable("Appointments must be within business hours (9:00 AM - 5:00 PM)", nil)
	}
	if !localStart.After(e.clock.LocalNow()) {
		return nil, nil, apperror.Unprocessable("Cannot book appointments in the past", nil)
	}

	// Best-effort pre-check; the uniqueness constraint settles races.
	taken, err := e.store.HasConfirmed(ctx, req.ProviderID, startUTC)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, apperror.Conflict("This time slot has already been booked", map[string]string{"slot_id": req.SlotID})
	}

	apt := &model.Appointment{
		ID:              uuid.New().String(),
		ReferenceNumber: referenceNumber(localStart),
		SlotID:          req.SlotID,
		ProviderID:      req.ProviderID,
		Patient:         req.Patient,
		Reason:          req.Reason,
		StartTime:       startUTC,
		EndTime:         endUTC,
		Status:          model.StatusConfirmed,
		CreatedAt:       e.clock.ToUTC(e.clock.LocalNow()),
	}

	result, err := e.store.CreateAppointment(ctx, apt)
	if err != nil {
		return nil, nil, err
	}
	if result == store.ConstraintViolated {
		return nil, nil, apperror.Conflict("This time slot has already been booked", map[string]string{"slot_id": req.SlotID})
	}

	return apt, provider, nil
}

// referenceNumber builds the human-facing confirmation code
// REF-<YYYYMMDD of local start>-<3 random digits>. It is a display label,
// not a uniqueness key, and collisions are accepted; the real uniqueness key
// is (provider, start instant).
func referenceNumber(localStart time.Time) string {
	return fmt.Sprintf("REF-%s-%03d", localStart.Format("20060102"), rand.IntN(1000))
}
