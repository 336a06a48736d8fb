package handler

import (
	"net/http"
	"time"

	"appointment-booking-api/internal/apperror"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/slot"
	"appointment-booking-api/internal/store"
)

type slotResponse struct {
	ID        string `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type availabilityResponse struct {
	Provider providerSummary `json:"provider"`
	Slots    []slotResponse  `json:"slots"`
}

// parseDateRange validates the YYYY-MM-DD query params shared by the
// availability and provider-appointments endpoints.
func (h *Handler) parseDateRange(startStr, endStr string) (start, end time.Time, err error) {
	start, perr := h.clock.ParseLocalDate(startStr)
	if perr != nil {
		return start, end, apperror.Validation("Invalid date format. Use YYYY-MM-DD", nil)
	}
	end, perr = h.clock.ParseLocalDate(endStr)
	if perr != nil {
		return start, end, apperror.Validation("Invalid date format. Use YYYY-MM-DD", nil)
	}
	if !end.After(start) {
		return start, end, apperror.Validation("end_date must be after start_date", nil)
	}
	return start, end, nil
}

// Availability handles GET /api/availability?provider_id=&start_date=&end_date=.
// Slots are derived fresh from the business-hours rules and reconciled
// against the provider's confirmed bookings in range.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	providerID := q.Get("provider_id")

	provider, err := h.store.GetProvider(r.Context(), providerID)
	if err != nil {
		if store.IsNotFound(err) {
			h.writeError(w, apperror.NotFound("Provider not found"))
		} else {
			h.writeError(w, err)
		}
		return
	}

	startDate, endDate, err := h.parseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	fromUTC := h.clock.ToUTC(startDate)
	toUTC := h.clock.ToUTC(h.clock.EndOfLocalDay(endDate))
	booked, err := h.store.BookedSlotIDs(r.Context(), providerID, fromUTC, toUTC)
	if err != nil {
		h.writeError(w, err)
		return
	}

	slots := slot.Generate(h.clock, providerID, startDate, endDate, h.clock.LocalNow(), booked)
	h.writeJSON(w, http.StatusOK, availabilityResponse{
		Provider: toProviderSummary(provider),
		Slots:    toSlotResponses(h, slots),
	})
}

func toSlotResponses(h *Handler, slots []model.Slot) []slotResponse {
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			ID:        s.ID,
			StartTime: h.clock.FormatOffset(s.StartTime),
			EndTime:   h.clock.FormatOffset(s.EndTime),
			Available: s.Available,
		})
	}
	return out
}
