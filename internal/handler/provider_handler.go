package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appointment-booking-api/internal/apperror"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/store"
)

type providerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Bio       string `json:"bio,omitempty"`
}

type providerSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

func toProviderResponse(p *model.Provider) providerResponse {
	return providerResponse{ID: p.ID, Name: p.Name, Specialty: p.Specialty, Bio: p.Bio}
}

func toProviderSummary(p *model.Provider) providerSummary {
	return providerSummary{ID: p.ID, Name: p.Name, Specialty: p.Specialty}
}

// ListProviders handles GET /api/providers.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.store.ListProviders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]providerResponse, 0, len(providers))
	for i := range providers {
		out = append(out, toProviderResponse(&providers[i]))
	}
	h.writeJSON(w, http.StatusOK, out)
}

type providerAppointment struct {
	ID           string `json:"id"`
	PatientName  string `json:"patient_name"`
	PatientEmail string `json:"patient_email"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Reason       string `json:"reason"`
	Status       string `json:"status"`
}

type providerAppointmentsResponse struct {
	ProviderID   string                `json:"provider_id"`
	Appointments []providerAppointment `json:"appointments"`
}

// ProviderAppointments handles
// GET /api/providers/{provider_id}/appointments?start_date=&end_date=.
func (h *Handler) ProviderAppointments(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "provider_id")

	if _, err := h.store.GetProvider(r.Context(), providerID); err != nil {
		if store.IsNotFound(err) {
			h.writeError(w, apperror.NotFound("Provider not found"))
		} else {
			h.writeError(w, err)
		}
		return
	}

	startDate, endDate, err := h.parseDateRange(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	fromUTC := h.clock.ToUTC(startDate)
	toUTC := h.clock.ToUTC(h.clock.EndOfLocalDay(endDate))

	appointments, err := h.store.ListAppointments(r.Context(), providerID, fromUTC, toUTC)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := providerAppointmentsResponse{
		ProviderID:   providerID,
		Appointments: make([]providerAppointment, 0, len(appointments)),
	}
	for _, a := range appointments {
		out.Appointments = append(out.Appointments, providerAppointment{
			ID:           a.ID,
			PatientName:  a.Patient.FirstName + " " + a.Patient.LastName,
			PatientEmail: a.Patient.Email,
			StartTime:    h.clock.FormatOffset(a.StartTime),
			EndTime:      h.clock.FormatOffset(a.EndTime),
			Reason:       a.Reason,
			Status:       a.Status,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}
