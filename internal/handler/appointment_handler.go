package handler

import (
	"net/http"

	"github.com/goccy/go-json"

	"appointment-booking-api/internal/apperror"
	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
)

type patientPayload struct {
	FirstName string `json:"first_name" validate:"required,max=100,person_name"`
	LastName  string `json:"last_name" validate:"required,max=100,person_name"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,phone"`
}

type createAppointmentRequest struct {
	SlotID     string         `json:"slot_id" validate:"required"`
	ProviderID string         `json:"provider_id" validate:"required"`
	Patient    patientPayload `json:"patient" validate:"required"`
	Reason     string         `json:"reason" validate:"required,min=3,max=500"`
}

type appointmentSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type appointmentResponse struct {
	ID              string          `json:"id"`
	ReferenceNumber string          `json:"reference_number"`
	Status          string          `json:"status"`
	Slot            appointmentSlot `json:"slot"`
	Provider        providerSummary `json:"provider"`
	Patient         patientPayload  `json:"patient"`
	Reason          string          `json:"reason"`
	CreatedAt       string          `json:"created_at"`
}

// CreateAppointment handles POST /api/appointments.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperror.Validation("Invalid request body", nil))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.writeError(w, apperror.Validation(firstValidationMessage(err), nil))
		return
	}

	apt, provider, err := h.engine.Book(r.Context(), booking.Request{
		SlotID:     req.SlotID,
		ProviderID: req.ProviderID,
		Patient: model.Patient{
			FirstName: req.Patient.FirstName,
			LastName:  req.Patient.LastName,
			Email:     req.Patient.Email,
			Phone:     req.Patient.Phone,
		},
		Reason: req.Reason,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	// Instants are stored UTC and rendered back in the configured zone.
	h.writeJSON(w, http.StatusCreated, appointmentResponse{
		ID:              apt.ID,
		ReferenceNumber: apt.ReferenceNumber,
		Status:          apt.Status,
		Slot: appointmentSlot{
			StartTime: h.clock.FormatOffset(apt.StartTime),
			EndTime:   h.clock.FormatOffset(apt.EndTime),
		},
		Provider:  toProviderSummary(provider),
		Patient:   req.Patient,
		Reason:    apt.Reason,
		CreatedAt: h.clock.FormatOffset(apt.CreatedAt),
	})
}
