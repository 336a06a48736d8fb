package store

import (
	"context"
	"time"

	"appointment-booking-api/internal/model"
)

// CreateAppointment persists a confirmed appointment. A uniqueness-constraint
// rejection on (provider_id, start_time), meaning a racing booking slipped
// past the pre-check, is reported as ConstraintViolated rather than an error.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) (InsertResult, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments
		   (id, reference_number, slot_id, provider_id,
		    patient_first_name, patient_last_name, patient_email, patient_phone,
		    reason, start_time, end_time, status, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		a.ID, a.ReferenceNumber, a.SlotID, a.ProviderID,
		a.Patient.FirstName, a.Patient.LastName, a.Patient.Email, a.Patient.Phone,
		a.Reason, a.StartTime, a.EndTime, a.Status, a.CreatedAt,
	)
	if err != nil {
		if isSlotTaken(err) {
			return ConstraintViolated, nil
		}
		return InsertFailed, err
	}
	return Inserted, nil
}

// HasConfirmed reports whether a confirmed appointment already holds the
// provider's slot at startUTC. Best-effort pre-check; the insert constraint
// is the source of truth.
func (s *Store) HasConfirmed(ctx context.Context, providerID string, startUTC time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM appointments
		   WHERE provider_id = $1 AND start_time = $2 AND status = 'confirmed')`,
		providerID, startUTC,
	).Scan(&exists)
	return exists, err
}

// BookedSlotIDs returns the slot ids of confirmed appointments for a
// provider with start instants inside [fromUTC, toUTC].
func (s *Store) BookedSlotIDs(ctx context.Context, providerID string, fromUTC, toUTC time.Time) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT slot_id FROM appointments
		 WHERE provider_id = $1
		   AND start_time >= $2 AND start_time <= $3
		   AND status = 'confirmed'`,
		providerID, fromUTC, toUTC,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	booked := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		booked[id] = struct{}{}
	}
	return booked, rows.Err()
}

func (s *Store) ListAppointments(ctx context.Context, providerID string, fromUTC, toUTC time.Time) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, reference_number, slot_id, provider_id,
		        patient_first_name, patient_last_name, patient_email, patient_phone,
		        reason, start_time, end_time, status, created_at
		 FROM appointments
		 WHERE provider_id = $1
		   AND start_time >= $2 AND start_time <= $3
		 ORDER BY start_time`,
		providerID, fromUTC, toUTC,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.ReferenceNumber, &a.SlotID, &a.ProviderID,
			&a.Patient.FirstName, &a.Patient.LastName, &a.Patient.Email, &a.Patient.Phone,
			&a.Reason, &a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
