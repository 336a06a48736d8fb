package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/config"
	"appointment-booking-api/internal/handler"
	"appointment-booking-api/internal/model"
	"appointment-booking-api/internal/slot"
	"appointment-booking-api/internal/store"
	"appointment-booking-api/internal/timeutil"
)

type fakeStore struct {
	mu        sync.Mutex
	providers []model.Provider
	booked    map[string]*model.Appointment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		providers: []model.Provider{
			{ID: "provider-1", Name: "Dr. Sarah Chen", Specialty: "Family Medicine", Bio: "Family medicine and preventive care."},
			{ID: "provider-2", Name: "Dr. James Kumar", Specialty: "Internal Medicine"},
		},
		booked: make(map[string]*model.Appointment),
	}
}

func bookedKey(providerID string, startUTC time.Time) string {
	return fmt.Sprintf("%s|%d", providerID, startUTC.UnixMilli())
}

func (f *fakeStore) ListProviders(context.Context) ([]model.Provider, error) {
	return f.providers, nil
}

func (f *fakeStore) GetProvider(_ context.Context, id string) (*model.Provider, error) {
	for _, p := range f.providers {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) HasConfirmed(_ context.Context, providerID string, startUTC time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.booked[bookedKey(providerID, startUTC)]
	return ok, nil
}

func (f *fakeStore) CreateAppointment(_ context.Context, a *model.Appointment) (store.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := bookedKey(a.ProviderID, a.StartTime)
	if _, ok := f.booked[k]; ok {
		return store.ConstraintViolated, nil
	}
	f.booked[k] = a
	return store.Inserted, nil
}

func (f *fakeStore) BookedSlotIDs(_ context.Context, providerID string, fromUTC, toUTC time.Time) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{})
	for _, a := range f.booked {
		if a.ProviderID == providerID && !a.StartTime.Before(fromUTC) && !a.StartTime.After(toUTC) {
			out[a.SlotID] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeStore) ListAppointments(_ context.Context, providerID string, fromUTC, toUTC time.Time) ([]model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Appointment
	for _, a := range f.booked {
		if a.ProviderID == providerID && !a.StartTime.Before(fromUTC) && !a.StartTime.After(toUTC) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// setup wires the router the way cmd/server does, with "now" pinned to
// Friday 2026-02-27 12:00 EST.
func setup(t *testing.T) (*chi.Mux, *fakeStore, *timeutil.Clock) {
	t.Helper()
	now := time.Date(2026, 2, 27, 17, 0, 0, 0, time.UTC)
	clock, err := timeutil.NewClockAt("America/Toronto", now)
	if err != nil {
		t.Fatalf("clock: %v", err)
	}

	st := newFakeStore()
	engine := booking.New(st, clock)
	cfg := &config.Config{AppName: "Healthcare Appointment API", AppVersion: "1.0.0"}
	h := handler.New(st, engine, clock, zap.NewNop(), cfg)

	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Route("/api", func(r chi.Router) {
		r.Get("/providers", h.ListProviders)
		r.Get("/availability", h.Availability)
		r.Post("/appointments", h.CreateAppointment)
		r.Get("/providers/{provider_id}/appointments", h.ProviderAppointments)
	})
	return r, st, clock
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func bookingBody(slotID string) map[string]any {
	return map[string]any{
		"slot_id":     slotID,
		"provider_id": "provider-1",
		"patient": map[string]string{
			"first_name": "John",
			"last_name":  "Doe",
			"email":      "john.doe@example.com",
			"phone":      "(555) 555-5555",
		},
		"reason": "Annual checkup",
	}
}

func futureSlotID(c *timeutil.Clock, hour, min int) string {
	// Tuesday 2026-03-03
	return slot.EncodeID("provider-1", c.Local(2026, 3, 3, hour, min).UTC())
}

func TestListProviders(t *testing.T) {
	r, _, _ := setup(t)

	req := httptest.NewRequest("GET", "/api/providers", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var providers []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &providers); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(providers))
	}
	if providers[0]["id"] != "provider-1" || providers[0]["specialty"] != "Family Medicine" {
		t.Errorf("unexpected first provider: %v", providers[0])
	}
	// bio is omitted when empty
	if _, ok := providers[1]["bio"]; ok {
		t.Error("empty bio should be omitted")
	}
}

func TestAvailability(t *testing.T) {
	r, _, _ := setup(t)

	// Monday and Tuesday 2026-03-02..03, no bookings
	rec, body := doJSON(t, r, "GET", "/api/availability?provider_id=provider-1&start_date=2026-03-02&end_date=2026-03-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	provider := body["provider"].(map[string]any)
	if provider["id"] != "provider-1" {
		t.Errorf("provider: %v", provider)
	}

	slots := body["slots"].([]any)
	if len(slots) != 30 {
		t.Fatalf("expected 30 slots over two weekdays, got %d", len(slots))
	}

	first := slots[0].(map[string]any)
	if got := first["start_time"].(string); got != "2026-03-02T09:00:00-05:00" {
		t.Errorf("first slot start: %q", got)
	}
	if got := first["end_time"].(string); got != "2026-03-02T09:30:00-05:00" {
		t.Errorf("first slot end: %q", got)
	}

	for _, raw := range slots {
		s := raw.(map[string]any)
		if s["available"] != true {
			t.Errorf("slot %v should be available", s["id"])
		}
		if strings.Contains(s["start_time"].(string), "T12:00:00") {
			t.Error("12:00 slot should not be generated")
		}
	}
}

func TestAvailabilityMarksBooked(t *testing.T) {
	r, _, c := setup(t)

	slotID := futureSlotID(c, 10, 0)
	if rec, _ := doJSON(t, r, "POST", "/api/appointments", bookingBody(slotID)); rec.Code != http.StatusCreated {
		t.Fatalf("booking: %d", rec.Code)
	}

	rec, body := doJSON(t, r, "GET", "/api/availability?provider_id=provider-1&start_date=2026-03-03&end_date=2026-03-04", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	seen := false
	for _, raw := range body["slots"].([]any) {
		s := raw.(map[string]any)
		if s["id"] == slotID {
			seen = true
			if s["available"] != false {
				t.Error("booked slot should be unavailable")
			}
		}
	}
	if !seen {
		t.Fatal("booked slot missing from availability")
	}
}

func TestAvailabilityErrors(t *testing.T) {
	r, _, _ := setup(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
	}{
		{"unknown provider", "provider_id=provider-99&start_date=2026-03-02&end_date=2026-03-03", 404, "NOT_FOUND"},
		{"bad date", "provider_id=provider-1&start_date=03/02/2026&end_date=2026-03-03", 400, "VALIDATION_ERROR"},
		{"inverted range", "provider_id=provider-1&start_date=2026-03-03&end_date=2026-03-02", 400, "VALIDATION_ERROR"},
		{"equal dates", "provider_id=provider-1&start_date=2026-03-02&end_date=2026-03-02", 400, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doJSON(t, r, "GET", "/api/availability?"+tt.query, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code: got %v, want %s", body["code"], tt.wantCode)
			}
		})
	}
}

var refRe = regexp.MustCompile(`^REF-\d{8}-\d{3}$`)

func TestCreateAppointment(t *testing.T) {
	r, st, c := setup(t)

	rec, body := doJSON(t, r, "POST", "/api/appointments", bookingBody(futureSlotID(c, 10, 0)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if body["status"] != "confirmed" {
		t.Errorf("status: %v", body["status"])
	}
	if ref := body["reference_number"].(string); !refRe.MatchString(ref) {
		t.Errorf("reference number: %q", ref)
	}
	slotObj := body["slot"].(map[string]any)
	if got := slotObj["start_time"].(string); got != "2026-03-03T10:00:00-05:00" {
		t.Errorf("slot start: %q", got)
	}
	patient := body["patient"].(map[string]any)
	if patient["first_name"] != "John" {
		t.Errorf("patient: %v", patient)
	}
	if len(st.booked) != 1 {
		t.Errorf("expected 1 persisted appointment, got %d", len(st.booked))
	}
}

func TestCreateAppointmentErrors(t *testing.T) {
	r, st, c := setup(t)

	unknownProvider := bookingBody(futureSlotID(c, 10, 0))
	unknownProvider["provider_id"] = "provider-99"

	badName := bookingBody(futureSlotID(c, 10, 30))
	badName["patient"].(map[string]string)["first_name"] = "J0hn!"

	badEmail := bookingBody(futureSlotID(c, 11, 0))
	badEmail["patient"].(map[string]string)["email"] = "not-an-email"

	shortReason := bookingBody(futureSlotID(c, 11, 30))
	shortReason["reason"] = "no"

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{"unknown provider", unknownProvider, 404, "NOT_FOUND"},
		{"malformed slot id", bookingBody("slot-provider-1-notanumber"), 400, "VALIDATION_ERROR"},
		{"invalid name", badName, 400, "VALIDATION_ERROR"},
		{"invalid email", badEmail, 400, "VALIDATION_ERROR"},
		{"short reason", shortReason, 400, "VALIDATION_ERROR"},
		{"weekend slot", bookingBody(slot.EncodeID("provider-1", c.Local(2026, 3, 7, 10, 0).UTC())), 422, "UNPROCESSABLE_ENTITY"},
		{"lunch slot", bookingBody(futureSlotID(c, 12, 0)), 422, "UNPROCESSABLE_ENTITY"},
		{"past slot", bookingBody(slot.EncodeID("provider-1", c.Local(2026, 2, 23, 10, 0).UTC())), 422, "UNPROCESSABLE_ENTITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doJSON(t, r, "POST", "/api/appointments", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code: got %v, want %s", body["code"], tt.wantCode)
			}
		})
	}
	if len(st.booked) != 0 {
		t.Errorf("rejected bookings persisted rows: %d", len(st.booked))
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	r, _, c := setup(t)

	slotID := futureSlotID(c, 10, 0)
	if rec, _ := doJSON(t, r, "POST", "/api/appointments", bookingBody(slotID)); rec.Code != http.StatusCreated {
		t.Fatalf("first booking: %d", rec.Code)
	}

	rec, body := doJSON(t, r, "POST", "/api/appointments", bookingBody(slotID))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body["code"] != "CONFLICT_ERROR" {
		t.Errorf("code: %v", body["code"])
	}
	details := body["details"].(map[string]any)
	if details["slot_id"] != slotID {
		t.Errorf("details.slot_id: got %v, want %s", details["slot_id"], slotID)
	}
}

func TestProviderAppointments(t *testing.T) {
	r, _, c := setup(t)

	if rec, _ := doJSON(t, r, "POST", "/api/appointments", bookingBody(futureSlotID(c, 10, 0))); rec.Code != http.StatusCreated {
		t.Fatalf("booking: %d", rec.Code)
	}

	rec, body := doJSON(t, r, "GET", "/api/providers/provider-1/appointments?start_date=2026-03-03&end_date=2026-03-04", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if body["provider_id"] != "provider-1" {
		t.Errorf("provider_id: %v", body["provider_id"])
	}
	appointments := body["appointments"].([]any)
	if len(appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appointments))
	}
	apt := appointments[0].(map[string]any)
	if apt["patient_name"] != "John Doe" {
		t.Errorf("patient_name: %v", apt["patient_name"])
	}
	if apt["status"] != "confirmed" {
		t.Errorf("status: %v", apt["status"])
	}
	if got := apt["start_time"].(string); got != "2026-03-03T10:00:00-05:00" {
		t.Errorf("start_time: %q", got)
	}
}

func TestProviderAppointmentsErrors(t *testing.T) {
	r, _, _ := setup(t)

	rec, body := doJSON(t, r, "GET", "/api/providers/provider-99/appointments?start_date=2026-03-03&end_date=2026-03-04", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body["code"] != "NOT_FOUND" {
		t.Errorf("code: %v", body["code"])
	}

	rec, body = doJSON(t, r, "GET", "/api/providers/provider-1/appointments?start_date=bad&end_date=2026-03-04", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["code"] != "VALIDATION_ERROR" {
		t.Errorf("code: %v", body["code"])
	}
}

func TestRoot(t *testing.T) {
	r, _, _ := setup(t)

	rec, body := doJSON(t, r, "GET", "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["message"] != "Healthcare Appointment API" {
		t.Errorf("message: %v", body["message"])
	}
	endpoints := body["endpoints"].(map[string]any)
	if endpoints["providers"] != "/api/providers" {
		t.Errorf("endpoints: %v", endpoints)
	}
}
