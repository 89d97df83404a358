package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medicare-clinic/scheduling-platform/internal/appointments"
	"github.com/medicare-clinic/scheduling-platform/internal/availability"
	"github.com/medicare-clinic/scheduling-platform/internal/booking"
	"github.com/medicare-clinic/scheduling-platform/internal/notify"
	"github.com/medicare-clinic/scheduling-platform/internal/patients"
)

const adminSecret = "test-secret"

func newTestRouter(t *testing.T) (http.Handler, appointments.Ledger) {
	t.Helper()
	dir := t.TempDir()

	patientsCSV := filepath.Join(dir, "patients.csv")
	writeFile(t, patientsCSV, strings.Join([]string{
		"Name,DOB,ID,Doctor,PatientType,Email,Phone",
		"Jane Doe,1990-01-15,P001,Dr. Smith,Returning,jane@example.com,555-0101",
	}, "\n")+"\n")

	availabilityCSV := filepath.Join(dir, "availability.csv")
	writeFile(t, availabilityCSV, strings.Join([]string{
		`Doctor,Available Slots`,
		`Dr. Smith,"2025-07-01 09:00, 2025-07-01 10:00"`,
	}, "\n")+"\n")

	directory := patients.NewCSVDirectory(patientsCSV)
	inventory := availability.NewCSVInventory(availabilityCSV)
	ledger := appointments.NewCSVLedger(filepath.Join(dir, "appointments.csv"))
	svc := booking.NewService(inventory, ledger, nil)

	h := New(Deps{
		Directory:      directory,
		Inventory:      inventory,
		Ledger:         ledger,
		Booking:        svc,
		Notifier:       notify.NewService(nil, nil),
		DefaultDoctors: []string{"Dr. Smith", "Dr. Johnson"},
		AdminJWTSecret: adminSecret,
	})
	return h, ledger
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPatientLookupFound(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPost, "/patients/lookup", `{"name":"jane doe","dob":"1990-01-15"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result patients.LookupResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Found || result.ID != "P001" || result.Doctor != "Dr. Smith" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPatientLookupNewPatient(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPost, "/patients/lookup", `{"name":"Nobody","dob":"2000-01-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var result patients.LookupResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Found || result.PatientType != patients.TypeNew {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPatientLookupRequiresFields(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPost, "/patients/lookup", `{"name":"Jane"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDoctorList(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodGet, "/doctors", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Doctors []availability.DoctorSummary `json:"doctors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Doctors) != 1 || out.Doctors[0].Name != "Dr. Smith" || out.Doctors[0].OpenSlots != 2 {
		t.Fatalf("unexpected doctors: %+v", out.Doctors)
	}
}

func TestDoctorListFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	inventory := availability.NewCSVInventory(filepath.Join(dir, "availability.csv"))
	ledger := appointments.NewCSVLedger(filepath.Join(dir, "appointments.csv"))
	h := New(Deps{
		Directory:      patients.NewMemoryDirectory(),
		Inventory:      inventory,
		Ledger:         ledger,
		Booking:        booking.NewService(inventory, ledger, nil),
		Notifier:       notify.NewService(nil, nil),
		DefaultDoctors: []string{"Dr. Smith", "Dr. Johnson", "Dr. Lee"},
		AdminJWTSecret: adminSecret,
	})

	rec := doJSON(t, h, http.MethodGet, "/doctors", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Doctors []availability.DoctorSummary `json:"doctors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Doctors) != 3 || out.Doctors[0].Name != "Dr. Smith" || out.Doctors[0].OpenSlots != 0 {
		t.Fatalf("unexpected doctors: %+v", out.Doctors)
	}
}

func TestDoctorListFallsBackOnUnreadableStore(t *testing.T) {
	dir := t.TempDir()
	availabilityCSV := filepath.Join(dir, "availability.csv")
	// Unterminated quoted field: the file exists but cannot be parsed.
	writeFile(t, availabilityCSV, "Doctor,Available Slots\nDr. Smith,\"2025-09-05 09:00\n")

	inventory := availability.NewCSVInventory(availabilityCSV)
	ledger := appointments.NewCSVLedger(filepath.Join(dir, "appointments.csv"))
	h := New(Deps{
		Directory:      patients.NewMemoryDirectory(),
		Inventory:      inventory,
		Ledger:         ledger,
		Booking:        booking.NewService(inventory, ledger, nil),
		Notifier:       notify.NewService(nil, nil),
		DefaultDoctors: []string{"Dr. Smith", "Dr. Johnson", "Dr. Lee"},
		AdminJWTSecret: adminSecret,
	})

	rec := doJSON(t, h, http.MethodGet, "/doctors", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Doctors []availability.DoctorSummary `json:"doctors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Doctors) != 3 {
		t.Fatalf("expected fallback roster, got %+v", out.Doctors)
	}
}

func TestCreateBooking(t *testing.T) {
	h, ledger := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPost, "/bookings", `{"doctor":"Dr. Smith","patient_type":"New"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var conf booking.Confirmation
	if err := json.Unmarshal(rec.Body.Bytes(), &conf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if conf.Slot != "2025-07-01 09:00" || conf.DurationMinutes != 60 || conf.BookingID == "" {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}

	rows, err := ledger.List(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != conf.BookingID {
		t.Fatalf("unexpected ledger rows: %+v", rows)
	}
}

func TestCreateBookingNoSlots(t *testing.T) {
	h, _ := newTestRouter(t)
	body := `{"doctor":"Dr. Smith","patient_type":"Returning"}`
	for i := 0; i < 2; i++ {
		if rec := doJSON(t, h, http.MethodPost, "/bookings", body); rec.Code != http.StatusCreated {
			t.Fatalf("booking %d: status = %d", i, rec.Code)
		}
	}
	rec := doJSON(t, h, http.MethodPost, "/bookings", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestCreateBookingInvalid(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPost, "/bookings", `{"doctor":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAttachInsurance(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPost, "/bookings", `{"doctor":"Dr. Smith","patient_type":"New"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking status = %d", rec.Code)
	}
	var conf booking.Confirmation
	if err := json.Unmarshal(rec.Body.Bytes(), &conf); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doJSON(t, h, http.MethodPut, "/bookings/"+conf.BookingID+"/insurance",
		`{"insurance":{"carrier":"Acme Health","member_id":"M123","group_number":"G9"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var amended appointments.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &amended); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if amended.InsuranceCarrier != "Acme Health" || amended.Slot != conf.Slot {
		t.Fatalf("unexpected record: %+v", amended)
	}
}

func TestAttachInsuranceUnknownID(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPut, "/bookings/nope/insurance", `{"insurance":{"carrier":"Acme"}}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestNotificationAccepted(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPost, "/notifications/intake-form",
		`{"email":"jane@example.com","name":"Jane","doctor":"Dr. Smith","slot":"2025-07-01 09:00"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestNotificationRequiresEmail(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodPost, "/notifications/reminder", `{"name":"Jane"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminRequiresToken(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doJSON(t, h, http.MethodGet, "/admin/appointments", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminListAndExport(t *testing.T) {
	h, _ := newTestRouter(t)
	if rec := doJSON(t, h, http.MethodPost, "/bookings", `{"doctor":"Dr. Smith","patient_type":"New"}`); rec.Code != http.StatusCreated {
		t.Fatalf("booking status = %d", rec.Code)
	}

	token := adminToken(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/appointments/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Doctor,Slot") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Dr. Smith") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(adminSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
