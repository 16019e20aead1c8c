package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"healify-server/internal/config"
	"healify-server/internal/routes"
	"healify-server/internal/store"
	"healify-server/internal/token"
)

const testSecret = "test-secret-which-is-long-enough-for-hs256"

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := token.NewService(testSecret, 24*time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	users := store.NewMemoryUserStore()
	appointments := store.NewMemoryAppointmentStore(users)

	cfg := &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 24,
		AuthRateLimitRPS:   1000,
		AuthRateLimitBurst: 1000,
	}

	router := gin.New()
	routes.SetupRoutes(router, users, appointments, tokens, cfg)
	return router
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, router *gin.Engine, method, path, bearer string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

type authPayload struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func register(t *testing.T, router *gin.Engine, name, email, role string) authPayload {
	t.Helper()
	rec, env := do(t, router, "POST", "/auth/register", "", map[string]string{
		"name":           name,
		"email":          email,
		"password":       "password123",
		"role":           role,
		"specialization": "Cardiology",
		"location":       "Boston",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: got %d: %s", email, rec.Code, rec.Body.String())
	}
	var p authPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("decode register payload: %v", err)
	}
	if p.Token == "" {
		t.Fatal("register returned empty token")
	}
	return p
}

func TestRegisterAndLogin(t *testing.T) {
	router := setup(t)

	register(t, router, "Alice", "alice@example.com", "PATIENT")

	rec, env := do(t, router, "POST", "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got %d: %s", rec.Code, rec.Body.String())
	}
	var p authPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("decode login payload: %v", err)
	}
	if p.Token == "" {
		t.Fatal("login returned empty token")
	}
	if p.User.Role != "PATIENT" {
		t.Errorf("role: got %q", p.User.Role)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	router := setup(t)
	register(t, router, "Alice", "alice@example.com", "PATIENT")

	rec, _ := do(t, router, "POST", "/auth/register", "", map[string]string{
		"name": "Imposter", "email": "alice@example.com", "password": "password123", "role": "PATIENT",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", rec.Code)
	}
}

func TestLoginFailures(t *testing.T) {
	router := setup(t)
	register(t, router, "Alice", "alice@example.com", "PATIENT")

	tests := []struct {
		name  string
		email string
		pw    string
	}{
		{"wrong password", "alice@example.com", "wrongpassword"},
		{"unknown user", "nobody@example.com", "password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, router, "POST", "/auth/login", "", map[string]string{
				"email": tt.email, "password": tt.pw,
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			// same externally visible error either way
			if env.Error != "Invalid email or password" {
				t.Errorf("error message: got %q", env.Error)
			}
		})
	}
}

func TestDoctorSearchIsPublic(t *testing.T) {
	router := setup(t)
	register(t, router, "Dr. Dana", "dana@example.com", "DOCTOR")

	rec, env := do(t, router, "GET", "/api/patient/doctors?specialization=cardio", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("doctor search: got %d", rec.Code)
	}
	var doctors []map[string]any
	if err := json.Unmarshal(env.Data, &doctors); err != nil {
		t.Fatalf("decode doctors: %v", err)
	}
	if len(doctors) != 1 {
		t.Fatalf("expected 1 doctor, got %d", len(doctors))
	}
}

func TestBookingAndRespondFlow(t *testing.T) {
	router := setup(t)
	patient := register(t, router, "Paula", "paula@example.com", "PATIENT")
	doctor := register(t, router, "Dr. Dana", "dana@example.com", "DOCTOR")

	// book as the authenticated patient
	at := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	rec, env := do(t, router, "POST", "/api/patient/appointments", patient.Token, map[string]string{
		"doctorId":        doctor.User.ID,
		"appointmentTime": at,
		"location":        "Room 4",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("book: got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode created appointment: %v", err)
	}
	if created.Status != "PENDING" {
		t.Errorf("status: got %q", created.Status)
	}

	// doctor listing requires authentication
	rec, _ = do(t, router, "GET", "/api/doctor/appointments", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated listing: expected 401, got %d", rec.Code)
	}

	rec, env = do(t, router, "GET", "/api/doctor/appointments", doctor.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("listing: got %d: %s", rec.Code, rec.Body.String())
	}
	var list []struct {
		ID          string `json:"id"`
		DoctorName  string `json:"doctorName"`
		PatientName string `json:"patientName"`
		Status      string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(list))
	}
	if list[0].DoctorName != "Dr. Dana" || list[0].PatientName != "Paula" {
		t.Errorf("names: got %q / %q", list[0].DoctorName, list[0].PatientName)
	}

	// accept, then verify the listing reflects it
	respondPath := fmt.Sprintf("/api/doctor/appointments/%s/respond?accept=true", created.ID)
	rec, _ = do(t, router, "PATCH", respondPath, doctor.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("respond: got %d: %s", rec.Code, rec.Body.String())
	}

	rec, env = do(t, router, "GET", "/api/doctor/appointments", doctor.Token, nil)
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if list[0].Status != "ACCEPTED" {
		t.Errorf("status after accept: got %q", list[0].Status)
	}

	// a second response conflicts
	respondPath = fmt.Sprintf("/api/doctor/appointments/%s/respond?accept=false", created.ID)
	rec, _ = do(t, router, "PATCH", respondPath, doctor.Token, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second respond: expected 409, got %d", rec.Code)
	}
}

func TestBookPublicWithPatientEmail(t *testing.T) {
	router := setup(t)
	register(t, router, "Paula", "paula@example.com", "PATIENT")
	doctor := register(t, router, "Dr. Dana", "dana@example.com", "DOCTOR")

	// unauthenticated booking, patient supplied via query parameter
	at := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	rec, _ := do(t, router, "POST", "/api/patient/appointments?patientEmail=paula@example.com", "", map[string]string{
		"doctorId":        doctor.User.ID,
		"appointmentTime": at,
		"location":        "Room 4",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("public book: got %d: %s", rec.Code, rec.Body.String())
	}

	// unknown patient or doctor both collapse into the same generic 404
	rec, env := do(t, router, "POST", "/api/patient/appointments?patientEmail=nobody@example.com", "", map[string]string{
		"doctorId":        doctor.User.ID,
		"appointmentTime": at,
		"location":        "Room 4",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown patient: expected 404, got %d", rec.Code)
	}
	genericMsg := env.Error

	rec, env = do(t, router, "POST", "/api/patient/appointments?patientEmail=paula@example.com", "", map[string]string{
		"doctorId":        "no-such-doctor",
		"appointmentTime": at,
		"location":        "Room 4",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown doctor: expected 404, got %d", rec.Code)
	}
	if env.Error != genericMsg {
		t.Errorf("lookup failures distinguishable: %q vs %q", env.Error, genericMsg)
	}
}

func TestRespondOwnershipAtBoundary(t *testing.T) {
	router := setup(t)
	patient := register(t, router, "Paula", "paula@example.com", "PATIENT")
	doctor := register(t, router, "Dr. Dana", "dana@example.com", "DOCTOR")
	other := register(t, router, "Dr. Eve", "eve@example.com", "DOCTOR")

	at := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	rec, env := do(t, router, "POST", "/api/patient/appointments", patient.Token, map[string]string{
		"doctorId":        doctor.User.ID,
		"appointmentTime": at,
		"location":        "Room 4",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("book: got %d", rec.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	json.Unmarshal(env.Data, &created)

	// another doctor may not resolve this appointment
	respondPath := fmt.Sprintf("/api/doctor/appointments/%s/respond?accept=true", created.ID)
	rec, _ = do(t, router, "PATCH", respondPath, other.Token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign doctor respond: expected 403, got %d", rec.Code)
	}

	// a doctorEmail parameter that contradicts the token is rejected
	respondPath = fmt.Sprintf("/api/doctor/appointments/%s/respond?accept=true&doctorEmail=dana@example.com", created.ID)
	rec, _ = do(t, router, "PATCH", respondPath, other.Token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("mismatched doctorEmail: expected 403, got %d", rec.Code)
	}

	// the addressed doctor succeeds
	rec, _ = do(t, router, "PATCH", respondPath, doctor.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner respond: got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRespondValidation(t *testing.T) {
	router := setup(t)
	doctor := register(t, router, "Dr. Dana", "dana@example.com", "DOCTOR")

	rec, _ := do(t, router, "PATCH", "/api/doctor/appointments/xyz/respond?accept=maybe", doctor.Token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad accept param: expected 400, got %d", rec.Code)
	}

	rec, _ = do(t, router, "PATCH", "/api/doctor/appointments/xyz/respond?accept=true", doctor.Token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing appointment: expected 404, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := setup(t)
	rec, _ := do(t, router, "GET", "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: got %d", rec.Code)
	}
}
