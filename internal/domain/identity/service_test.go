package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carefind/carefind/internal/domain/hospital"
	"github.com/carefind/carefind/internal/platform/apperror"
	"github.com/carefind/carefind/internal/platform/auth"
)

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type mockHospitalRepo struct {
	hospitals map[uuid.UUID]*hospital.Hospital
}

func newMockHospitalRepo() *mockHospitalRepo {
	return &mockHospitalRepo{hospitals: make(map[uuid.UUID]*hospital.Hospital)}
}

func (m *mockHospitalRepo) Create(_ context.Context, h *hospital.Hospital) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockHospitalRepo) GetByID(_ context.Context, id uuid.UUID) (*hospital.Hospital, error) {
	h, ok := m.hospitals[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return h, nil
}

func (m *mockHospitalRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*hospital.Hospital, error) {
	for _, h := range m.hospitals {
		if h.UserID == userID {
			return h, nil
		}
	}
	return nil, nil
}

func (m *mockHospitalRepo) ListAll(context.Context) ([]*hospital.Hospital, error) { return nil, nil }

func (m *mockHospitalRepo) Update(_ context.Context, h *hospital.Hospital) error {
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockHospitalRepo) UpdateRating(context.Context, uuid.UUID, float64) error { return nil }

func newTestService() (*Service, *mockUserRepo, *mockHospitalRepo) {
	users := newMockUserRepo()
	hospitals := newMockHospitalRepo()
	issuer := auth.NewTokenIssuer([]byte("test-secret-test-secret-test-secret"), time.Hour)
	return NewService(users, hospitals, issuer, PassthroughTx), users, hospitals
}

func patientReq() SignUpRequest {
	return SignUpRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "correct horse",
		Role:     auth.RolePatient,
	}
}

func TestSignUp_Patient(t *testing.T) {
	svc, users, hospitals := newTestService()

	u, token, err := svc.SignUp(context.Background(), patientReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected session token")
	}
	if u.PasswordHash == "correct horse" {
		t.Error("password must not be stored in the clear")
	}
	if len(users.users) != 1 {
		t.Errorf("expected 1 user, got %d", len(users.users))
	}
	if len(hospitals.hospitals) != 0 {
		t.Error("patient signup must not create a hospital")
	}
}

func TestSignUp_HospitalCreatesLinkedRecord(t *testing.T) {
	svc, _, hospitals := newTestService()
	lat, lng := 28.6139, 77.2090

	req := SignUpRequest{
		Name:            "City Care Admin",
		Email:           "admin@citycare.example",
		Password:        "correct horse",
		Role:            auth.RoleHospital,
		HospitalName:    "City Care",
		HospitalAddress: "12 Park Lane",
		Lat:             &lat,
		Lng:             &lng,
	}
	u, _, err := svc.SignUp(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hospitals.hospitals) != 1 {
		t.Fatalf("expected 1 hospital, got %d", len(hospitals.hospitals))
	}
	for _, h := range hospitals.hospitals {
		if h.UserID != u.ID {
			t.Error("hospital must be linked to the new user")
		}
		if h.Lat == nil || *h.Lat != lat {
			t.Error("hospital must carry the signup coordinate")
		}
	}
}

func TestSignUp_HospitalRequiresCoordinate(t *testing.T) {
	svc, _, _ := newTestService()

	req := SignUpRequest{
		Name:         "City Care Admin",
		Email:        "admin@citycare.example",
		Password:     "correct horse",
		Role:         auth.RoleHospital,
		HospitalName: "City Care",
	}
	_, _, err := svc.SignUp(context.Background(), req)
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	if _, _, err := svc.SignUp(context.Background(), patientReq()); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, _, err := svc.SignUp(context.Background(), patientReq())
	if apperror.KindOf(err) != apperror.KindConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestSignUp_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := []struct {
		name   string
		mutate func(*SignUpRequest)
	}{
		{"empty name", func(r *SignUpRequest) { r.Name = "" }},
		{"empty email", func(r *SignUpRequest) { r.Email = "" }},
		{"short password", func(r *SignUpRequest) { r.Password = "short" }},
		{"bad role", func(r *SignUpRequest) { r.Role = "admin" }},
	}
	for _, tc := range cases {
		req := patientReq()
		tc.mutate(&req)
		_, _, err := svc.SignUp(context.Background(), req)
		if apperror.KindOf(err) != apperror.KindValidation {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestSignIn(t *testing.T) {
	svc, _, _ := newTestService()
	if _, _, err := svc.SignUp(context.Background(), patientReq()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	u, token, err := svc.SignIn(context.Background(), "asha@example.com", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || u.Email != "asha@example.com" {
		t.Error("expected session for registered user")
	}

	// Email matching is case-insensitive.
	if _, _, err := svc.SignIn(context.Background(), "Asha@Example.com", "correct horse"); err != nil {
		t.Errorf("mixed-case email: %v", err)
	}
}

func TestSignIn_BadCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	if _, _, err := svc.SignUp(context.Background(), patientReq()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, _, err := svc.SignIn(context.Background(), "asha@example.com", "wrong")
	if apperror.KindOf(err) != apperror.KindUnauthorized {
		t.Errorf("wrong password: expected unauthorized, got %v", err)
	}

	_, _, err = svc.SignIn(context.Background(), "nobody@example.com", "correct horse")
	if apperror.KindOf(err) != apperror.KindUnauthorized {
		t.Errorf("unknown email: expected unauthorized, got %v", err)
	}
}

func TestPatientByID(t *testing.T) {
	svc, _, _ := newTestService()
	u, _, err := svc.SignUp(context.Background(), patientReq())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	info, err := svc.PatientByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "Asha" || info.Email != "asha@example.com" {
		t.Errorf("unexpected info: %+v", info)
	}
}
