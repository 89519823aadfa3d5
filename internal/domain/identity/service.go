package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/carefind/carefind/internal/domain/appointment"
	"github.com/carefind/carefind/internal/domain/hospital"
	"github.com/carefind/carefind/internal/platform/apperror"
	"github.com/carefind/carefind/internal/platform/auth"
)

// TxRunner executes fn inside a storage transaction. In production this is
// a closure over the connection pool; tests substitute a pass-through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PassthroughTx runs fn without any transaction.
func PassthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// SignUpRequest carries a new account. The hospital fields apply only to
// hospital-role signups, where a linked hospital record with a geographic
// coordinate is created atomically with the user.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`

	HospitalName    string   `json:"hospital_name"`
	HospitalAddress string   `json:"hospital_address"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
}

type Service struct {
	users     Repository
	hospitals hospital.HospitalRepository
	issuer    *auth.TokenIssuer
	inTx      TxRunner
}

func NewService(users Repository, hospitals hospital.HospitalRepository, issuer *auth.TokenIssuer, inTx TxRunner) *Service {
	return &Service{users: users, hospitals: hospitals, issuer: issuer, inTx: inTx}
}

// SignUp creates a user account and, for hospital-role signups, its linked
// hospital record in the same transaction. Returns the new user and a
// session token.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*User, string, error) {
	if err := validateSignUp(req); err != nil {
		return nil, "", err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", apperror.Wrap(apperror.KindRemoteFailure, err, "check email")
	}
	if existing != nil {
		return nil, "", apperror.New(apperror.KindConflict, "email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &User{
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return apperror.Wrap(apperror.KindRemoteFailure, err, "create user")
		}
		if req.Role != auth.RoleHospital {
			return nil
		}
		return s.hospitals.Create(ctx, &hospital.Hospital{
			Name:    req.HospitalName,
			Address: req.HospitalAddress,
			Phone:   req.Phone,
			Lat:     req.Lat,
			Lng:     req.Lng,
			UserID:  u.ID,
		})
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// SignIn verifies credentials and issues a session token. An unknown email
// and a wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", apperror.Wrap(apperror.KindRemoteFailure, err, "load user")
	}
	if u == nil || !auth.ComparePassword(u.PasswordHash, password) {
		return nil, "", apperror.New(apperror.KindUnauthorized, "invalid email or password")
	}

	token, err := s.issuer.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// SignOut revokes the session token carried in the context.
func (s *Service) SignOut(ctx context.Context) {
	if claims := auth.ClaimsFromContext(ctx); claims != nil {
		s.issuer.Revoke(claims)
	}
}

// Me returns the signed-in user's profile.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, err, "user not found")
	}
	return u, nil
}

// PatientByID satisfies the appointment service's patient directory.
func (s *Service) PatientByID(ctx context.Context, id uuid.UUID) (appointment.PatientInfo, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return appointment.PatientInfo{}, err
	}
	return appointment.PatientInfo{Name: u.Name, Email: u.Email}, nil
}

func validateSignUp(req SignUpRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperror.New(apperror.KindValidation, "name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return apperror.New(apperror.KindValidation, "email is required")
	}
	if len(req.Password) < 8 {
		return apperror.New(apperror.KindValidation, "password must be at least 8 characters")
	}
	switch req.Role {
	case auth.RolePatient:
	case auth.RoleHospital:
		if strings.TrimSpace(req.HospitalName) == "" {
			return apperror.New(apperror.KindValidation, "hospital name is required")
		}
		if req.Lat == nil || req.Lng == nil {
			return apperror.New(apperror.KindValidation, "hospital location is required")
		}
	default:
		return apperror.New(apperror.KindValidation, "role must be patient or hospital")
	}
	return nil
}
