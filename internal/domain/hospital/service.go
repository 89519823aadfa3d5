package hospital

import (
	"context"

	"github.com/google/uuid"

	"github.com/carefind/carefind/internal/platform/apperror"
)

type Service struct {
	hospitals HospitalRepository
	doctors   DoctorRepository
}

func NewService(hospitals HospitalRepository, doctors DoctorRepository) *Service {
	return &Service{hospitals: hospitals, doctors: doctors}
}

func (s *Service) ListHospitals(ctx context.Context) ([]*Hospital, error) {
	return s.hospitals.ListAll(ctx)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

// GetHospitalByUserID returns the hospital owned by the user, or (nil, nil)
// when the user owns none.
func (s *Service) GetHospitalByUserID(ctx context.Context, userID uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByUserID(ctx, userID)
}

func (s *Service) UpdateHospital(ctx context.Context, ownerUserID uuid.UUID, h *Hospital) error {
	if err := s.checkOwnership(ctx, ownerUserID, h.ID); err != nil {
		return err
	}
	return s.hospitals.Update(ctx, h)
}

// AddDoctor creates a doctor under the hospital owned by ownerUserID.
func (s *Service) AddDoctor(ctx context.Context, ownerUserID, hospitalID uuid.UUID, d *Doctor) error {
	if d.Name == "" {
		return apperror.New(apperror.KindValidation, "doctor name is required")
	}
	if d.Specialization == "" {
		return apperror.New(apperror.KindValidation, "specialization is required")
	}
	if d.Experience <= 0 {
		return apperror.New(apperror.KindValidation, "experience must be a positive number of years")
	}
	if err := s.checkOwnership(ctx, ownerUserID, hospitalID); err != nil {
		return err
	}
	d.HospitalID = hospitalID
	return s.doctors.Create(ctx, d)
}

func (s *Service) UpdateDoctor(ctx context.Context, ownerUserID uuid.UUID, d *Doctor) error {
	existing, err := s.doctors.GetByID(ctx, d.ID)
	if err != nil {
		return apperror.Wrap(apperror.KindNotFound, err, "doctor not found")
	}
	if err := s.checkOwnership(ctx, ownerUserID, existing.HospitalID); err != nil {
		return err
	}
	if d.Name == "" {
		return apperror.New(apperror.KindValidation, "doctor name is required")
	}
	if d.Experience <= 0 {
		return apperror.New(apperror.KindValidation, "experience must be a positive number of years")
	}
	d.HospitalID = existing.HospitalID
	return s.doctors.Update(ctx, d)
}

// RemoveDoctor deletes a doctor. Past appointments keep their denormalized
// doctor name and id for history.
func (s *Service) RemoveDoctor(ctx context.Context, ownerUserID, doctorID uuid.UUID) error {
	existing, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return apperror.Wrap(apperror.KindNotFound, err, "doctor not found")
	}
	if err := s.checkOwnership(ctx, ownerUserID, existing.HospitalID); err != nil {
		return err
	}
	return s.doctors.Delete(ctx, doctorID)
}

func (s *Service) checkOwnership(ctx context.Context, ownerUserID, hospitalID uuid.UUID) error {
	h, err := s.hospitals.GetByID(ctx, hospitalID)
	if err != nil {
		return apperror.Wrap(apperror.KindNotFound, err, "hospital not found")
	}
	if h.UserID != ownerUserID {
		return apperror.New(apperror.KindForbidden, "hospital does not belong to the signed-in user")
	}
	return nil
}
