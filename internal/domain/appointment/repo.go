package appointment

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for appointments. Lists are ordered
// by creation time descending (newest first).
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	SetRating(ctx context.Context, id uuid.UUID, rating int, review string) error

	// RatingsByDoctor and RatingsByHospital return every non-null rating
	// referencing the entity, for aggregate recomputation.
	RatingsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]int, error)
	RatingsByHospital(ctx context.Context, hospitalID uuid.UUID) ([]int, error)
}
