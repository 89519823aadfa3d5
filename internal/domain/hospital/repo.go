package hospital

import (
	"context"

	"github.com/google/uuid"
)

type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	// GetByUserID returns the hospital owned by the given user, or
	// (nil, nil) when the user owns none. Absence is not an error.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Hospital, error)
	// ListAll returns every hospital with its doctors attached, ordered by
	// creation time descending.
	ListAll(ctx context.Context) ([]*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Doctor, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
}
