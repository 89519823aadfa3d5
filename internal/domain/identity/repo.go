package identity

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for user accounts. GetByEmail
// returns (nil, nil) when no account exists; absence is a normal outcome
// for both signup uniqueness checks and signin.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
