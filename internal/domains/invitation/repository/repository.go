package repository

import (
	"context"

	"invitation-backend/internal/domains/invitation"
)

// Repository is the invitation document store. Create assigns and returns
// the generated identifier; GetByID returns invitation.ErrNotFound when no
// record exists and invitation.ErrUnavailable on transport failure.
type Repository interface {
	Create(ctx context.Context, inv *invitation.PersistedInvitation) (string, error)
	GetByID(ctx context.Context, id string) (*invitation.PersistedInvitation, error)
}
