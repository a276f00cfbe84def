package ports

import (
	"context"

	"github.com/soundhub/user-service/internal/core/domain"
)

// AccountStore is the account data-access façade used by the transport layer.
//
// Every single-account method returns (nil, nil) when the identifier is
// malformed or nothing matches; callers cannot tell the two apart. Errors are
// reserved for failures of the backing store and for Update values that do
// not fit their field (domain.ErrInvalidFieldValue).
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByIDWithArtist(ctx context.Context, id string) (*domain.Account, error)
	// Update applies only whitelisted keys of changes; the rest are dropped.
	Update(ctx context.Context, id string, changes map[string]any) (*domain.Account, error)
	LinkToArtist(ctx context.Context, accountID, artistID string) (*domain.Account, error)
	FindByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error)
	FindBandsWithoutArtist(ctx context.Context) ([]*domain.Account, error)
	FollowArtist(ctx context.Context, userID, artistID string) (*domain.Account, error)
	UnfollowArtist(ctx context.Context, userID, artistID string) (*domain.Account, error)
	LikeTrack(ctx context.Context, userID, trackID string) (*domain.Account, error)
	UnlikeTrack(ctx context.Context, userID, trackID string) (*domain.Account, error)
	Delete(ctx context.Context, id string) (*domain.Account, error)
}

// ProfileService applies an account holder's own profile edits.
type ProfileService interface {
	Update(ctx context.Context, id string, changes map[string]any) (*domain.Account, error)
}
