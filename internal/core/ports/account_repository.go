package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/soundhub/user-service/internal/core/domain"
)

// AccountFilter carries equality filters for account lookups.
// Zero-valued fields are not applied.
type AccountFilter struct {
	Email         string
	Role          domain.Role
	WithoutArtist bool // artistId must be absent from the document
}

// AccountChange is a single-document mutation. Keys are document keys; the
// three groups map onto $set, $addToSet and $pull respectively.
type AccountChange struct {
	Set      map[string]any
	AddToSet map[string]string
	Pull     map[string]string
}

// AccountRepository defines persistence operations for accounts.
// Lookups by identifier return domain.ErrAccountNotFound when nothing matches.
type AccountRepository interface {
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindOne(ctx context.Context, filter AccountFilter) (*domain.Account, error)
	Find(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Account, error)
	// UpdateByID applies change atomically and returns the post-update document.
	UpdateByID(ctx context.Context, id primitive.ObjectID, change AccountChange) (*domain.Account, error)
	// DeleteByID removes the document and returns it as it was before removal.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*domain.Account, error)
}

// ArtistRepository resolves artist references. Artists are owned by another
// service, so this side is read-only.
type ArtistRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Artist, error)
}
