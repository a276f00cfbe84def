package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/soundhub/user-service/internal/core/domain"
	"github.com/soundhub/user-service/internal/core/ports"
)

// AccountStore validates identifiers and filters update payloads before
// handing each call to the repository. It holds no state of its own.
type AccountStore struct {
	accounts ports.AccountRepository
	artists  ports.ArtistRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewAccountStore(accounts ports.AccountRepository, artists ports.ArtistRepository, log zerolog.Logger) *AccountStore {
	return &AccountStore{
		accounts: accounts,
		artists:  artists,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountStore) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	return s.accounts.Insert(ctx, account)
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if email == "" {
		return nil, nil
	}
	return absentIfNotFound(s.accounts.FindOne(ctx, ports.AccountFilter{Email: email}))
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, ok := s.parseID("find", id)
	if !ok {
		return nil, nil
	}
	return absentIfNotFound(s.accounts.FindByID(ctx, oid))
}

// FindByIDWithArtist loads the account and resolves its artist reference.
// A dangling reference leaves Artist nil, the account is still returned.
func (s *AccountStore) FindByIDWithArtist(ctx context.Context, id string) (*domain.Account, error) {
	oid, ok := s.parseID("find_with_artist", id)
	if !ok {
		return nil, nil
	}
	account, err := absentIfNotFound(s.accounts.FindByID(ctx, oid))
	if err != nil || account == nil || !account.HasArtist() {
		return account, err
	}

	artist, err := s.artists.FindByID(ctx, *account.ArtistID)
	if err != nil {
		if errors.Is(err, domain.ErrArtistNotFound) {
			return account, nil
		}
		return nil, err
	}
	account.Artist = artist
	return account, nil
}

// Update writes the whitelisted subset of changes and refreshes updatedAt.
// Keys outside the whitelist are dropped without error. A whitelisted value
// of the wrong shape fails the whole update with ErrInvalidFieldValue and
// nothing is written.
func (s *AccountStore) Update(ctx context.Context, id string, changes map[string]any) (*domain.Account, error) {
	oid, ok := s.parseID("update", id)
	if !ok {
		return nil, nil
	}

	set := make(map[string]any, len(changes)+1)
	for key, value := range changes {
		field, ok := domain.ParseUpdatableField(key)
		if !ok {
			s.log.Debug().Str("account_id", id).Str("key", key).Msg("update key not allowed, dropped")
			continue
		}
		coerced, err := field.Coerce(value)
		if err != nil {
			return nil, err
		}
		set[field.Key()] = coerced
	}
	set[domain.KeyUpdatedAt] = s.now()

	return absentIfNotFound(s.accounts.UpdateByID(ctx, oid, ports.AccountChange{Set: set}))
}

// LinkToArtist stores the artist reference on the account. The artist itself
// is not looked up.
func (s *AccountStore) LinkToArtist(ctx context.Context, accountID, artistID string) (*domain.Account, error) {
	oid, ok := s.parseID("link_artist", accountID)
	if !ok {
		return nil, nil
	}
	ref, err := domain.ParseID(artistID)
	if err != nil {
		return nil, domain.ErrInvalidReference
	}

	return absentIfNotFound(s.accounts.UpdateByID(ctx, oid, ports.AccountChange{
		Set: map[string]any{
			domain.KeyArtistID:  ref,
			domain.KeyUpdatedAt: s.now(),
		},
	}))
}

func (s *AccountStore) FindByRole(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	return s.accounts.Find(ctx, ports.AccountFilter{Role: role})
}

func (s *AccountStore) FindBandsWithoutArtist(ctx context.Context) ([]*domain.Account, error) {
	return s.accounts.Find(ctx, ports.AccountFilter{Role: domain.RoleBand, WithoutArtist: true})
}

func (s *AccountStore) FollowArtist(ctx context.Context, userID, artistID string) (*domain.Account, error) {
	return s.addToSet(ctx, "follow", userID, domain.FieldFollowing, artistID)
}

func (s *AccountStore) UnfollowArtist(ctx context.Context, userID, artistID string) (*domain.Account, error) {
	return s.pull(ctx, "unfollow", userID, domain.FieldFollowing, artistID)
}

func (s *AccountStore) LikeTrack(ctx context.Context, userID, trackID string) (*domain.Account, error) {
	return s.addToSet(ctx, "like", userID, domain.FieldLikedTracks, trackID)
}

func (s *AccountStore) UnlikeTrack(ctx context.Context, userID, trackID string) (*domain.Account, error) {
	return s.pull(ctx, "unlike", userID, domain.FieldLikedTracks, trackID)
}

// Delete removes the account and returns it. Nothing referencing the account
// is touched.
func (s *AccountStore) Delete(ctx context.Context, id string) (*domain.Account, error) {
	oid, ok := s.parseID("delete", id)
	if !ok {
		return nil, nil
	}
	return absentIfNotFound(s.accounts.DeleteByID(ctx, oid))
}

func (s *AccountStore) addToSet(ctx context.Context, op, userID string, field domain.UpdatableField, member string) (*domain.Account, error) {
	oid, ok := s.parseID(op, userID)
	if !ok {
		return nil, nil
	}
	return absentIfNotFound(s.accounts.UpdateByID(ctx, oid, ports.AccountChange{
		Set:      map[string]any{domain.KeyUpdatedAt: s.now()},
		AddToSet: map[string]string{field.Key(): member},
	}))
}

func (s *AccountStore) pull(ctx context.Context, op, userID string, field domain.UpdatableField, member string) (*domain.Account, error) {
	oid, ok := s.parseID(op, userID)
	if !ok {
		return nil, nil
	}
	return absentIfNotFound(s.accounts.UpdateByID(ctx, oid, ports.AccountChange{
		Set:  map[string]any{domain.KeyUpdatedAt: s.now()},
		Pull: map[string]string{field.Key(): member},
	}))
}

func (s *AccountStore) parseID(op, raw string) (primitive.ObjectID, bool) {
	id, err := domain.ParseID(raw)
	if err != nil {
		s.log.Debug().Str("op", op).Str("id", raw).Msg("malformed account id")
		return id, false
	}
	return id, true
}

// absentIfNotFound folds the repository's not-found sentinel into the
// (nil, nil) absence result.
func absentIfNotFound(account *domain.Account, err error) (*domain.Account, error) {
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}
