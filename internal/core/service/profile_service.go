package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/soundhub/user-service/internal/core/domain"
	"github.com/soundhub/user-service/internal/core/ports"
)

// ProfileService applies self-service profile edits. It holds an email change
// to the rules Register enforces before the store writes it.
type ProfileService struct {
	accounts ports.AccountStore
	validate *validator.Validate
	log      zerolog.Logger
}

func NewProfileService(accounts ports.AccountStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		accounts: accounts,
		validate: validator.New(),
		log:      log,
	}
}

// Update normalises and checks a new email, then hands the changes to the
// store. An email already held by another account fails with
// ErrAccountExists. Other keys pass through untouched, and a malformed id
// is absent as it is for the store.
func (s *ProfileService) Update(ctx context.Context, id string, changes map[string]any) (*domain.Account, error) {
	raw, ok := changes[string(domain.FieldEmail)]
	if !ok {
		return s.accounts.Update(ctx, id, changes)
	}
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, nil
	}
	str, ok := raw.(string)
	if !ok {
		return nil, errInvalidEmail
	}

	email := normalizeEmail(str)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, errInvalidEmail
	}

	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != oid {
		s.log.Info().Str("account_id", id).Msg("email change rejected, address in use")
		return nil, domain.ErrAccountExists
	}

	normalized := make(map[string]any, len(changes))
	for key, value := range changes {
		normalized[key] = value
	}
	normalized[string(domain.FieldEmail)] = email
	return s.accounts.Update(ctx, id, normalized)
}

var errInvalidEmail = fmt.Errorf("%w: %s", domain.ErrInvalidFieldValue, domain.FieldEmail)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
