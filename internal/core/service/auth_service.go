package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/soundhub/user-service/internal/core/domain"
	"github.com/soundhub/user-service/internal/core/ports"
)

// ReplayStore abstracts the idempotency store (Redis) used by Register.
type ReplayStore interface {
	Lookup(ctx context.Context, key string) (accountID string, found bool, err error)
	Remember(ctx context.Context, key, accountID string) error
}

// AuthService implements registration and login on top of the account store.
type AuthService struct {
	accounts  ports.AccountStore
	replay    ReplayStore
	log       zerolog.Logger
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService wires the service. replay may be nil, in which case
// Idempotency-Key headers are ignored.
func NewAuthService(accounts ports.AccountStore, replay ReplayStore, log zerolog.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:  accounts,
		replay:    replay,
		log:       log,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}
	if role == domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	if prior := s.replayed(ctx, in.IdempotencyKey); prior != nil {
		return &ports.RegisterResult{Account: prior, AlreadyExisted: true}, nil
	}

	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:    email,
		Username: in.Username,
		Password: string(hash),
		Role:     role,
	}
	if role == domain.RoleBand {
		account.BandName = in.BandName
		account.Genre = in.Genre
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" && s.replay != nil {
		if err := s.replay.Remember(ctx, in.IdempotencyKey, created.ID.Hex()); err != nil {
			s.log.Warn().Err(err).Str("account_id", created.ID.Hex()).Msg("failed to record idempotency key")
		}
	}

	s.log.Info().Str("account_id", created.ID.Hex()).Str("role", string(role)).Msg("account registered")
	return &ports.RegisterResult{Account: created}, nil
}

// replayed returns the account an earlier request with the same key created.
// Lookup failures are logged and treated as a miss.
func (s *AuthService) replayed(ctx context.Context, key string) *domain.Account {
	if key == "" || s.replay == nil {
		return nil
	}
	id, found, err := s.replay.Lookup(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("idempotency lookup failed, registering anyway")
		return nil
	}
	if !found {
		return nil
	}
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("account_id", id).Msg("replayed account lookup failed")
		return nil
	}
	return account
}

// Login checks the password against the stored hash and issues a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if account == nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

func (s *AuthService) generateToken(a *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   a.ID.Hex(),
		"role":  string(a.Role),
		"email": a.Email,
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
