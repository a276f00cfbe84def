package handler

import "github.com/soundhub/user-service/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=user band"`
	BandName string `json:"bandName" validate:"required_if=Role band"`
	Genre    string `json:"genre"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token   string          `json:"token,omitempty"`
	Account *domain.Account `json:"account,omitempty"`
}

type linkArtistRequest struct {
	ArtistID string `json:"artistId" validate:"required"`
}

type accountListResponse struct {
	Accounts []*domain.Account `json:"accounts"`
	Count    int               `json:"count"`
}

func newAccountList(accounts []*domain.Account) accountListResponse {
	return accountListResponse{Accounts: accounts, Count: len(accounts)}
}
