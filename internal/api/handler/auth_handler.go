package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soundhub/user-service/internal/api/metrics"
	"github.com/soundhub/user-service/internal/core/domain"
	"github.com/soundhub/user-service/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a registration safely.
const HeaderIdempotencyKey = "Idempotency-Key"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user or band account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string           false  "Retry key; a repeat returns the first account"
// @Param        body             body      registerRequest  true   "Registration details"
// @Success      201              {object}  authResponse
// @Success      200              {object}  authResponse     "Replayed registration"
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(req.Role, "rejected").Inc()
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		Role:           domain.Role(req.Role),
		BandName:       req.BandName,
		Genre:          req.Genre,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(req.Role, "rejected").Inc()
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid registration details")
		}
		return err
	}

	role := string(res.Account.Role)
	if res.AlreadyExisted {
		metrics.RegistrationsTotal.WithLabelValues(role, "replayed").Inc()
		return c.JSON(http.StatusOK, authResponse{Account: res.Account})
	}
	metrics.RegistrationsTotal.WithLabelValues(role, "created").Inc()
	return c.JSON(http.StatusCreated, authResponse{Account: res.Account})
}

// Login authenticates an account and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, account, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, Account: account})
}
