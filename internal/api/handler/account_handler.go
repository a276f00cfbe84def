package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soundhub/user-service/internal/api/metrics"
	"github.com/soundhub/user-service/internal/core/domain"
	"github.com/soundhub/user-service/internal/core/ports"
)

// AccountHandler exposes the account store over HTTP. An absent account,
// whether the id was malformed or simply unknown, renders as 404.
type AccountHandler struct {
	store    ports.AccountStore
	profiles ports.ProfileService
}

func NewAccountHandler(store ports.AccountStore, profiles ports.ProfileService) *AccountHandler {
	return &AccountHandler{store: store, profiles: profiles}
}

// Get handles GET /v1/accounts/:id.
//
// @Summary      Get an account by id
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Account id"
// @Param        expand  query     string  false  "Set to artist to resolve the linked artist"
// @Success      200     {object}  domain.Account
// @Failure      404     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /v1/accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var (
		account *domain.Account
		err     error
	)
	if c.QueryParam("expand") == "artist" {
		account, err = h.store.FindByIDWithArtist(ctx, id)
	} else {
		account, err = h.store.FindByID(ctx, id)
	}
	return respond(c, account, err)
}

// List handles GET /v1/accounts?email=… or ?role=….
//
// @Summary      Look up accounts by email or role
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  false  "Exact email"
// @Param        role   query     string  false  "user, band or admin"
// @Success      200    {object}  accountListResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if email := c.QueryParam("email"); email != "" {
		account, err := h.store.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		accounts := []*domain.Account{}
		if account != nil {
			accounts = append(accounts, account)
		}
		return c.JSON(http.StatusOK, newAccountList(accounts))
	}

	role := domain.Role(c.QueryParam("role"))
	if !role.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "email or a valid role is required")
	}
	accounts, err := h.store.FindByRole(ctx, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newAccountList(accounts))
}

// UnlinkedBands handles GET /v1/accounts/bands/unlinked.
//
// @Summary      List band accounts without an artist profile
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/accounts/bands/unlinked [get]
func (h *AccountHandler) UnlinkedBands(c echo.Context) error {
	accounts, err := h.store.FindBandsWithoutArtist(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newAccountList(accounts))
}

// Update handles PATCH /v1/accounts/:id. The body is a free-form object;
// keys outside the updatable set are ignored. A new email is normalised and
// must not belong to another account.
//
// @Summary      Update profile fields
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Account id"
// @Param        body  body      object          true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/accounts/{id} [patch]
func (h *AccountHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeSelf(c, id); err != nil {
		return err
	}

	var changes map[string]any
	if err := new(echo.DefaultBinder).BindBody(c, &changes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.profiles.Update(c.Request().Context(), id, changes)
	recordMutation("update", account, err)
	return respond(c, account, err)
}

// LinkArtist handles PUT /v1/accounts/:id/artist.
//
// @Summary      Link a band account to an artist profile
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      linkArtistRequest  true  "Artist reference"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/accounts/{id}/artist [put]
func (h *AccountHandler) LinkArtist(c echo.Context) error {
	var req linkArtistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.store.LinkToArtist(c.Request().Context(), c.Param("id"), req.ArtistID)
	recordMutation("link_artist", account, err)
	return respond(c, account, err)
}

// Follow handles PUT /v1/accounts/:id/following/:artistId.
//
// @Summary      Follow an artist
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true  "Account id"
// @Param        artistId  path      string  true  "Artist id"
// @Success      200       {object}  domain.Account
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/accounts/{id}/following/{artistId} [put]
func (h *AccountHandler) Follow(c echo.Context) error {
	return h.member(c, "follow", c.Param("artistId"), h.store.FollowArtist)
}

// Unfollow handles DELETE /v1/accounts/:id/following/:artistId.
//
// @Summary      Unfollow an artist
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true  "Account id"
// @Param        artistId  path      string  true  "Artist id"
// @Success      200       {object}  domain.Account
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/accounts/{id}/following/{artistId} [delete]
func (h *AccountHandler) Unfollow(c echo.Context) error {
	return h.member(c, "unfollow", c.Param("artistId"), h.store.UnfollowArtist)
}

// Like handles PUT /v1/accounts/:id/liked-tracks/:trackId.
//
// @Summary      Like a track
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Account id"
// @Param        trackId  path      string  true  "Track id"
// @Success      200      {object}  domain.Account
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/accounts/{id}/liked-tracks/{trackId} [put]
func (h *AccountHandler) Like(c echo.Context) error {
	return h.member(c, "like", c.Param("trackId"), h.store.LikeTrack)
}

// Unlike handles DELETE /v1/accounts/:id/liked-tracks/:trackId.
//
// @Summary      Remove a track like
// @Tags         social
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Account id"
// @Param        trackId  path      string  true  "Track id"
// @Success      200      {object}  domain.Account
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/accounts/{id}/liked-tracks/{trackId} [delete]
func (h *AccountHandler) Unlike(c echo.Context) error {
	return h.member(c, "unlike", c.Param("trackId"), h.store.UnlikeTrack)
}

// Delete handles DELETE /v1/accounts/:id.
//
// @Summary      Delete an account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id  path  string  true  "Account id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeSelf(c, id); err != nil {
		return err
	}

	account, err := h.store.Delete(c.Request().Context(), id)
	recordMutation("delete", account, err)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrAccountNotFound
	}
	return c.NoContent(http.StatusNoContent)
}

type memberOp func(ctx context.Context, accountID, member string) (*domain.Account, error)

func (h *AccountHandler) member(c echo.Context, op, member string, apply memberOp) error {
	id := c.Param("id")
	if err := authorizeSelf(c, id); err != nil {
		return err
	}

	account, err := apply(c.Request().Context(), id, member)
	recordMutation(op, account, err)
	return respond(c, account, err)
}

// respond renders account, mapping absence to ErrAccountNotFound.
func respond(c echo.Context, account *domain.Account, err error) error {
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrAccountNotFound
	}
	return c.JSON(http.StatusOK, account)
}

func recordMutation(op string, account *domain.Account, err error) {
	switch {
	case err != nil:
		return
	case account == nil:
		metrics.AccountMutationsTotal.WithLabelValues(op, "absent").Inc()
	default:
		metrics.AccountMutationsTotal.WithLabelValues(op, "applied").Inc()
	}
}
