package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vidtube/internal/media"
	"vidtube/internal/service"
)

// UserHandler handles profile and channel endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateAccountRequest represents a profile update request.
type UpdateAccountRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// CurrentUser godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Response
// @Failure 401 {object} model.ErrorResponse
// @Router /users/current-user [get]
func (h *UserHandler) CurrentUser(c echo.Context) error {
	claims := currentClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.userService.CurrentUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, user, "current user fetched")
}

// UpdateAccount godoc
// @Summary Update full name and email
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateAccountRequest true "Account fields"
// @Success 200 {object} model.Response
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /users/update-account [patch]
func (h *UserHandler) UpdateAccount(c echo.Context) error {
	claims := currentClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateAccount(c.Request().Context(), claims.UserID, req.FullName, req.Email)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, user, "account updated successfully")
}

// UpdateAvatar godoc
// @Summary Replace the current user's avatar
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} model.Response
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar", media.KindAvatar)
}

// UpdateCoverImage godoc
// @Summary Replace the current user's cover image
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} model.Response
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	return h.updateImage(c, "coverImage", media.KindCover)
}

func (h *UserHandler) updateImage(c echo.Context, field, kind string) error {
	claims := currentClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	data, ok, err := readFormImage(c, field)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, field+" file is required")
	}

	var user interface{}
	switch kind {
	case media.KindAvatar:
		user, err = h.userService.UpdateAvatar(c.Request().Context(), claims.UserID, data)
	case media.KindCover:
		user, err = h.userService.UpdateCoverImage(c.Request().Context(), claims.UserID, data)
	}
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, user, field+" updated successfully")
}

// ChannelProfile godoc
// @Summary Get a channel profile with subscriber stats
// @Tags channels
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} model.Response
// @Failure 404 {object} model.ErrorResponse
// @Router /users/c/{username} [get]
func (h *UserHandler) ChannelProfile(c echo.Context) error {
	username := c.Param("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	var viewerID uint
	if claims := currentClaims(c); claims != nil {
		viewerID = claims.UserID
	}

	profile, err := h.userService.ChannelProfile(c.Request().Context(), username, viewerID)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, profile, "channel profile fetched")
}

// Subscribe godoc
// @Summary Subscribe to a channel
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Param username path string true "Channel username"
// @Success 200 {object} model.Response
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /users/c/{username}/subscribe [post]
func (h *UserHandler) Subscribe(c echo.Context) error {
	return h.toggleSubscription(c, true)
}

// Unsubscribe godoc
// @Summary Unsubscribe from a channel
// @Tags channels
// @Produce json
// @Security BearerAuth
// @Param username path string true "Channel username"
// @Success 200 {object} model.Response
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /users/c/{username}/subscribe [delete]
func (h *UserHandler) Unsubscribe(c echo.Context) error {
	return h.toggleSubscription(c, false)
}

func (h *UserHandler) toggleSubscription(c echo.Context, subscribe bool) error {
	claims := currentClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	username := c.Param("username")
	ctx := c.Request().Context()

	var err error
	message := "subscribed successfully"
	if subscribe {
		err = h.userService.Subscribe(ctx, claims.UserID, username)
	} else {
		err = h.userService.Unsubscribe(ctx, claims.UserID, username)
		message = "unsubscribed successfully"
	}
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, http.StatusOK, nil, message)
}
