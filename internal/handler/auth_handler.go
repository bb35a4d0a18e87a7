package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vidtube/internal/auth"
	apperrors "vidtube/internal/errors"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/service"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// AuthHandler handles registration and session endpoints.
type AuthHandler struct {
	authService service.AuthService
	tokens      *auth.TokenService
	uploader    media.Uploader
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, tokens *auth.TokenService, uploader media.Uploader) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, uploader: uploader}
}

// RegisterRequest represents a user registration request. Avatar and cover
// image arrive as optional multipart files alongside these fields.
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=64,alphanum"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	FullName string `json:"fullName" form:"fullName" validate:"required"`
}

// LoginRequest represents a login request. Either username or email must be
// set; the service reports MissingCredentials when both are absent.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Password string `json:"password" form:"password"`
}

// RefreshRequest carries a refresh token in the body for clients that do not
// use the cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept mpfd
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param fullName formData string true "Full name"
// @Param avatar formData file false "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} model.Response
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	}

	ctx := c.Request().Context()
	if data, ok, err := readFormImage(c, "avatar"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	} else if ok {
		url, err := h.uploader.UploadImage(ctx, media.KindAvatar, data)
		if err != nil {
			return writeError(c, err)
		}
		in.AvatarURL = url
	}
	if data, ok, err := readFormImage(c, "coverImage"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	} else if ok {
		url, err := h.uploader.UploadImage(ctx, media.KindCover, data)
		if err != nil {
			return writeError(c, err)
		}
		in.CoverImageURL = url
	}

	user, err := h.authService.Register(ctx, in)
	if err != nil {
		return writeError(c, err)
	}

	return respond(c, http.StatusCreated, user, "user registered successfully")
}

// Login godoc
// @Summary Login with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} model.Response
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	return respond(c, http.StatusOK, result, "logged in successfully")
}

// Refresh godoc
// @Summary Rotate the refresh token
// @Description Reads the refresh token from the cookie or the request body.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token"
// @Success 200 {object} model.Response
// @Failure 401 {object} model.ErrorResponse
// @Router /users/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := ""
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		var req RefreshRequest
		if err := c.Bind(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	pair, err := h.authService.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return writeError(c, err)
	}

	h.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	return respond(c, http.StatusOK, pair, "access token refreshed")
}

// Logout godoc
// @Summary Logout current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Response
// @Failure 401 {object} model.ErrorResponse
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := currentClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.authService.Logout(c.Request().Context(), claims.UserID); err != nil {
		return writeError(c, err)
	}

	h.clearAuthCookies(c)
	return respond(c, http.StatusOK, nil, "logged out successfully")
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Old and new passwords"
// @Success 200 {object} model.Response
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /users/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims := currentClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return writeError(c, err)
	}

	// the refresh token was revoked, so the cookies are stale now
	h.clearAuthCookies(c)
	return respond(c, http.StatusOK, nil, "password changed successfully")
}

func (h *AuthHandler) setAuthCookies(c echo.Context, accessToken, refreshToken string) {
	setCookie(c, accessCookieName, accessToken, int(h.tokens.AccessTTL().Seconds()))
	setCookie(c, refreshCookieName, refreshToken, int(h.tokens.RefreshTTL().Seconds()))
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	setCookie(c, accessCookieName, "", -1)
	setCookie(c, refreshCookieName, "", -1)
}

func setCookie(c echo.Context, name, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// writeError renders a domain error as the error envelope with its mapped
// status code.
func writeError(c echo.Context, err error) error {
	he := apperrors.MapErrorToHTTP(err)
	return c.JSON(he.StatusCode, he.ToResponse())
}

// respond renders the success envelope.
func respond(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, model.Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}
