package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"vidtube/internal/auth"
	apperrors "vidtube/internal/errors"
	"vidtube/internal/model"
	"vidtube/internal/service"
)

type stubAuthService struct {
	loginResult *model.LoginResult
	refreshPair *model.TokenPair
	err         error

	loggedOut      []uint
	refreshedWith  string
	passwordChange [2]string
}

func (s *stubAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.User{Username: strings.ToLower(in.Username), Email: in.Email, FullName: in.FullName}, nil
}

func (s *stubAuthService) Login(ctx context.Context, username, email, password string) (*model.LoginResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.loginResult, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	s.refreshedWith = refreshToken
	if s.err != nil {
		return nil, s.err
	}
	return s.refreshPair, nil
}

func (s *stubAuthService) Logout(ctx context.Context, userID uint) error {
	s.loggedOut = append(s.loggedOut, userID)
	return s.err
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	s.passwordChange = [2]string{oldPassword, newPassword}
	return s.err
}

type stubUploader struct{}

func (stubUploader) UploadImage(ctx context.Context, kind string, data []byte) (string, error) {
	return "https://cdn.test/" + kind + "/x.jpg", nil
}

type testValidator struct {
	v *validator.Validate
}

func (t *testValidator) Validate(i interface{}) error {
	return t.v.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

func newAuthHandler(svc service.AuthService) *AuthHandler {
	tokens := auth.NewTokenService("a", 15*time.Minute, "r", 24*time.Hour)
	return NewAuthHandler(svc, tokens, stubUploader{})
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	res := http.Response{Header: rec.Header()}
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_LoginSetsCookies(t *testing.T) {
	stub := &stubAuthService{
		loginResult: &model.LoginResult{
			User:         model.User{ID: 1, Username: "alice"},
			AccessToken:  "access-123",
			RefreshToken: "refresh-456",
		},
	}
	h := newAuthHandler(stub)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		strings.NewReader(`{"username":"alice","password":"P@ss1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Login(e.NewContext(req, rec))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope model.Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusOK, envelope.StatusCode)
	assert.Equal(t, "logged in successfully", envelope.Message)

	accessCookie := cookieByName(rec, accessCookieName)
	refreshCookie := cookieByName(rec, refreshCookieName)
	assert.NotNil(t, accessCookie)
	assert.NotNil(t, refreshCookie)
	assert.Equal(t, "access-123", accessCookie.Value)
	assert.Equal(t, "refresh-456", refreshCookie.Value)
	assert.True(t, accessCookie.HttpOnly)
	assert.True(t, refreshCookie.Secure)
}

func TestAuthHandler_LoginErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown user", apperrors.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"wrong password", apperrors.ErrInvalidPassword, http.StatusUnauthorized, "INVALID_PASSWORD"},
		{"missing credentials", apperrors.ErrMissingCredentials, http.StatusBadRequest, "MISSING_CREDENTIALS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAuthHandler(&stubAuthService{err: tt.err})
			e := newTestEcho()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
				strings.NewReader(`{"username":"alice","password":"x"}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			assert.NoError(t, h.Login(e.NewContext(req, rec)))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var envelope model.ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, tt.wantStatus, envelope.StatusCode)
			assert.Equal(t, tt.wantCode, envelope.Code)
		})
	}
}

func TestAuthHandler_RefreshReadsCookie(t *testing.T) {
	stub := &stubAuthService{
		refreshPair: &model.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"},
	}
	h := newAuthHandler(stub)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "old-refresh"})
	rec := httptest.NewRecorder()

	assert.NoError(t, h.Refresh(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "old-refresh", stub.refreshedWith)

	refreshCookie := cookieByName(rec, refreshCookieName)
	assert.NotNil(t, refreshCookie)
	assert.Equal(t, "new-refresh", refreshCookie.Value)
}

func TestAuthHandler_RefreshReadsBodyWhenNoCookie(t *testing.T) {
	stub := &stubAuthService{
		refreshPair: &model.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"},
	}
	h := newAuthHandler(stub)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token",
		strings.NewReader(`{"refreshToken":"from-body"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	assert.NoError(t, h.Refresh(e.NewContext(req, rec)))
	assert.Equal(t, "from-body", stub.refreshedWith)
}

func TestAuthHandler_LogoutClearsCookies(t *testing.T) {
	stub := &stubAuthService{}
	h := newAuthHandler(stub)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &jwt.Token{Claims: &auth.AccessClaims{UserID: 7}})

	assert.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint{7}, stub.loggedOut)

	accessCookie := cookieByName(rec, accessCookieName)
	assert.NotNil(t, accessCookie)
	assert.Empty(t, accessCookie.Value)
	assert.Negative(t, accessCookie.MaxAge)
}

func TestAuthHandler_LogoutWithoutIdentity(t *testing.T) {
	h := newAuthHandler(&stubAuthService{})
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	rec := httptest.NewRecorder()

	err := h.Logout(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthHandler_ChangePasswordValidation(t *testing.T) {
	stub := &stubAuthService{}
	h := newAuthHandler(stub)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/change-password",
		strings.NewReader(`{"oldPassword":"old","newPassword":"short"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &jwt.Token{Claims: &auth.AccessClaims{UserID: 7}})

	err := h.ChangePassword(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	// service is never reached on validation failure
	assert.Equal(t, [2]string{}, stub.passwordChange)
}
