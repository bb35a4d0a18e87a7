package handler

import (
	"fmt"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"vidtube/internal/auth"
)

// maxImageBytes bounds uploaded avatar/cover files before decoding.
const maxImageBytes = 8 << 20

// currentClaims returns the access-token claims attached by the JWT
// middleware, or nil when the request is unauthenticated.
func currentClaims(c echo.Context) *auth.AccessClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*auth.AccessClaims)
	if !ok {
		return nil
	}
	return claims
}

// readFormImage reads the named multipart file. The second return is false
// when the field is absent.
func readFormImage(c echo.Context, field string) ([]byte, bool, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, false, nil
	}
	if fileHeader.Size > maxImageBytes {
		return nil, false, fmt.Errorf("%s file exceeds %d bytes", field, maxImageBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", field, err)
	}
	return data, true, nil
}
