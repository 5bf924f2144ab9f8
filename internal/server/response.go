package server

import (
	"context"
	"errors"
	"net/http"

	figmabridge "github.com/kataras/figma-bridge"
	"github.com/kataras/figma-bridge/pkg/figma"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Error: &errorBody{Message: message}})
}

// failErr records err on the context and answers with its mapped status.
func failErr(c *gin.Context, err error) {
	_ = c.Error(err)
	fail(c, statusFor(err), err.Error())
}

// statusFor maps pipeline errors to HTTP statuses. Figma's own 401, 403 and 404 are
// passed through; any other Figma failure is a bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, figmabridge.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, figmabridge.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	var apiErr *figma.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return apiErr.StatusCode
		default:
			return http.StatusBadGateway
		}
	}

	return http.StatusInternalServerError
}
