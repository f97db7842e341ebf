package handler

import (
	"errors"
	"log"
	"net/http"

	"worksync/internal/middleware"
	"worksync/internal/service"
	"worksync/pkg/response"
	"worksync/pkg/worksync"

	"github.com/gin-gonic/gin"
)

// actorFrom reads the caller identity set by middleware.Authenticate.
func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		ID:   c.GetUint(middleware.ContextUserID),
		Role: c.GetString(middleware.ContextUserRole),
	}
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		status, msg = http.StatusNotFound, "Request not found"
	case errors.Is(err, service.ErrProductNotFound):
		status, msg = http.StatusNotFound, "Product not found"
	case errors.Is(err, service.ErrSuggestionNotFound):
		status, msg = http.StatusNotFound, "Suggestion not found"
	case errors.Is(err, service.ErrUserNotFound):
		status, msg = http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrAPIKeyNotFound):
		status, msg = http.StatusNotFound, "API key not found"
	case errors.Is(err, service.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, worksync.ErrInvalidTransition),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrProductExists):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, response.Error(status, msg))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
