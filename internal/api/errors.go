package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/inference"
	"github.com/youruser/mockupapp/internal/mockup"
	"github.com/youruser/mockupapp/internal/storage"
	"github.com/youruser/mockupapp/internal/util"
)

// errUpstream marks failures of services the handler depends on.
var errUpstream = errors.New("upstream request failed")

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	switch {
	case errors.As(err, new(*http.MaxBytesError)):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, inference.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, errUpstream):
		return http.StatusBadGateway
	case errors.Is(err, mockup.ErrInvalidInput),
		errors.Is(err, imagepkg.ErrUnsupportedURL),
		errors.Is(err, imagepkg.ErrBadDataURI),
		errors.Is(err, util.ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mockup.ErrNumericFailure):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status), "message": message})
}

// badRequest rejects a malformed request. Oversized bodies get 413.
func badRequest(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.As(err, new(*http.MaxBytesError)) {
		status = http.StatusRequestEntityTooLarge
	}
	abort(c, status, err.Error())
}

// fail reports err to the client. Server-side failures are logged and
// their details are kept out of the response.
func (h *Handlers) fail(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(message, "path", c.FullPath(), "err", err)
		abort(c, status, message)
		return
	}
	abort(c, status, err.Error())
}
