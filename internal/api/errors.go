package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/forum-api/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps an error to its HTTP status. Unclassified errors are logged and hidden.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuthorization:
		status = http.StatusForbidden
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var appErr *apperr.Error
	errors.As(err, &appErr)
	body := gin.H{"error": appErr.Message}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	c.JSON(status, body)
}

// parseID reads a positive integer path parameter, answering 400 when it is malformed
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
