package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
	"github.com/polkiloo/fournil/internal/server/http/middleware"
)

// CurrentClientID extracts authenticated client identifier from context.
func CurrentClientID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.ClientIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// StatusFor maps a domain error to the HTTP status returned to clients.
func StatusFor(err error) int {
	switch domainErrors.KindOf(err) {
	case domainErrors.KindValidation:
		return http.StatusUnprocessableEntity
	case domainErrors.KindConflict, domainErrors.KindIntegrity:
		return http.StatusConflict
	case domainErrors.KindNotFound:
		return http.StatusNotFound
	case domainErrors.KindAccess:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

var errMalformed = errors.New("malformed request")

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errMalformed.Error()})
		return false
	}
	return true
}

// pathID reads a positive numeric path parameter. It answers 400 otherwise.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
