// Package apierr maps domain errors to HTTP statuses.
package apierr

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/sensible-care/sensible-push-server/domain"
)

var (
	ErrUnexpected     = errors.New("unexpected error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
)

var (
	mu       sync.RWMutex
	registry []entry
)

type entry struct {
	err    error
	status int
}

// Register binds err to an HTTP status. Lookups go through errors.Is, so
// wrapped errors resolve to the status of the registered sentinel.
func Register(err error, status int) error {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, entry{err: err, status: status})
	return err
}

func init() {
	Register(ErrInvalidRequest, http.StatusBadRequest)
	Register(ErrUnauthorized, http.StatusUnauthorized)
	Register(domain.ErrUserNotFound, http.StatusNotFound)
	Register(domain.ErrRecipientNotFound, http.StatusNotFound)
	Register(domain.ErrRelationNotFound, http.StatusNotFound)
	Register(domain.ErrEmailExists, http.StatusConflict)
	Register(domain.ErrRelationExists, http.StatusConflict)
	Register(domain.ErrSelfRelation, http.StatusBadRequest)
	Register(domain.ErrInvalidSelector, http.StatusBadRequest)
	Register(domain.ErrInvalidCredentials, http.StatusForbidden)
	Register(domain.ErrInvalidToken, http.StatusUnauthorized)
	Register(domain.ErrNoProviders, http.StatusServiceUnavailable)
}

// Status returns the registered status for err or 500.
func Status(err error) int {
	mu.RLock()
	defer mu.RUnlock()
	for _, e := range registry {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// Message hides the text of unregistered errors.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return ErrUnexpected.Error()
	}
	return err.Error()
}

// Abort writes the error body and stops the handler chain.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(Status(err), gin.H{
		"success": false,
		"error":   Message(err),
	})
}
