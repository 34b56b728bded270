// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
)

// statusForKind maps failure kinds to HTTP statuses. Unknown errors are
// internal.
func statusForKind(kind failure.Kind) int {
	switch kind {
	case failure.NotAuthenticated:
		return http.StatusUnauthorized
	case failure.PermissionDenied:
		return http.StatusForbidden
	case failure.EncounterAlreadyActive:
		return http.StatusConflict
	case failure.NoContacts, failure.InvalidContact, failure.LocationRequired,
		failure.PositionUnavailable, failure.Timeout, failure.Unsupported:
		return http.StatusBadRequest
	case failure.ChannelSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure kind and message as JSON. Internal
// errors get a generic message so collaborator detail never leaks.
func respondError(c *gin.Context, err error) {
	kind := failure.KindOf(err)
	status := statusForKind(kind)

	body := gin.H{"error": err.Error()}
	if kind != "" {
		body["kind"] = string(kind)
	}
	if status == http.StatusInternalServerError {
		body["error"] = "internal error"
	}
	c.JSON(status, body)
}
