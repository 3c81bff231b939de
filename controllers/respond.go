package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jdgroup-ug/storefront/apperrors"
	"github.com/jdgroup-ug/storefront/clients/platform"
	"github.com/jdgroup-ug/storefront/storage"
)

// respondError maps an error to an HTTP response. Platform errors pass
// through with their own message; 5xx from the platform becomes 502 so
// upstream failures are distinguishable from our own.
func respondError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error", "fields": fields})
		return
	}

	if errors.Is(err, storage.ErrCVTooLarge) || errors.Is(err, storage.ErrCVType) ||
		errors.Is(err, storage.ErrImageTooLarge) || errors.Is(err, storage.ErrImageType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Checked before the platform error: a handler that wrapped a platform
	// failure has already chosen the status and message to serve.
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": apiErr.Message})
		return
	}

	c.JSON(apperrors.ErrInternalServer.Code, gin.H{"error": apperrors.ErrInternalServer.Message})
}
