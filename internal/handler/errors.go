package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"society-be-svc/internal/service"
	"society-be-svc/pkg/logger"
	"society-be-svc/pkg/utils"
)

// statusFor maps a service error kind to an HTTP status code
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the envelope for err. Domain errors echo their message; anything
// else is logged and answered with fallback.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		utils.ErrorResponse(c, statusFor(svcErr.Kind), svcErr.Message, nil)
		return
	}

	log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
	utils.InternalServerErrorResponse(c, fallback, err)
}

// respondFormError is respondError for the public account forms, which report unknown
// flats and emails as bad input rather than missing resources
func respondFormError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) && svcErr.Kind == service.KindNotFound {
		utils.BadRequestResponse(c, svcErr.Message, nil)
		return
	}
	respondError(c, log, err, fallback)
}
