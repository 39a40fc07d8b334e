package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/internal/services"
	apperrors "github.com/novalearn/novalearn-server/pkg/errors"
	"github.com/novalearn/novalearn-server/pkg/mail"
	"github.com/novalearn/novalearn-server/pkg/messaging"
	"github.com/novalearn/novalearn-server/pkg/validator"
)

// accountKindParam parses the :kind path segment.
func accountKindParam(c *gin.Context) (models.AccountKind, bool) {
	switch c.Param("kind") {
	case "admin":
		return models.KindAdmin, true
	case "franchise":
		return models.KindFranchise, true
	case "staff":
		return models.KindStaff, true
	default:
		return "", false
	}
}

// mapServiceError translates service-layer sentinels into user-safe API
// errors. Anything unrecognised becomes a 500 with the cause preserved for
// the server-side log.
func mapServiceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrDuplicateEmail):
		return apperrors.ErrDuplicateEmail
	case errors.Is(err, services.ErrEmailDomainNotAllowed):
		return apperrors.NewBadRequest("email domain is not allowed for this portal")
	case errors.Is(err, services.ErrTokenNotFound):
		return apperrors.ErrTokenNotFound
	case errors.Is(err, services.ErrTokenExpired):
		return apperrors.ErrTokenExpired
	case errors.Is(err, services.ErrInvalidCredentials):
		return apperrors.ErrInvalidCredentials
	case errors.Is(err, services.ErrAccountNotActive):
		return apperrors.New("ACCOUNT_NOT_ACTIVE", "Account is not active", 403)
	case errors.Is(err, services.ErrUnknownKind):
		return apperrors.NewBadRequest("unknown account kind")
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrBlogPostNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrGalleryImageNotFound),
		errors.Is(err, services.ErrPortfolioItemNotFound),
		errors.Is(err, services.ErrTestimonialNotFound),
		errors.Is(err, services.ErrRegistrationNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrScheduleNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, services.ErrDuplicateSlug):
		return apperrors.New("DUPLICATE_SLUG", "Slug already in use", 409)
	case errors.Is(err, mail.ErrSMTPDisabled), errors.Is(err, messaging.ErrMessagingDisabled):
		return apperrors.ErrServiceNotConfigured
	case errors.Is(err, services.ErrBadDayOfWeek):
		return apperrors.NewBadRequest("day_of_week must be a weekday name")
	default:
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return apperrors.NewBadRequest(ve.Error())
		}
		return apperrors.ErrInternalServer.WithInternal(err)
	}
}
