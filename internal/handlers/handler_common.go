package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerpro/ledgerpro_backend/internal/apperrors"
	"github.com/ledgerpro/ledgerpro_backend/internal/core/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/middleware"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError translates service errors into HTTP responses. Known domain
// errors keep their message; anything unexpected becomes a 500 with the
// fallback message and gets logged.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrDuplicateAccount),
		errors.Is(err, services.ErrDuplicateInvoiceNumber),
		errors.Is(err, services.ErrAccountReferenced),
		errors.Is(err, services.ErrInvalidStatusTransition),
		errors.Is(err, services.ErrPayRunAlreadyPosted),
		errors.Is(err, services.ErrStagedNotUnmatched):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrUnbalancedTransaction),
		errors.Is(err, services.ErrInvalidJournalLine),
		errors.Is(err, services.ErrCrossOrganizationRef),
		errors.Is(err, services.ErrInactiveAccount),
		errors.Is(err, services.ErrMissingDateRange),
		errors.Is(err, services.ErrInvoiceNotDraft),
		errors.Is(err, services.ErrInvoiceTotalsMismatch),
		errors.Is(err, services.ErrCustomerMissingEmail),
		errors.Is(err, services.ErrInvoiceNotSendable),
		errors.Is(err, services.ErrMissingHours),
		errors.Is(err, services.ErrNoValidEmployees),
		errors.Is(err, services.ErrInvalidPayRunStatus),
		errors.Is(err, services.ErrFeedNotConfigured):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// requireUserID pulls the authenticated user ID from the request context,
// aborting with 401 when absent.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
