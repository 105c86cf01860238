package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// errorMapping translates one sentinel into an HTTP response
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first match wins
var errorMappings = []errorMapping{
	// not found
	{apperrors.ErrInviteNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Invalid code"},
	{apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	// authentication
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},

	// access
	{apperrors.ErrNotApproved, http.StatusForbidden, dto.ErrorCodeNotApproved, "Your profile is awaiting approval"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},

	// bad input
	{apperrors.ErrRowsRequired, http.StatusBadRequest, dto.ErrorCodeBadRequest, "rows required"},
	{apperrors.ErrDuplicateEmail, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Duplicate emails in import"},
	{apperrors.ErrInvalidCSV, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Invalid CSV file"},
	{apperrors.ErrMissingInviteCode, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Missing invite code"},
	{apperrors.ErrNoStagedProfile, http.StatusBadRequest, dto.ErrorCodeBadRequest, "No submitted profile to approve"},
	{apperrors.ErrEventNotPublished, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Event is not published"},
	{apperrors.ErrRegistrationNotRequired, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Event does not require registration"},
	{apperrors.ErrEventFull, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Event is full"},
	{apperrors.ErrAlreadyRegistered, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Already registered for this event"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrInvalidEmail, http.StatusBadRequest, dto.ErrorCodeInvalidEmail, "Invalid email"},
	{apperrors.ErrInvalidPassword, http.StatusBadRequest, dto.ErrorCodeInvalidPassword, "Invalid password"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},

	// conflicts
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeConflict, "Invalid approval status transition"},
	{apperrors.ErrInviteAlreadyRedeemed, http.StatusConflict, dto.ErrorCodeConflict, "Invite already redeemed"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
}

// ErrorDetailFor returns the status and error body for err. A CustomError's
// message and details replace the defaults of the sentinel it wraps.
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, m.message)
		if ce, ok := apperrors.AsCustom(err); ok {
			if ce.Message != "" {
				detail.Message = ce.Message
			}
			if len(ce.Details) > 0 {
				if field, ok := ce.Details["field"].(string); ok {
					detail.Field = field
				}
				detail.Details = ce.Details
			}
		}
		if m.target == apperrors.ErrNotApproved && detail.Details == nil {
			detail.Details = gin.H{"redirect": PendingPath}
		}
		return m.status, detail
	}
	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
}

// HandleAPIError writes the error response for err and aborts the chain
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
