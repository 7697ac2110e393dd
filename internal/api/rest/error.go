package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest           ErrorCode = "bad_request"
	errCodeNotFound             ErrorCode = "not_found"
	errCodeValidationFailed     ErrorCode = "validation_failed"
	errCodeUnauthorized         ErrorCode = "unauthorized"
	errCodeForbidden            ErrorCode = "forbidden"
	errCodeAlreadyExists        ErrorCode = "already_exists"
	errCodePriceChanged         ErrorCode = "price_changed"
	errCodeNotListed            ErrorCode = "not_listed"
	errCodeBuyerIsOwner         ErrorCode = "buyer_is_owner"
	errCodeMissingHederaAccount ErrorCode = "missing_hedera_account"

	// Server errors (5xx)
	errCodeInternalError ErrorCode = "internal_error"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, "Validation failed", details)
}

// respondUnauthorized sends a 401 Unauthorized response
func respondUnauthorized(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusUnauthorized, errCodeUnauthorized, message, details...)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(message, append(fields, zap.Error(err))...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondDomainError maps known domain errors to HTTP responses. Unknown
// errors fall through to a 500.
func respondDomainError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNFTNotFound),
		errors.Is(err, domain.ErrChallengeNotFound),
		errors.Is(err, domain.ErrVerificationNotFound):
		respondWithError(c, http.StatusNotFound, errCodeNotFound, err.Error())

	case errors.Is(err, domain.ErrPriceChanged):
		respondWithError(c, http.StatusConflict, errCodePriceChanged, "The price changed since you last saw this piece")

	case errors.Is(err, domain.ErrNFTNotListed):
		respondWithError(c, http.StatusConflict, errCodeNotListed, "This piece is not listed for sale")

	case errors.Is(err, domain.ErrBuyerIsOwner):
		respondWithError(c, http.StatusConflict, errCodeBuyerIsOwner, "You already own this piece")

	case errors.Is(err, domain.ErrUserAlreadyExists):
		respondWithError(c, http.StatusConflict, errCodeAlreadyExists, "This wallet is already registered")

	case errors.Is(err, domain.ErrVerificationExists):
		respondWithError(c, http.StatusConflict, errCodeAlreadyExists, "You already have an open verification request")

	case errors.Is(err, domain.ErrVerificationClosed):
		respondWithError(c, http.StatusConflict, errCodeAlreadyExists, "This verification request was already reviewed")

	case errors.Is(err, domain.ErrMissingHederaAccount):
		respondWithError(c, http.StatusUnprocessableEntity, errCodeMissingHederaAccount, "Both parties need a Hedera account id on their profile")

	case errors.Is(err, domain.ErrChallengeExpired),
		errors.Is(err, domain.ErrChallengeConsumed),
		errors.Is(err, domain.ErrSignatureMismatch):
		respondWithError(c, http.StatusUnauthorized, errCodeUnauthorized, err.Error())

	case errors.Is(err, domain.ErrUserDeactivated):
		respondWithError(c, http.StatusForbidden, errCodeForbidden, "This account is deactivated")

	default:
		respondInternalError(c, err, message)
	}
}
