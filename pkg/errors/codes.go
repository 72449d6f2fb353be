package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_012"
)

// Aliases
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Ordering Module Error Codes
const (
	ErrCodeInvalidQuantity  ErrorCode = "ORD_001"
	ErrCodeParseFailure     ErrorCode = "ORD_002"
	ErrCodeUnknownButton    ErrorCode = "ORD_003"
	ErrCodeDuplicateTurn    ErrorCode = "ORD_004"
	ErrCodeEmptyCart        ErrorCode = "ORD_005"
	ErrCodeSessionNotFound  ErrorCode = "ORD_006"
	ErrCodeSessionLocked    ErrorCode = "ORD_007"
	ErrCodeCatalogInvalid   ErrorCode = "ORD_008"
	ErrCodeOrderNotFound    ErrorCode = "ORD_009"
	ErrCodeOrderSinkFailure ErrorCode = "ORD_010"
)

// Infrastructure Error Codes
const (
	ErrCodeDatabaseError   ErrorCode = "INFRA_001"
	ErrCodeCacheError      ErrorCode = "INFRA_002"
	ErrCodeMessagingError  ErrorCode = "INFRA_003"
	ErrCodeExternalService ErrorCode = "INFRA_004"
	ErrCodeConfigInvalid   ErrorCode = "INFRA_005"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,

	ErrCodeInvalidQuantity:  http.StatusUnprocessableEntity,
	ErrCodeParseFailure:     http.StatusUnprocessableEntity,
	ErrCodeUnknownButton:    http.StatusBadRequest,
	ErrCodeDuplicateTurn:    http.StatusConflict,
	ErrCodeEmptyCart:        http.StatusConflict,
	ErrCodeSessionNotFound:  http.StatusNotFound,
	ErrCodeSessionLocked:    http.StatusLocked,
	ErrCodeCatalogInvalid:   http.StatusInternalServerError,
	ErrCodeOrderNotFound:    http.StatusNotFound,
	ErrCodeOrderSinkFailure: http.StatusBadGateway,

	ErrCodeDatabaseError:   http.StatusInternalServerError,
	ErrCodeCacheError:      http.StatusInternalServerError,
	ErrCodeMessagingError:  http.StatusBadGateway,
	ErrCodeExternalService: http.StatusBadGateway,
	ErrCodeConfigInvalid:   http.StatusInternalServerError,
}

// ErrorCodeMessage maps error codes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeInvalidQuantity:  "invalid quantity",
	ErrCodeParseFailure:     "could not understand the message",
	ErrCodeUnknownButton:    "unknown or stale button",
	ErrCodeDuplicateTurn:    "duplicate message ignored",
	ErrCodeEmptyCart:        "cart is empty",
	ErrCodeSessionNotFound:  "session not found",
	ErrCodeSessionLocked:    "session is busy",
	ErrCodeCatalogInvalid:   "menu catalog is invalid",
	ErrCodeOrderNotFound:    "order not found",
	ErrCodeOrderSinkFailure: "failed to publish completed order",

	ErrCodeDatabaseError:   "database error",
	ErrCodeCacheError:      "cache error",
	ErrCodeMessagingError:  "messaging error",
	ErrCodeExternalService: "external service error",
	ErrCodeConfigInvalid:   "invalid configuration",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
