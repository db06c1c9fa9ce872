package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"fleetops/dashboard/internal/constants"
)

// ProviderError represents an external service failure
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a timeout-class failure.
func IsTimeout(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Code == constants.ErrCodeTimeout {
		return true
	}
	return isTimeoutCause(err)
}

// IsNoMatch reports whether the service answered but found nothing.
func IsNoMatch(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == constants.ErrCodeNoMatch
}

func isTimeoutCause(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// transportError classifies a failed round trip.
func transportError(err error) *ProviderError {
	code := constants.ErrCodeNetworkError
	if isTimeoutCause(err) {
		code = constants.ErrCodeTimeout
	}
	return &ProviderError{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		Err:     err,
	}
}

// buildHTTPError creates appropriate error based on status code
func buildHTTPError(statusCode int, endpoint string, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details: body,
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeResourceNotFound,
			Message: fmt.Sprintf("Resource not found: %s", endpoint),
			Details: body,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	case http.StatusBadRequest:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("Bad request to %s", endpoint),
			Details: body,
		}
	case http.StatusGatewayTimeout:
		return &ProviderError{
			Code:    constants.ErrCodeTimeout,
			Message: constants.GetErrorMessage(constants.ErrCodeTimeout),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: fmt.Sprintf("HTTP %d from %s: %s", statusCode, endpoint, body),
			Details: body,
		}
	}
}
