package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/dukahub/storefront/pkg/errors"
)

// UpstreamErrorResponse mirrors the {success, message} body shape returned by
// the tenant backend on failures.
type UpstreamErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the body matches the backend's
// {success, message} format the message is preserved; otherwise the raw body
// is included. The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := ""
	var upstream UpstreamErrorResponse
	if json.Unmarshal(bodyBytes, &upstream) == nil && upstream.Message != "" {
		message = upstream.Message
	} else {
		message = string(bodyBytes)
	}

	// 4xx messages come from the backend's own validation and are shown to
	// the buyer as-is; only server-side failures get qualified.
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(message)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Conflict(message)
	case resp.StatusCode >= 500:
		return apperrors.Upstream(fmt.Errorf("%s server error (%d): %s", serviceName, resp.StatusCode, message))
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: fmt.Sprintf("%s: %s", serviceName, message),
			Status:  resp.StatusCode,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
