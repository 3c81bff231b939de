package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is an error response from the platform, passed through to
// callers largely as-is. A human-readable message is substituted only when
// the response carried none.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("platform: %s (%s, status=%d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("platform: %s (status=%d)", e.Message, e.Status)
}

// IsNotFound reports whether err is a 404 from the platform.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		// The auth and rest surfaces use slightly different envelopes.
		var envelope struct {
			Message          string `json:"message"`
			Msg              string `json:"msg"`
			ErrorDescription string `json:"error_description"`
			Code             string `json:"code"`
		}
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Code = envelope.Code
			switch {
			case envelope.Message != "":
				apiErr.Message = envelope.Message
			case envelope.Msg != "":
				apiErr.Message = envelope.Msg
			case envelope.ErrorDescription != "":
				apiErr.Message = envelope.ErrorDescription
			}
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
