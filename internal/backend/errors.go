package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrRequestFailed matches every non-2xx backend response.
var ErrRequestFailed = errors.New("request failed")

// maxErrorBody bounds how much of an error response is read looking for detail.
const maxErrorBody = 64 << 10

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

func (e *APIError) Unwrap() error {
	return ErrRequestFailed
}

func newAPIError(op string, resp *http.Response, generic string) *APIError {
	apiErr := &APIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Detail:     generic,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}
	// FastAPI validation errors put a list under detail.
	switch d := body.Detail.(type) {
	case string:
		if d != "" {
			apiErr.Detail = d
		}
	case nil:
	default:
		apiErr.Detail = fmt.Sprintf("%s: %v", generic, d)
	}
	return apiErr
}
