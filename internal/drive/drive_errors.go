package drive

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

var (
	// ErrNotFound is returned when the remote file or folder does not exist.
	ErrNotFound = errors.New("drive: not found")

	// ErrUnavailable is returned when the push notification endpoint cannot
	// accept a channel registration.
	ErrUnavailable = errors.New("drive: push channel unavailable")

	// ErrNoToken is returned when no access token exists for the owner.
	ErrNoToken = errors.New("drive: no access token for owner")
)

// APIError is the error payload returned by the storage provider.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("drive api error: %d %s - %s", e.Code, e.Status, e.Message)
}

// handleAPIError is a helper that handles the common request error pattern.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s %w", operation, requestErr)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", operation, ErrNotFound)
	}

	// got a response, but api returned an error
	if resp.IsErrorState() {
		if err, ok := resp.ErrorResult().(*APIError); ok && err.Message != "" {
			return fmt.Errorf("%s: %w", operation, err)
		}
		return fmt.Errorf("drive api error: %s %s", operation, resp.Status)
	}

	return nil
}
