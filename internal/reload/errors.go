package reload

import (
	"net/http"

	"github.com/ofirwie/qlikfox/internal/transport"
)

// IsUnrecoverable reports whether a transport error cannot be cured by the
// getLatestForApp fallback: an auth failure or a missing resource will fail
// the secondary read the same way, so the poll loop surfaces it immediately
// instead of burning a fallback call.
func IsUnrecoverable(err error) bool {
	apiErr, ok := transport.AsAPIError(err)
	if !ok {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
