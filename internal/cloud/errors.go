package cloud

import "errors"

// Domain-specific errors for cloud API operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrUnauthorized is returned on HTTP 401 (bad or expired credentials).
	ErrUnauthorized = errors.New("cloud: unauthorized, check credentials")

	// ErrForbidden is returned on HTTP 403 (insufficient permissions).
	ErrForbidden = errors.New("cloud: forbidden, insufficient permissions")

	// ErrAPIStatus is returned when the vendor envelope carries a
	// non-zero status despite a successful HTTP exchange.
	ErrAPIStatus = errors.New("cloud: api returned error status")

	// ErrRequestFailed is returned for transport-level failures.
	ErrRequestFailed = errors.New("cloud: request failed")

	// ErrNoFamilies is returned when the account has no families and no
	// home id was configured.
	ErrNoFamilies = errors.New("cloud: account has no families")

	// ErrNoToken is returned when an authenticated call is attempted
	// without a token.
	ErrNoToken = errors.New("cloud: not authenticated")
)
