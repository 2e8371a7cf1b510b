// Package cloud is the HTTP client for the Topband vendor cloud.
//
// It covers the account API (login, token refresh, self info, family
// list) and the device API (per-family device list with full point
// snapshots). Every response uses the vendor envelope
// {status, message, data}; a non-zero status is an API error even when
// the HTTP status is 200.
//
// Authentication is a JWT pair. The access token rides in the
// "authorization" header of authenticated calls and doubles as the MQTT
// broker credential. EnsureAuthenticated inspects the token's exp claim
// (unverified parse, the bridge is the token's audience not its issuer)
// and refreshes ahead of expiry, falling back to a full login. The pair
// persists in a single-row SQLite table so restarts skip the login
// round-trip.
package cloud
