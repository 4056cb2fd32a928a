// Package common contains shared constants and sentinel errors used across
// useradmin components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// AdminRole is the role a session must carry to get past the login screen.
const AdminRole = "ROLE_ADMIN"

// Keys of the persisted session in the local session table.
const (
	SessionTokenKey = "token"
	SessionEmailKey = "email"
	SessionRolesKey = "roles"
)
