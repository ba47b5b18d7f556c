// Package common contains shared constants and sentinel errors used across
// CloudStore components.
package common

// AccessTokenHeaderName is the HTTP header and gRPC metadata key that carries
// the access token on authenticated requests.
const AccessTokenHeaderName = "auth-token"

// BearerPrefix is an optional scheme prefix clients may put in front of the token.
const BearerPrefix = "Bearer "
