// Package common contains shared constants and sentinel errors used across
// the clinic portal components.
package common

// AuthorizationHeaderName is the HTTP header carrying the session token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the optional scheme prefix accepted in front of the token.
const BearerPrefix = "Bearer "

// PatientIDContextKey is the gin context key holding the authenticated DNI.
const PatientIDContextKey = "patientDNI"
