package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// bearer token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SessionUserKey is the key the session context persists the current user under.
const SessionUserKey = "user"

// AccessTokenKey is the key the client saves the last access token under.
const AccessTokenKey = "access_token"
