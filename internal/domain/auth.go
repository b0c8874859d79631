package domain

// AuthFailure tags why the auth gate rejected a request. It is only used for logs and
// metrics; every reason is reported to the client as the same 401.
type AuthFailure string

const (
	AuthFailureNoToken        AuthFailure = "no_token"
	AuthFailureInvalidToken   AuthFailure = "invalid_token"
	AuthFailureExpiredToken   AuthFailure = "expired_token"
	AuthFailureUnknownSubject AuthFailure = "unknown_subject"
)

// AuthFailures lists every reason, in a stable order.
var AuthFailures = []AuthFailure{
	AuthFailureNoToken,
	AuthFailureInvalidToken,
	AuthFailureExpiredToken,
	AuthFailureUnknownSubject,
}
