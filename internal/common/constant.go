package common

// SessionTokenHeaderName is the gRPC metadata key used to carry the
// session token on inbound requests.
const SessionTokenHeaderName = "session_token"

// DateLayout is the ISO calendar date format used for transaction dates.
const DateLayout = "2006-01-02"
