package httpx

// Session cookie names. Both are backend-issued and backend-interpreted;
// the gateway reads, forwards, or deletes them, never synthesizes values.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// Query parameters of the SSO exchange. A request carrying
// AuthorizationCodeParam on any path bypasses the token gate so the
// navigation right after the code exchange is not blocked before the
// session cookies have propagated to the browser.
const (
	AuthorizationCodeParam = "authorization_code"
	SignatureParam         = "signature"
)

// timeoutMessage is the fixed 504 body for backend calls aborted at their
// deadline.
const timeoutMessage = "Request timed out. The server took too long to respond."

// Error codes used in JSON error envelopes.
const (
	errCodeMissingCredential = "missing_credential"
	errCodeMissingParameter  = "missing_parameter"
	errCodeBackendTimeout    = "backend_timeout"
	errCodeBackendFailure    = "backend_unreachable"
)
