package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lucentbi/ui-gateway/internal/backend"
	"github.com/lucentbi/ui-gateway/internal/service"
)

// DeadlineTier names one of the two configured backend deadline tiers.
type DeadlineTier string

const (
	// TierData covers metadata/resource fetches: charts, datasets,
	// database schemas/tables/columns.
	TierData DeadlineTier = "data"
	// TierAdmin covers dashboard aggregation and admin-weighted operations.
	TierAdmin DeadlineTier = "admin"
)

// ProxyRoute is one declarative binding of an inbound resource operation to
// a backend call: mux pattern, outbound path, and deadline tier. Resource
// routes forward the inbound Authorization header and never relay cookies.
type ProxyRoute struct {
	Pattern     string
	BackendPath func(r *http.Request) string
	Tier        DeadlineTier
}

// ProxyRoutes is the resource endpoint policy table. Every entry shares
// the same processing pipeline in ProxyHandlers.handle; adding an endpoint
// means adding a row, not re-deriving the plumbing.
func ProxyRoutes() []ProxyRoute {
	static := func(path string) func(*http.Request) string {
		return func(*http.Request) string { return path }
	}
	return []ProxyRoute{
		{Pattern: "GET /api/charts", BackendPath: static("/charts"), Tier: TierData},
		{Pattern: "POST /api/charts", BackendPath: static("/charts"), Tier: TierData},
		{Pattern: "GET /api/datasets", BackendPath: static("/datasets"), Tier: TierData},
		{Pattern: "POST /api/datasets", BackendPath: static("/datasets"), Tier: TierData},
		{Pattern: "GET /api/database/schemas", BackendPath: static("/database/schemas"), Tier: TierData},
		{Pattern: "GET /api/database/tables", BackendPath: static("/database/tables"), Tier: TierData},
		{Pattern: "GET /api/database/columns", BackendPath: static("/database/columns"), Tier: TierData},
		{Pattern: "GET /api/dashboard", BackendPath: static("/dashboard"), Tier: TierAdmin},
		{Pattern: "POST /api/dashboard", BackendPath: static("/dashboard"), Tier: TierAdmin},
		{Pattern: "DELETE /api/comment/{id}", Tier: TierAdmin,
			BackendPath: func(r *http.Request) string { return "/comment/" + r.PathValue("id") }},
	}
}

// ProxyHandlers serves the generic resource proxy contract over the policy
// table above.
type ProxyHandlers struct {
	Backend      service.BackendCaller
	DataTimeout  time.Duration
	AdminTimeout time.Duration
	Logger       *slog.Logger
}

// Register wires every policy table entry onto the mux.
func (h *ProxyHandlers) Register(mux *http.ServeMux) {
	for _, route := range ProxyRoutes() {
		mux.Handle(route.Pattern, h.handle(route))
	}
}

func (h *ProxyHandlers) timeoutFor(tier DeadlineTier) time.Duration {
	if tier == TierAdmin {
		return h.AdminTimeout
	}
	return h.DataTimeout
}

// handle is the one generic resource handler: extract the credential,
// perform the bounded call, terminate every path in a structured response.
func (h *ProxyHandlers) handle(route ProxyRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: errCodeMissingCredential,
				Err:     errors.New("authorization header is required"),
			})
			return
		}

		var body []byte
		if r.Body != nil {
			data, err := io.ReadAll(r.Body)
			if err != nil {
				WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_body", Err: err})
				return
			}
			body = data
		}

		res := h.Backend.Call(r.Context(), backend.CallParams{
			Method:        r.Method,
			Path:          route.BackendPath(r),
			Query:         r.URL.Query(),
			Body:          body,
			ContentType:   r.Header.Get("Content-Type"),
			Authorization: authz,
			Timeout:       h.timeoutFor(route.Tier),
		})

		switch res.Outcome {
		case backend.OutcomeOK:
			RelayBody(w, res.Status, res.ContentType, res.Body)
		case backend.OutcomeTimeout:
			WriteError(w, ErrorParams{
				Code:    http.StatusGatewayTimeout,
				ErrCode: errCodeBackendTimeout,
				Err:     errors.New(timeoutMessage),
			})
		default:
			cause := res.Err
			if cause == nil {
				cause = errors.New("backend request failed")
			}
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: errCodeBackendFailure,
				Err:     cause,
			})
		}
	}
}
