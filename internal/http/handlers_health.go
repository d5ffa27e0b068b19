package httpx

import "net/http"

// healthHandler answers liveness probes. The gateway holds no connections
// of its own, so reachability of the process is the whole health story;
// backend reachability surfaces per request as 504/500 envelopes instead.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "ui-gateway",
	})
}
