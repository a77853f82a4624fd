package linkedin

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

const maxRelayBody = 1 << 20

// Relay forwards people search requests to the backend unchanged and mirrors the
// backend's status and JSON body back to the caller.
type Relay struct {
	upstream string
	client   *http.Client
}

func NewRelay(upstreamURL string, client *http.Client) *Relay {
	if client == nil {
		client = http.DefaultClient
	}
	return &Relay{upstream: upstreamURL, client: client}
}

func (rl *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRelayBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeDetail(w, http.StatusBadRequest, "could not read request body")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, rl.upstream, bytes.NewReader(body))
	if err != nil {
		slog.Error("failed to build relay request", "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rl.client.Do(req)
	if err != nil {
		slog.Error("people search relay failed", "upstream", rl.upstream, "error", err)
		writeDetail(w, http.StatusBadGateway, "Search failed")
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		slog.Warn("failed to copy relay response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": detail}); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
