package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

const contentTypeJSON = "application/json"

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler reports "ok" when every registered dependency check passes
func (s *Server) HealthHandler() http.HandlerFunc {
	names := make([]string, 0, len(s.health))
	for name := range s.health {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			if err := s.health[name](ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
