package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/models/dtos"
	"fleetops/dashboard/internal/services"
)

const healthPingTimeout = 2 * time.Second

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Verifies the server is running and the shared cache answers.
// @Tags Misc
// @Success 200 {object} dtos.HealthCheckResponse
// @Failure 503 {object} dtos.HealthCheckResponse
// @Router /healthCheck [get]
func HealthCheckHandler(cache common.CacheInterface, sessions *services.SessionStore, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svcs := make(map[string]dtos.ServiceStatus)

		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		cacheStatus := "ok"
		cacheDetails := cache.Name() + " cache reachable"
		if err := cache.Ping(ctx); err != nil {
			cacheStatus = "down"
			cacheDetails = err.Error()
		}
		svcs["cache"] = dtos.ServiceStatus{
			Status:  cacheStatus,
			Details: cacheDetails,
		}
		svcs["sessions"] = dtos.ServiceStatus{
			Status:  "ok",
			Details: strconv.Itoa(sessions.Count()) + " active",
		}

		overallStatus := "ok"
		for _, svc := range svcs {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := dtos.HealthCheckResponse{
			Services: svcs,
			Status:   overallStatus,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}
		w.Header().Set("Content-Type", "application/json")
		if overallStatus != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
