package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/models/dtos"
	"fleetops/dashboard/internal/services"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

// ParsePageQuery reads the page selection from query parameters and the routing key header.
// Dates use YYYY-MM-DD.
func ParsePageQuery(r *http.Request) (services.PageQuery, error) {
	values := r.URL.Query()
	q := services.PageQuery{
		Driver:      strings.TrimSpace(values.Get("driver")),
		Vehicle:     strings.TrimSpace(values.Get("vehicle")),
		View:        models.ParseViewMode(values.Get("view")),
		Select:      strings.TrimSpace(values.Get("select")),
		Plate:       strings.TrimSpace(values.Get("plate")),
		RealRouting: parseFlag(values.Get("real")),
		APIKey:      strings.TrimSpace(r.Header.Get(constants.RouteKeyHeader)),
	}

	dates := []struct {
		param string
		dst   **time.Time
	}{
		{"from", &q.From},
		{"to", &q.To},
		{"mfrom", &q.MaintenanceFrom},
		{"mto", &q.MaintenanceTo},
	}
	for _, d := range dates {
		t, err := parseDate(values, d.param)
		if err != nil {
			return q, err
		}
		*d.dst = t
	}

	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return q, fmt.Errorf("to (%s) is before from (%s)", q.To.Format(dateLayout), q.From.Format(dateLayout))
	}
	return q, nil
}

func parseDate(values url.Values, param string) (*time.Time, error) {
	raw := strings.TrimSpace(values.Get(param))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: expected YYYY-MM-DD, got %q", param, raw)
	}
	return &t, nil
}

func parseFlag(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

// GetPage godoc
// @Summary      Compute a dashboard page
// @Description  Applies the query to the session filter and returns the page KPIs, data and insights
// @Tags         Pages
// @Produce      json
// @Param        page    path   string true  "home, overview, driver, vehicle, city, analyses, maintenance or map"
// @Param        from    query  string false "YYYY-MM-DD"
// @Param        to      query  string false "YYYY-MM-DD"
// @Param        driver  query  string false "Driver or all"
// @Param        vehicle query  string false "Vehicle or all"
// @Param        view    query  string false "essential or complete"
// @Success      200 {object} dtos.APIResponse
// @Failure      400 {object} dtos.APIResponse
// @Failure      404 {object} dtos.APIResponse
// @Failure      409 {object} dtos.APIResponse
// @Router       /api/v1/pages/{page} [get]
func (h *Handlers) GetPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.page(w, r, models.PageID(chi.URLParam(r, "page")))
	}
}

// GetMap godoc
// @Summary      Compute the trip map
// @Description  Road routing needs real=1 and the X-ORS-Key header; otherwise legs are straight lines
// @Tags         Pages
// @Produce      json
// @Success      200 {object} dtos.APIResponse
// @Router       /api/v1/map [get]
func (h *Handlers) GetMap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.page(w, r, models.PageMap)
	}
}

func (h *Handlers) page(w http.ResponseWriter, r *http.Request, page models.PageID) {
	initTime := time.Now()
	state, ok := session(w, r, initTime)
	if !ok {
		return
	}

	q, err := ParsePageQuery(r)
	if err != nil {
		common.RespondError(w, initTime, constants.ErrCodeInvalidQuery, err, http.StatusBadRequest)
		return
	}

	view, err := h.deps.Services.Dashboard.Page(r.Context(), state, page, q)
	if err != nil {
		respondPageError(w, initTime, err)
		return
	}

	message := constants.MsgPageComputed
	if view.Message != "" {
		message = view.Message
	}
	common.RespondSuccess(w, initTime, message, view)
}

// RecomputeRoutes godoc
// @Summary      Recompute map routes
// @Description  Forgets the session's resolved segments so the next map request resolves them again
// @Tags         Pages
// @Produce      json
// @Success      200 {object} dtos.APIResponse
// @Router       /api/v1/map/recompute [post]
func (h *Handlers) RecomputeRoutes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		state, ok := session(w, r, initTime)
		if !ok {
			return
		}

		n := h.deps.Services.Dashboard.RecomputeRoutes(state)
		common.RespondSuccess(w, initTime, constants.MsgRoutesInvalidated, dtos.RecomputeResponse{SegmentsCleared: n})
	}
}
