package ui

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"fleetops/dashboard/internal/api"
	"fleetops/dashboard/internal/constants"
	reqctx "fleetops/dashboard/internal/context"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/services"

	"github.com/go-chi/chi/v5"
)

// UIHandler serves the server-rendered dashboard.
type UIHandler struct {
	dashboard      *services.DashboardService
	workbooks      *services.WorkbookService
	maxUploadBytes int64
}

func NewUIHandler(dashboard *services.DashboardService, workbooks *services.WorkbookService, maxUploadBytes int64) *UIHandler {
	return &UIHandler{dashboard: dashboard, workbooks: workbooks, maxUploadBytes: maxUploadBytes}
}

type navItem struct {
	ID    models.PageID
	Title string
}

func (h *UIHandler) baseData(r *http.Request, page models.PageID) map[string]interface{} {
	nav := make([]navItem, 0, len(h.dashboard.Pages()))
	for _, p := range h.dashboard.Pages() {
		nav = append(nav, navItem{ID: p, Title: h.dashboard.Title(p)})
	}
	return map[string]interface{}{
		"Title":   h.dashboard.Title(page),
		"Page":    page,
		"Nav":     nav,
		"Theme":   reqctx.GetTheme(r.Context()),
		"Query":   r.URL.RawQuery,
		"Flash":   r.URL.Query().Get("flash"),
		"Error":   r.URL.Query().Get("error"),
	}
}

// HomeHandler shows the upload form, or the home page once a workbook is loaded.
func (h *UIHandler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, models.PageHome)
}

// PageHandler renders any dashboard page by id.
func (h *UIHandler) PageHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, models.PageID(chi.URLParam(r, "page")))
}

func (h *UIHandler) render(w http.ResponseWriter, r *http.Request, page models.PageID) {
	state := reqctx.GetSession(r.Context())
	data := h.baseData(r, page)

	q, err := api.ParsePageQuery(r)
	if err != nil {
		data["Error"] = err.Error()
		q = services.PageQuery{View: q.View}
	}

	state.Lock()
	if q.APIKey == "" {
		q.APIKey = state.RouteKey
	}
	data["HasRouteKey"] = state.RouteKey != ""
	state.Unlock()

	view, err := h.dashboard.Page(r.Context(), state, page, q)
	switch {
	case errors.Is(err, services.ErrNoDataset):
		data["Title"] = h.dashboard.Title(models.PageHome)
		RenderTemplate(w, "pages/upload.html", data)
		return
	case errors.Is(err, services.ErrUnknownPage):
		http.NotFound(w, r)
		return
	case err != nil:
		logging.Error("Page render failed", "page", page, "error", err.Error())
		http.Error(w, constants.GetErrorMessage(constants.ErrCodeInternal), http.StatusInternalServerError)
		return
	}

	data["View"] = view
	RenderTemplate(w, "pages/page.html", data)
}

// UploadHandler accepts the upload form and redirects home.
func (h *UIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	state := reqctx.GetSession(r.Context())

	name, body, err := api.ReadUpload(w, r, h.maxUploadBytes)
	if err == nil {
		_, err = h.workbooks.Load(r.Context(), state, name, body)
	}
	if err != nil {
		redirect(w, r, "/", "error", constants.GetErrorMessage(constants.ErrCodeWorkbookLoadFailed)+": "+err.Error())
		return
	}
	redirect(w, r, "/", "flash", constants.MsgWorkbookLoaded)
}

// ClearHandler drops the session workbook.
func (h *UIHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	h.workbooks.Clear(reqctx.GetSession(r.Context()))
	redirect(w, r, "/", "flash", constants.MsgWorkbookCleared)
}

// RecomputeHandler clears the route cache and returns to the map.
func (h *UIHandler) RecomputeHandler(w http.ResponseWriter, r *http.Request) {
	h.dashboard.RecomputeRoutes(reqctx.GetSession(r.Context()))
	redirect(w, r, "/pages/map", "flash", constants.MsgRoutesInvalidated)
}

// RouteKeyHandler stores or clears the session routing key and returns to the map
// with real routing on. The key travels in the POST body only.
func (h *UIHandler) RouteKeyHandler(w http.ResponseWriter, r *http.Request) {
	state := reqctx.GetSession(r.Context())
	key := strings.TrimSpace(r.PostFormValue("ors_key"))
	remove := r.PostFormValue("clear") != ""

	state.Lock()
	if remove {
		state.RouteKey = ""
	} else if key != "" {
		state.RouteKey = key
	}
	state.Unlock()

	msg := constants.MsgRouteKeySaved
	if remove {
		msg = constants.MsgRouteKeyCleared
	}
	http.Redirect(w, r, "/pages/map?"+url.Values{"real": {"1"}, "flash": {msg}}.Encode(), http.StatusSeeOther)
}

// SetThemeHandler handles theme changes via POST request
func (h *UIHandler) SetThemeHandler(w http.ResponseWriter, r *http.Request) {
	theme := r.FormValue("theme")
	if theme != "dark" {
		theme = "light"
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "theme_preference",
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	back := r.Referer()
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func redirect(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	http.Redirect(w, r, path+"?"+url.Values{key: {msg}}.Encode(), http.StatusSeeOther)
}
