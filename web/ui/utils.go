package ui

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/models"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var StaticFS embed.FS

var funcMap = template.FuncMap{
	"safeHTML": func(s string) template.HTML {
		return template.HTML(s)
	},
	"split": func(s string, sep string) []string {
		return strings.Split(s, sep)
	},
	"mod": func(a, b int) int {
		return a % b
	},
	"money":  common.FormatMoney,
	"number": common.FormatNumber,
	"float":  common.FormatFloat,
	"date":   common.FormatDate,
	"num": func(n models.Number, decimals int) string {
		if !n.Valid {
			return "-"
		}
		return common.FormatFloat(n.Value, decimals)
	},
	"inputDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"dict": func(kv ...interface{}) map[string]interface{} {
		m := make(map[string]interface{}, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				m[k] = kv[i+1]
			}
		}
		return m
	},
	"json": func(v interface{}) (template.JS, error) {
		b, err := json.Marshal(v)
		return template.JS(b), err
	},
}

// RenderTemplate renders a template with the base layout
func RenderTemplate(w http.ResponseWriter, templateName string, data map[string]interface{}) error {
	t, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS,
		"templates/layouts/base.html",
		"templates/"+templateName,
	)
	if err != nil {
		logging.Error("Template parse failed", "template", templateName, "error", err.Error())
		http.Error(w, "Error loading template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		logging.Error("Template render failed", "template", templateName, "error", err.Error())
		http.Error(w, "Error rendering template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}
