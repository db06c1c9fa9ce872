package dtos

import "time"

type APIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code,omitempty"`
	Message      string `json:"message"`
	Details      string `json:"details,omitempty"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}

// UploadResponse describes a freshly loaded workbook.
type UploadResponse struct {
	FileName    string        `json:"file_name"`
	Hash        string        `json:"hash"`
	Trips       int           `json:"trips"`
	Maintenance int           `json:"maintenance"`
	Fuel        int           `json:"fuel"`
	Damages     int           `json:"damages"`
	Lodging     int           `json:"lodging"`
	Fleet       int           `json:"fleet"`
	Options     FilterOptions `json:"options"`
}

// RecomputeResponse reports how many cached segments were dropped.
type RecomputeResponse struct {
	SegmentsCleared int `json:"segments_cleared"`
}
