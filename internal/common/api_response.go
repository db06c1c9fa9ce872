package common

import (
	"encoding/json"
	"net/http"
	"time"

	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response.
// The message defaults to the text registered for errCode; a non-nil err is attached as detail.
func RespondError(w http.ResponseWriter, initTime time.Time, errCode string, err error, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Code:         errCode,
		Message:      constants.GetErrorMessage(errCode),
		ResponseTime: GetResponseTime(initTime),
	}
	if err != nil {
		response.Details = err.Error()
	}

	writeJSON(w, code, response)
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}
