package api

import (
	"errors"
	"net/http"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/services"
)

// respondPageError maps page pipeline failures onto status codes.
func respondPageError(w http.ResponseWriter, initTime time.Time, err error) {
	var pageErr *services.PageError
	if !errors.As(err, &pageErr) {
		logging.Error("Page computation failed", "error", err.Error())
		common.RespondError(w, initTime, constants.ErrCodeInternal, err, http.StatusInternalServerError)
		return
	}

	switch {
	case errors.Is(err, services.ErrNoDataset):
		common.RespondError(w, initTime, pageErr.Code, nil, http.StatusConflict)
	case errors.Is(err, services.ErrUnknownPage):
		common.RespondError(w, initTime, pageErr.Code, err, http.StatusNotFound)
	default:
		common.RespondError(w, initTime, pageErr.Code, err, http.StatusInternalServerError)
	}
}
