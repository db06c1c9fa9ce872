package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/services"
)

const uploadField = "file"

// UploadWorkbook godoc
// @Summary      Upload a fleet workbook
// @Description  Parses the six-sheet workbook (.xlsx or .xls) and attaches it to the caller's session
// @Tags         Workbook
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Workbook"
// @Success      200 {object} dtos.APIResponse
// @Failure      413 {object} dtos.APIResponse
// @Failure      422 {object} dtos.APIResponse
// @Router       /api/v1/workbook [post]
func (h *Handlers) UploadWorkbook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		state, ok := session(w, r, initTime)
		if !ok {
			return
		}

		name, data, err := ReadUpload(w, r, h.deps.MaxUploadBytes)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.RespondError(w, initTime, constants.ErrCodeUploadTooLarge, err, http.StatusRequestEntityTooLarge)
				return
			}
			common.RespondError(w, initTime, constants.ErrCodeInvalidQuery, err, http.StatusBadRequest)
			return
		}

		resp, err := h.deps.Services.Workbooks.Load(r.Context(), state, name, data)
		if err != nil {
			logging.Warn("Workbook upload rejected", "session_id", state.ID, "file", name, "error", err.Error())
			common.RespondError(w, initTime, constants.ErrCodeWorkbookLoadFailed, err, http.StatusUnprocessableEntity)
			return
		}

		common.RespondSuccess(w, initTime, constants.MsgWorkbookLoaded, resp)
	}
}

// ReadUpload pulls the workbook file out of a multipart body.
func ReadUpload(w http.ResponseWriter, r *http.Request, limit int64) (string, []byte, error) {
	if r.ContentLength > limit {
		return "", nil, &http.MaxBytesError{Limit: limit}
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return "", nil, err
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return "", nil, fmt.Errorf("missing %q form file: %w", uploadField, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

// ClearWorkbook godoc
// @Summary      Forget the session workbook
// @Tags         Workbook
// @Produce      json
// @Success      200 {object} dtos.APIResponse
// @Router       /api/v1/workbook [delete]
func (h *Handlers) ClearWorkbook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		state, ok := session(w, r, initTime)
		if !ok {
			return
		}

		h.deps.Services.Workbooks.Clear(state)
		common.RespondSuccess(w, initTime, constants.MsgWorkbookCleared, nil)
	}
}

// FilterOptions godoc
// @Summary      Sidebar picker choices
// @Description  Drivers, vehicles and the date bounds of the loaded workbook
// @Tags         Workbook
// @Produce      json
// @Success      200 {object} dtos.APIResponse
// @Failure      409 {object} dtos.APIResponse
// @Router       /api/v1/filters [get]
func (h *Handlers) FilterOptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		state, ok := session(w, r, initTime)
		if !ok {
			return
		}

		opts, err := h.deps.Services.Workbooks.FilterOptions(state)
		if errors.Is(err, services.ErrNoDataset) {
			common.RespondError(w, initTime, constants.ErrCodeNoDataset, nil, http.StatusConflict)
			return
		}
		common.RespondSuccess(w, initTime, "Filter options", opts)
	}
}
