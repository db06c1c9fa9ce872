package services

import (
	"context"

	"fleetops/dashboard/internal/logging"
	"fleetops/dashboard/internal/models"
	"fleetops/dashboard/internal/models/dtos"
	"fleetops/dashboard/internal/workbook"
)

// WorkbookService attaches uploaded workbooks to sessions.
type WorkbookService struct {
	loader *workbook.Loader
	onLoad func(*models.Dataset)
}

func NewWorkbookService(loader *workbook.Loader) *WorkbookService {
	return &WorkbookService{loader: loader}
}

// OnLoad registers fn to run after each successful load, outside the session lock.
func (s *WorkbookService) OnLoad(fn func(*models.Dataset)) {
	s.onLoad = fn
}

// Load parses data and makes it the session dataset. On failure the session keeps no dataset.
func (s *WorkbookService) Load(ctx context.Context, state *SessionState, name string, data []byte) (*dtos.UploadResponse, error) {
	ds, err := s.loader.Load(ctx, name, data)

	state.Lock()
	if err != nil {
		state.Detach()
		state.Unlock()
		return nil, err
	}
	state.Attach(ds)
	state.Unlock()

	if s.onLoad != nil {
		s.onLoad(ds)
	}

	logging.Info("Workbook attached to session",
		"session_id", state.ID,
		"file", ds.FileName,
		"hash", ds.Hash,
	)
	return &dtos.UploadResponse{
		FileName:    ds.FileName,
		Hash:        ds.Hash,
		Trips:       len(ds.Trips),
		Maintenance: len(ds.Maintenance),
		Fuel:        len(ds.Fuel),
		Damages:     len(ds.Damages.Rows),
		Lodging:     len(ds.Lodging.Rows),
		Fleet:       len(ds.Fleet.Rows),
		Options:     Options(ds),
	}, nil
}

// Clear drops the session dataset.
func (s *WorkbookService) Clear(state *SessionState) {
	state.Lock()
	defer state.Unlock()
	state.Detach()
}

// FilterOptions returns picker choices and the current filter, or ErrNoDataset.
func (s *WorkbookService) FilterOptions(state *SessionState) (*dtos.FilterOptions, error) {
	state.Lock()
	defer state.Unlock()

	if state.Dataset == nil {
		return nil, ErrNoDataset
	}
	opts := Options(state.Dataset)
	return &opts, nil
}
