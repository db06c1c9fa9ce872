package services

import (
	"errors"
	"fmt"

	"fleetops/dashboard/internal/constants"
	"fleetops/dashboard/internal/models"
)

var (
	ErrNoDataset   = errors.New("no workbook loaded")
	ErrUnknownPage = errors.New("unknown page")
)

// PageError carries the error code reported to clients.
type PageError struct {
	Page models.PageID
	Code string
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %s: %s: %v", e.Page, constants.GetErrorMessage(e.Code), e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
