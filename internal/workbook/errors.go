package workbook

import (
	"errors"
	"fmt"
)

var (
	ErrUnreadable    = errors.New("workbook is unreadable")
	ErrMissingSheet  = errors.New("required sheet is missing")
	ErrMissingColumn = errors.New("required column is missing")
)

// LoadError reports why a workbook could not be turned into a dataset.
type LoadError struct {
	Sheet  string
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("sheet %s, column %s: %v", e.Sheet, e.Column, e.Err)
	case e.Sheet != "":
		return fmt.Sprintf("sheet %s: %v", e.Sheet, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
