package fide

import (
	"errors"
	"fmt"
)

var (
	ErrLogin         = errors.New("fide scraper: login failed")
	ErrUnknownLayout = errors.New("fide scraper: unknown report layout")
)

// StatusError is returned when the ratings site answers with a non-2xx status.
type StatusError struct {
	Method string
	Url    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fide scraper: %s %s: unexpected status %d", e.Method, e.Url, e.Status)
}

// StructuralMismatchError is returned when the number of tournament header rows
// differs from the number of score rows, rows are paired by position so the whole
// report is rejected.
type StructuralMismatchError struct {
	Headers int
	Scores  int
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf(
		"fide scraper: found %d tournament header rows but %d score rows",
		e.Headers, e.Scores,
	)
}

// RowShapeError is returned when a row does not have the expected amount of cells.
type RowShapeError struct {
	Row  int
	Kind string
	Want int
	Got  int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf(
		"fide scraper: %s row %d: expected %d cells, got %d",
		e.Kind, e.Row, e.Want, e.Got,
	)
}

// RowValueError is returned when a cell cannot be coerced into its field or the
// coerced values break a tournament invariant.
type RowValueError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowValueError) Error() string {
	return fmt.Sprintf(
		"fide scraper: score row %d: column %s (%q): %v",
		e.Row, e.Column, e.Value, e.Err,
	)
}

func (e *RowValueError) Unwrap() error {
	return e.Err
}
