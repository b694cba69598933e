package gerr

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrCountryTaken is returned when a non-declined franchise application
	// already exists for the country.
	ErrCountryTaken = errors.New("franchise application for this country already exists")
	// ErrSlugTaken is returned when a news article slug is already in use.
	ErrSlugTaken = errors.New("news slug already in use")
	// ErrNothingSelected is returned when a bulk action is applied to an
	// empty selection.
	ErrNothingSelected = errors.New("nothing selected")
	// ErrConfirmationRequired is returned when a soft delete is requested
	// without the explicit confirmation step.
	ErrConfirmationRequired = errors.New("confirmation required")
)
