package service

import (
	"errors"
	"fmt"

	"github.com/alimon-app/mise/internal/nutrition"
	"github.com/alimon-app/mise/internal/repository"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = repository.ErrNotFound
	ErrConflict     = repository.ErrConflict
)

// ValidationError reports bad caller input. It is never retried.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// asValidation turns the input errors raised by unit resolution and scaling
// into validation errors and passes everything else through.
func asValidation(err error) error {
	var unknown *nutrition.UnknownUnitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &unknown),
		errors.Is(err, nutrition.ErrMissingServingSize),
		errors.Is(err, nutrition.ErrMissingContainerInfo),
		errors.Is(err, nutrition.ErrMultipleDefaultUnits),
		errors.Is(err, nutrition.ErrInvalidUnit),
		errors.Is(err, nutrition.ErrInvalidServings),
		errors.Is(err, nutrition.ErrZeroReference):
		return &ValidationError{Err: err}
	default:
		return err
	}
}
