package service

import (
	"errors"
	"fmt"

	"tempowise/internal/metrics"
	"tempowise/internal/repository"
)

// ValidationError reports bad user input. Nothing was written when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// storeErr counts persistence failures other than missing documents.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	var opErr *repository.OpError
	if errors.As(err, &opErr) && !errors.Is(err, repository.ErrNotFound) {
		metrics.StoreFailures.WithLabelValues(opErr.Op).Inc()
	}
	return err
}
