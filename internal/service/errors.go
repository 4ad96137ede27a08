package service

import (
	"errors"
	"fmt"

	"adminlte-api/internal/repository"
	"adminlte-api/internal/response"
)

// OverflowRecorder counts Count calls that fell back to the 64-bit path
type OverflowRecorder interface {
	IncrementCountOverflow()
}

type noopRecorder struct{}

func (noopRecorder) IncrementCountOverflow() {}

// toAppError maps repository errors onto API error codes. resource names the entity
// in the message ("User", "Role").
func toAppError(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return response.NewNotFoundError(resource+" not found", "")
	case errors.Is(err, repository.ErrConstraintViolation):
		return response.NewConflictError(fmt.Sprintf("%s conflicts with existing data", resource), err.Error())
	case errors.Is(err, repository.ErrAmbiguousMatch):
		return response.NewConflictError(fmt.Sprintf("More than one %s matched", resource), "")
	case errors.Is(err, repository.ErrCancelled):
		return response.NewAppError(response.ErrCodeCancelled, "Request cancelled", err.Error())
	case errors.Is(err, repository.ErrUnknownField),
		errors.Is(err, repository.ErrUnknownRelation),
		errors.Is(err, repository.ErrInvalidEntity):
		return response.NewValidationError(err.Error(), "")
	}
	return response.NewAppError(response.ErrCodeInternal, fmt.Sprintf("Failed to %s %s", action, resource), err.Error())
}
