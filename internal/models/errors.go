package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// verboseErrors controls whether error responses include details for
// debugging. It is disabled in production at startup.
var verboseErrors = true

// SetVerboseErrors toggles inclusion of the stack/details field in
// error responses.
func SetVerboseErrors(v bool) {
	verboseErrors = v
}

// ErrorResponse is the uniform JSON error body.
type ErrorResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// AppError is a typed application failure carrying its HTTP status.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors

func NewValidationError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Status:  fiber.StatusForbidden,
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Status:  fiber.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: resource + " not found",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: "Server error",
		Err:     err,
	}
}

// StatusOf returns the HTTP status carried by err, defaulting to 500.
func StatusOf(err error) int {
	if appErr, ok := err.(*AppError); ok && appErr.Status != 0 {
		return appErr.Status
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// RespondWithError writes the standardized error response.
func RespondWithError(c *fiber.Ctx, err error) error {
	response := ErrorResponse{Message: "Server error"}
	status := StatusOf(err)

	if appErr, ok := err.(*AppError); ok {
		response.Message = appErr.Message
		if verboseErrors && appErr.Err != nil {
			response.Stack = appErr.Err.Error()
		}
	} else if err != nil {
		response.Message = err.Error()
	}

	return c.Status(status).JSON(response)
}
