package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrNothingToUpdate    = errors.New("no fields to update")

	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
	ErrInvalidLocation       = errors.New("invalid location")

	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must not be negative")

	ErrCommunicationNotFound = errors.New("communication not found")
	ErrTitleRequired         = errors.New("title is required")
	ErrTitleTooLong          = errors.New("title exceeds maximum length")

	ErrFinancialNotFound    = errors.New("financial not found")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidFinancialType = errors.New("invalid financial type")

	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidStatus   = errors.New("invalid status")

	ErrTaskNotFound      = errors.New("task not found")
	ErrProjectIDRequired = errors.New("project_id is required")
)

// Validation constants
const (
	MaxNameLength  = 255
	MaxTitleLength = 255
)

// IsNotFound reports whether err is any of the not-found sentinels
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrUserNotFound,
		ErrCategoryNotFound,
		ErrProductNotFound,
		ErrCommunicationNotFound,
		ErrFinancialNotFound,
		ErrProjectNotFound,
		ErrTaskNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
