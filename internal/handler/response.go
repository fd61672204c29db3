package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

// ProblemDetails represents an RFC 7807 Problem Details response.
// Error repeats the localized message for clients that only read that field.
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Error    string            `json:"error"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://salt.app/errors/validation"
	ErrorTypeNotFound     = "https://salt.app/errors/not-found"
	ErrorTypeUnauthorized = "https://salt.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://salt.app/errors/forbidden"
	ErrorTypeConflict     = "https://salt.app/errors/conflict"
	ErrorTypeInternal     = "https://salt.app/errors/internal"
)

// msgInvalidBody is returned when the request body cannot be decoded
const msgInvalidBody = "Dados inválidos"

func newProblem(c echo.Context, status int, errorType, title, message string, errs []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   message,
		Instance: c.Request().URL.Path,
		Error:    message,
		Errors:   errs,
	})
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, message string, errors []ValidationError) error {
	return newProblem(c, http.StatusBadRequest, ErrorTypeValidation, "Validation Error", message, errors)
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, message string) error {
	return newProblem(c, http.StatusNotFound, ErrorTypeNotFound, "Not Found", message, nil)
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, message string) error {
	return newProblem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, "Unauthorized", message, nil)
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, message string) error {
	return newProblem(c, http.StatusForbidden, ErrorTypeForbidden, "Forbidden", message, nil)
}

// NewConflictError creates a duplicate-value error response. Duplicates are
// reported as 400 because existing clients branch on that status.
func NewConflictError(c echo.Context, message string) error {
	return newProblem(c, http.StatusBadRequest, ErrorTypeConflict, "Conflict", message, nil)
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, message string) error {
	return newProblem(c, http.StatusInternalServerError, ErrorTypeInternal, "Internal Server Error", message, nil)
}

type errorKind int

const (
	kindValidation errorKind = iota
	kindNotFound
	kindUnauthorized
	kindForbidden
	kindConflict
)

type domainErrorMapping struct {
	target  error
	kind    errorKind
	field   string
	message string
}

// domainErrors lists the sentinel errors a handler can answer without logging.
// Order matters: the first match wins.
var domainErrors = []domainErrorMapping{
	{domain.ErrEmailTaken, kindConflict, "email", "Email já existe"},
	{domain.ErrCategoryAlreadyExists, kindConflict, "name", "Categoria já existe ou erro ao criar"},
	{domain.ErrAlreadyExists, kindConflict, "", "Registro já existe"},

	{domain.ErrNameRequired, kindValidation, "name", "O nome é obrigatório"},
	{domain.ErrNameTooLong, kindValidation, "name", "O nome deve ter no máximo 255 caracteres"},
	{domain.ErrEmailRequired, kindValidation, "email", "O email é obrigatório"},
	{domain.ErrPasswordRequired, kindValidation, "password", "A senha é obrigatória"},
	{domain.ErrInvalidRole, kindValidation, "role", "Role inválido"},
	{domain.ErrInvalidCredentials, kindValidation, "password", "Senha incorreta"},
	{domain.ErrNothingToUpdate, kindValidation, "", "Informe ao menos um campo para atualizar"},
	{domain.ErrInvalidLocation, kindValidation, "location", "Location inválido"},
	{domain.ErrInvalidQuantity, kindValidation, "quantity", "Quantidade inválida"},
	{domain.ErrTitleRequired, kindValidation, "title", "O título é obrigatório"},
	{domain.ErrTitleTooLong, kindValidation, "title", "O título deve ter no máximo 255 caracteres"},
	{domain.ErrDescriptionRequired, kindValidation, "description", "A descrição é obrigatória"},
	{domain.ErrInvalidAmount, kindValidation, "amount", "Valor inválido"},
	{domain.ErrInvalidFinancialType, kindValidation, "type", "Tipo inválido"},
	{domain.ErrInvalidStatus, kindValidation, "status", "Status inválido"},
	{domain.ErrProjectIDRequired, kindValidation, "project_id", "O project_id é obrigatório"},
	{domain.ErrInvalidInput, kindValidation, "", msgInvalidBody},

	{domain.ErrUserNotFound, kindNotFound, "", "Usuário não encontrado"},
	{domain.ErrCategoryNotFound, kindNotFound, "", "Categoria não encontrada"},
	{domain.ErrProductNotFound, kindNotFound, "", "Produto não encontrado"},
	{domain.ErrCommunicationNotFound, kindNotFound, "", "Comunicação não encontrada"},
	{domain.ErrFinancialNotFound, kindNotFound, "", "Registro financeiro não encontrado"},
	{domain.ErrProjectNotFound, kindNotFound, "", "Projeto não encontrado"},
	{domain.ErrTaskNotFound, kindNotFound, "", "Tarefa não encontrada"},
	{domain.ErrNotFound, kindNotFound, "", "Registro não encontrado"},

	{domain.ErrUnauthorized, kindUnauthorized, "", "Token inválido"},
	{domain.ErrForbidden, kindForbidden, "", "Sem permissão"},
}

// respondDomainError writes the problem response for a known domain error.
// It reports false, writing nothing, when err is not a domain error.
func respondDomainError(c echo.Context, err error) (bool, error) {
	for _, m := range domainErrors {
		if !errors.Is(err, m.target) {
			continue
		}
		switch m.kind {
		case kindNotFound:
			return true, NewNotFoundError(c, m.message)
		case kindUnauthorized:
			return true, NewUnauthorizedError(c, m.message)
		case kindForbidden:
			return true, NewForbiddenError(c, m.message)
		case kindConflict:
			return true, NewConflictError(c, m.message)
		default:
			var fields []ValidationError
			if m.field != "" {
				fields = []ValidationError{{Field: m.field, Message: m.message}}
			}
			return true, NewValidationError(c, m.message, fields)
		}
	}
	return false, nil
}

// errInvalidID is returned by record loaders when :id is not an integer
var errInvalidID = errors.New("invalid id")

// respondLoadError answers a failed record load for update handlers
func respondLoadError(c echo.Context, err error) error {
	if errors.Is(err, errInvalidID) {
		return NewValidationError(c, "ID inválido", nil)
	}
	if handled, resp := respondDomainError(c, err); handled {
		return resp
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("Failed to load record")
	return NewInternalError(c, "Erro ao buscar registro")
}
