package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// problemDetails represents an RFC 7807 Problem Details response.
// Error repeats the localized message the web clients display.
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Error    string `json:"error"`
}

// Error types
const (
	errorTypeValidation   = "https://salt.app/errors/validation"
	errorTypeUnauthorized = "https://salt.app/errors/unauthorized"
	errorTypeForbidden    = "https://salt.app/errors/forbidden"
	errorTypeNotFound     = "https://salt.app/errors/not-found"
	errorTypeRateLimit    = "https://salt.app/errors/rate-limit"
	errorTypeInternal     = "https://salt.app/errors/internal"
)

// Localized messages
const (
	msgTokenMissing = "Token não fornecido"
	msgTokenInvalid = "Token inválido"
	msgInvalidID    = "ID inválido"
	msgNotFound     = "Registro não encontrado"
	msgForbidden    = "Sem permissão"
	msgInternal     = "Erro interno do servidor"
	msgRateLimit    = "Muitas requisições, tente novamente mais tarde"
)

func problem(c echo.Context, status int, errorType, title, message string) error {
	return c.JSON(status, problemDetails{
		Type:     errorType,
		Title:    title,
		Status:   status,
		Detail:   message,
		Instance: c.Request().URL.Path,
		Error:    message,
	})
}

// unauthorizedError creates an unauthorized error response
func unauthorizedError(c echo.Context, message string) error {
	return problem(c, http.StatusUnauthorized, errorTypeUnauthorized, "Unauthorized", message)
}

func forbiddenError(c echo.Context) error {
	return problem(c, http.StatusForbidden, errorTypeForbidden, "Forbidden", msgForbidden)
}

func notFoundError(c echo.Context) error {
	return problem(c, http.StatusNotFound, errorTypeNotFound, "Not Found", msgNotFound)
}

func badRequestError(c echo.Context, message string) error {
	return problem(c, http.StatusBadRequest, errorTypeValidation, "Validation Error", message)
}

func internalError(c echo.Context) error {
	return problem(c, http.StatusInternalServerError, errorTypeInternal, "Internal Server Error", msgInternal)
}
