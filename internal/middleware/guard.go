package middleware

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
)

// recordKey is the echo context key for the record loaded by RequireOwnerOrAdmin
const recordKey = "guarded_record"

// RecordLookup loads an owned record by id
type RecordLookup func(ctx context.Context, id int32) (domain.Owned, error)

// RequireOwnerOrAdmin loads the record named by the :id path parameter and lets the
// request through only when the caller is an admin or the record's author.
// Must run after Authenticate.
func RequireOwnerOrAdmin(lookup RecordLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := GetIdentity(c)
			if identity == nil {
				return unauthorizedError(c, msgTokenMissing)
			}

			id, err := ParseID(c)
			if err != nil {
				return badRequestError(c, msgInvalidID)
			}

			record, err := lookup(c.Request().Context(), id)
			if err != nil {
				if domain.IsNotFound(err) {
					return notFoundError(c)
				}
				log.Error().Err(err).Int32("id", id).Str("path", c.Path()).Msg("Failed to load record for ownership check")
				return internalError(c)
			}

			if !domain.CanModify(identity.UserID, identity.Role, record) {
				log.Debug().
					Int32("user_id", identity.UserID).
					Int32("record_id", id).
					Str("path", c.Path()).
					Msg("Ownership check denied")
				return forbiddenError(c)
			}

			c.Set(recordKey, record)
			return next(c)
		}
	}
}

// ParseID reads the :id path parameter. Values outside the int32 range are
// rejected rather than truncated onto another row's id.
func ParseID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

// GetRecord returns the record loaded by RequireOwnerOrAdmin, or nil
func GetRecord(c echo.Context) domain.Owned {
	if record, ok := c.Get(recordKey).(domain.Owned); ok {
		return record
	}
	return nil
}

// RequireAdmin rejects callers without the admin role. Must run after Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := GetIdentity(c)
			if identity == nil {
				return unauthorizedError(c, msgTokenMissing)
			}
			if !identity.IsAdmin() {
				return forbiddenError(c)
			}
			return next(c)
		}
	}
}
