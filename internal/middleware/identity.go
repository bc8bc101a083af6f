package middleware

// identity.go defines helper functions shared across middleware and
// handlers. It provides operator identity extraction from the claims
// that JWTAuth stores in the Echo context. When no token is present
// or no relevant claim exists, "unknown" is returned.

import (
    "github.com/labstack/echo/v4"
)

// OperatorID extracts the operator identifier from the context
// populated by JWTAuth. It returns "unknown" when no operator is
// authenticated; callers use it for audit logging only, never for
// authorization decisions.
func OperatorID(c echo.Context) string {
    if v := c.Get("user_id"); v != nil {
        if s, ok := v.(string); ok && s != "" {
            return s
        }
    }
    return "unknown"
}
