package middleware

// identity.go provides helpers shared across middleware files for
// reading the authenticated customer from the Echo context.  JWTAuth
// stores the identity under "customer_id"; requests without a token
// are keyed as "guest".

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentCustomerID returns the authenticated customer's ID as a
// string for use in rate-limit keys, or "guest" when the request is
// unauthenticated.
func currentCustomerID(c echo.Context) string {
    if v := c.Get("customer_id"); v != nil {
        if id, ok := v.(uint64); ok && id > 0 {
            return strconv.FormatUint(id, 10)
        }
    }
    return "guest"
}
