package handler // handler defines http handlers

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"
)

// getCustomerID extracts the authenticated customer's ID from the Echo
// context.  JWTAuth stores it under "customer_id" as uint64; the other
// cases tolerate values injected by tests or older middleware.
func getCustomerID(c echo.Context) (uint64, error) {
    v := c.Get("customer_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid customer_id in context")
}
