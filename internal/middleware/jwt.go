package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming
    "time"     // expiry handling for revocation checks

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/movie-ticket-platform/internal/repository"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the authenticated customer's identity into the request
// context.  The provided secret must match the one used when issuing
// tokens.  When a blacklist is supplied, tokens whose JTI has been
// revoked by logout are rejected even though their signature is still
// valid.  Handlers downstream read the identity via c.Get("customer_id").
func JWTAuth(secret string, blacklist *repository.BlacklistRepo) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 and our secret; reject any other
            // signing method.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // The subject claim carries the customer ID.  JSON numbers
            // decode as float64.
            sub, ok := claims["sub"].(float64)
            if !ok || sub <= 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
            }

            jti, _ := claims["jti"].(string)
            if blacklist != nil && jti != "" && blacklist.IsRevoked(c.Request().Context(), jti) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
            }

            c.Set("customer_id", uint64(sub))
            c.Set("jti", jti)
            if exp, ok := claims["exp"].(float64); ok {
                c.Set("token_exp", time.Unix(int64(exp), 0).UTC())
            }
            return next(c)
        }
    }
}
