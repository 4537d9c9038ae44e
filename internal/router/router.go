package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/movie-ticket-platform/internal/handler"    // handlers implementing the endpoint logic
    "github.com/iliyamo/movie-ticket-platform/internal/middleware"  // JWT authentication middleware
    "github.com/iliyamo/movie-ticket-platform/internal/repository" // blacklist used during token validation
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring systems probe this endpoint to
    // verify that the service is up.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register and
// login live under /v1/auth and need no session; logout and the profile
// endpoint require a valid access token because logout blacklists the
// presented token's JTI.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, blacklist *repository.BlacklistRepo) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)

    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret, blacklist))
    auth.POST("/auth/logout", a.Logout)
    auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints.  These
// return sanitized showtime data for guests and apply no JWT middleware;
// the caller may wrap them in the response cache.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mws ...echo.MiddlewareFunc) {
    e.GET("/v1/showtimes", p.ListShowtimes, mws...)
    e.GET("/v1/showtimes/:id", p.GetShowtime, mws...)
}
