package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-ticket-platform/internal/handler"
    "github.com/iliyamo/movie-ticket-platform/internal/middleware"
    "github.com/iliyamo/movie-ticket-platform/internal/repository"
)

// RegisterCustomer registers the booking endpoints under /v1.  All
// routes require a valid access token.  Customers can buy a ticket,
// cancel it, hold a seat during checkout, release the hold and list
// their booking history.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, blacklist *repository.BlacklistRepo) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret, blacklist),
    )
    g.POST("/tickets", h.BookTicket)
    g.DELETE("/tickets/:id", h.CancelBooking)
    g.GET("/my-tickets", h.ListMyTickets)

    // Holds are optional: booking directly without a prior hold is the
    // common path.
    g.POST("/showtimes/:id/hold", h.HoldSeat)
    g.DELETE("/showtimes/:id/hold", h.ReleaseHold)
}
