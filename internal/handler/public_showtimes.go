// Package handler exposes HTTP handlers for both authenticated and
// public endpoints.  This file defines the public browsing API: routes
// that let unauthenticated users list upcoming showtimes and inspect
// availability before registering.  Internal fields (claim versions,
// lock expiries) are never exposed.

package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-ticket-platform/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.
type PublicHandler struct {
    Showtimes *repository.ShowtimeRepo
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(showtimes *repository.ShowtimeRepo) *PublicHandler {
    if showtimes == nil {
        panic("nil showtime repository passed to NewPublicHandler")
    }
    return &PublicHandler{Showtimes: showtimes}
}

// PublicShowtime is a showtime in list responses.
type PublicShowtime struct {
    ID             uint64    `json:"id"`
    MovieTitle     string    `json:"movie_title"`
    TheaterID      uint64    `json:"theater_id"`
    StartsAt       time.Time `json:"starts_at"`
    EndsAt         time.Time `json:"ends_at"`
    PriceCents     uint32    `json:"price_cents"`
    AvailableSeats uint32    `json:"available_seats"`
}

// PublicShowtimeDetail adds the booked seat labels so clients can grey
// out taken seats.
type PublicShowtimeDetail struct {
    PublicShowtime
    Capacity    uint32   `json:"capacity"`
    BookedSeats []string `json:"booked_seats"`
}

// ListShowtimes handles GET /v1/showtimes.  Responses may be served
// from the Redis cache, so availability numbers can lag by the cache
// TTL.
func (h *PublicHandler) ListShowtimes(c echo.Context) error {
    sts, err := h.Showtimes.ListUpcoming(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]PublicShowtime, 0, len(sts))
    for _, st := range sts {
        out = append(out, PublicShowtime{
            ID:             st.ID,
            MovieTitle:     st.MovieTitle,
            TheaterID:      st.TheaterID,
            StartsAt:       st.StartsAt,
            EndsAt:         st.EndsAt,
            PriceCents:     st.PriceCents,
            AvailableSeats: st.AvailableSeats,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"showtimes": out})
}

// GetShowtime handles GET /v1/showtimes/:id and returns one showtime
// with its booked seat labels.
func (h *PublicHandler) GetShowtime(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    ctx := c.Request().Context()
    st, err := h.Showtimes.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrShowtimeNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    booked, err := h.Showtimes.BookedSeatLabels(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if booked == nil {
        booked = []string{}
    }
    return c.JSON(http.StatusOK, PublicShowtimeDetail{
        PublicShowtime: PublicShowtime{
            ID:             st.ID,
            MovieTitle:     st.MovieTitle,
            TheaterID:      st.TheaterID,
            StartsAt:       st.StartsAt,
            EndsAt:         st.EndsAt,
            PriceCents:     st.PriceCents,
            AvailableSeats: st.AvailableSeats,
        },
        Capacity:    st.TheaterCapacity,
        BookedSeats: booked,
    })
}
