package handler

import (
    "context"  // detached contexts for fire-and-forget event publishing
    "errors"   // errors.Is comparisons against sentinel values
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters
    "time"     // event timestamps and publish timeouts

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/movie-ticket-platform/internal/booking"
    "github.com/iliyamo/movie-ticket-platform/internal/model"
    "github.com/iliyamo/movie-ticket-platform/internal/queue"
    "github.com/iliyamo/movie-ticket-platform/internal/repository"
    queue_publisher "github.com/iliyamo/movie-ticket-platform/internal/service"
)

// CustomerHandler exposes the booking endpoints: buying a ticket,
// cancelling it, holding a seat during checkout and listing booking
// history.  All orchestration lives in the booking service; the
// handler binds requests, maps sentinel errors onto HTTP statuses and
// publishes domain events after successful state changes.  Methods
// assume JWT authentication already ran.
type CustomerHandler struct {
    Svc *booking.Service
}

// NewCustomerHandler constructs a CustomerHandler and panics when the
// booking service is missing.
func NewCustomerHandler(svc *booking.Service) *CustomerHandler {
    if svc == nil {
        panic("nil booking service passed to NewCustomerHandler")
    }
    return &CustomerHandler{Svc: svc}
}

type bookTicketReq struct {
    ShowtimeID uint64 `json:"showtime_id"`
    Row        string `json:"row"`
    SeatNumber string `json:"seat_number"`
}

type holdSeatReq struct {
    Row        string `json:"row"`
    SeatNumber string `json:"seat_number"`
}

// BookTicket handles POST /v1/tickets.  It books one seat for the
// authenticated customer.  Exactly one of several concurrent requests
// for the same seat succeeds; the rest receive 409 Conflict.
func (h *CustomerHandler) BookTicket(c echo.Context) error {
    customerID, err := getCustomerID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req bookTicketReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.ShowtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
    }

    res, err := h.Svc.BookTicket(c.Request().Context(), booking.BookTicketInput{
        CustomerID: customerID,
        ShowtimeID: req.ShowtimeID,
        RowLabel:   req.Row,
        SeatNumber: req.SeatNumber,
    })
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrInvalidSeat):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrShowtimeNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
        case errors.Is(err, repository.ErrSeatAlreadyBooked):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked, please choose another seat"})
        case errors.Is(err, repository.ErrSeatLocked):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat is currently held, please try again shortly"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
    }

    publishBooked(res)

    return c.JSON(http.StatusCreated, echo.Map{
        "ticket_id":       res.Ticket.ID,
        "booking_id":      res.Booking.ID,
        "payment_id":      res.Payment.ID,
        "showtime_id":     res.Showtime.ID,
        "movie_title":     res.Showtime.MovieTitle,
        "seat":            res.Booking.SeatLabel,
        "price_cents":     res.Ticket.PriceCents,
        "status":          res.Ticket.Status,
        "available_seats": res.Showtime.AvailableSeats,
    })
}

// CancelBooking handles DELETE /v1/tickets/:id.  Cancellation flips
// statuses and frees the seat; it never deletes records.  Attempts two
// hours or less before the showtime are rejected with 400.
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
    customerID, err := getCustomerID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || ticketID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }

    res, err := h.Svc.CancelBooking(c.Request().Context(), customerID, ticketID)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrTicketNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        case errors.Is(err, booking.ErrAlreadyCancelled):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket already cancelled"})
        case errors.Is(err, booking.ErrCancellationWindowClosed):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot cancel booking less than 2 hours before showtime"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancellation failed"})
    }

    publishCancelled(res)

    return c.JSON(http.StatusOK, echo.Map{
        "ticket_id":       res.Ticket.ID,
        "status":          res.Ticket.Status,
        "refund_cents":    res.Ticket.PriceCents,
        "available_seats": res.Showtime.AvailableSeats,
    })
}

// ListMyTickets handles GET /v1/my-tickets and returns the customer's
// booking history with showtime details joined in.
func (h *CustomerHandler) ListMyTickets(c echo.Context) error {
    customerID, err := getCustomerID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    views, err := h.Svc.GetUserTickets(c.Request().Context(), customerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if views == nil {
        views = []model.TicketView{}
    }
    return c.JSON(http.StatusOK, echo.Map{"tickets": views})
}

// HoldSeat handles POST /v1/showtimes/:id/hold.  It places a
// time-boxed hold on a seat so the customer can finish checkout
// without losing it.  The hold lapses on its own after the TTL.
func (h *CustomerHandler) HoldSeat(c echo.Context) error {
    customerID, err := getCustomerID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    showtimeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || showtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var req holdSeatReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    claim, err := h.Svc.HoldSeat(c.Request().Context(), customerID, showtimeID, req.Row, req.SeatNumber)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrInvalidSeat):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrShowtimeNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
        case errors.Is(err, repository.ErrSeatAlreadyBooked):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked, please choose another seat"})
        case errors.Is(err, repository.ErrSeatLocked):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat is currently held by another customer"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hold failed"})
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "showtime_id": claim.ShowtimeID,
        "seat":        claim.RowLabel + claim.SeatNumber,
        "expires_at":  claim.LockExpiresAt,
    })
}

// ReleaseHold handles DELETE /v1/showtimes/:id/hold and drops a hold
// previously placed by the same customer.
func (h *CustomerHandler) ReleaseHold(c echo.Context) error {
    customerID, err := getCustomerID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    showtimeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || showtimeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
    }
    var req holdSeatReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    if err := h.Svc.ReleaseHold(c.Request().Context(), customerID, showtimeID, req.Row, req.SeatNumber); err != nil {
        switch {
        case errors.Is(err, booking.ErrInvalidSeat):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrLockNotHeld):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no hold to release"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "hold released"})
}

// publishBooked emits a TicketBookedEvent in the background.  Broker
// trouble never fails the booking.
func publishBooked(res *booking.BookingResult) {
    ev := queue.TicketBookedEvent{
        TicketID:       res.Ticket.ID,
        BookingID:      res.Booking.ID,
        CustomerID:     res.Ticket.CustomerID,
        ShowtimeID:     res.Showtime.ID,
        MovieTitle:     res.Showtime.MovieTitle,
        SeatLabel:      res.Booking.SeatLabel,
        PriceCents:     res.Ticket.PriceCents,
        AvailableSeats: res.Showtime.AvailableSeats,
        BookedAt:       res.Ticket.PurchasedAt.Format(time.RFC3339),
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = queue_publisher.PublishTicketBooked(ctx, ev)
    }()
}

// publishCancelled emits a TicketCancelledEvent in the background.
func publishCancelled(res *booking.CancellationResult) {
    ev := queue.TicketCancelledEvent{
        TicketID:    res.Ticket.ID,
        CustomerID:  res.Ticket.CustomerID,
        ShowtimeID:  res.Showtime.ID,
        MovieTitle:  res.Showtime.MovieTitle,
        SeatLabel:   res.Ticket.RowLabel + res.Ticket.SeatNumber,
        RefundCents: res.Ticket.PriceCents,
        CancelledAt: time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = queue_publisher.PublishTicketCancelled(ctx, ev)
    }()
}
