package booking

import (
    "context"
    "errors"
    "log"
    "strings"
    "time"

    "github.com/iliyamo/movie-ticket-platform/internal/model"
    "github.com/iliyamo/movie-ticket-platform/internal/repository"
)

// cancelCutoff is the fixed window before a showtime inside which
// cancellation is permanently disallowed.
const cancelCutoff = 2 * time.Hour

// defaultHoldTTL bounds the lifetime of a pessimistic seat hold when
// no explicit TTL is configured.
const defaultHoldTTL = 15 * time.Minute

// maxClaimAttempts bounds the reread-and-retry loop on stale writes
// before the conflict is surfaced to the caller.
const maxClaimAttempts = 3

// Service is the booking orchestrator.  It turns a booking request
// into a confirmed ticket+payment+booking triple, or a well-defined
// rejection, and reverses the chain on cancellation.  Each operation
// is all-or-nothing from the caller's perspective: partially applied
// work is compensated before the error is returned.
type Service struct {
    showtimes ShowtimeStore
    ledger    SeatLedger
    tickets   TicketStore
    payments  PaymentStore
    bookings  BookingStore
    holdTTL   time.Duration
}

// NewService constructs a booking Service.  A non-positive holdTTL
// falls back to the 15 minute default.
func NewService(showtimes ShowtimeStore, ledger SeatLedger, tickets TicketStore, payments PaymentStore, bookings BookingStore, holdTTL time.Duration) *Service {
    if showtimes == nil || ledger == nil || tickets == nil || payments == nil || bookings == nil {
        panic("nil store passed to booking.NewService")
    }
    if holdTTL <= 0 {
        holdTTL = defaultHoldTTL
    }
    return &Service{
        showtimes: showtimes,
        ledger:    ledger,
        tickets:   tickets,
        payments:  payments,
        bookings:  bookings,
        holdTTL:   holdTTL,
    }
}

// BookTicketInput identifies the seat a customer wants to buy.
type BookTicketInput struct {
    CustomerID uint64
    ShowtimeID uint64
    RowLabel   string
    SeatNumber string
}

// BookingResult is the composed view returned after a successful
// booking.  Showtime is the snapshot loaded during the booking with
// AvailableSeats already reflecting this purchase.
type BookingResult struct {
    Ticket   model.Ticket
    Payment  model.Payment
    Booking  model.Booking
    Showtime model.Showtime
}

// BookTicket claims the requested seat, issues the ticket, payment
// and booking records, and decrements the showtime's availability
// counter.  Exactly one of two concurrent callers for the same seat
// wins; the loser receives repository.ErrSeatAlreadyBooked (or
// repository.ErrSeatLocked when the seat is held by a live
// reservation).  Any failure after the seat claim is compensated so
// no orphaned BOOKED claim survives.
func (s *Service) BookTicket(ctx context.Context, in BookTicketInput) (*BookingResult, error) {
    if in.CustomerID == 0 {
        return nil, ErrUnauthenticated
    }
    row := normalizeRow(in.RowLabel)
    seat := strings.TrimSpace(in.SeatNumber)
    if row == "" || seat == "" {
        return nil, ErrInvalidSeat
    }

    st, err := s.showtimes.GetByID(ctx, in.ShowtimeID)
    if err != nil {
        return nil, err
    }

    // Advisory pre-check against existing active tickets.  Two
    // requests can both pass this read; the unique key on the seat
    // ledger below is what actually decides the race.
    active, err := s.tickets.HasActive(ctx, st.ID, row, seat)
    if err != nil {
        return nil, err
    }
    if active {
        return nil, repository.ErrSeatAlreadyBooked
    }

    claim, claimCreated, err := s.claimSeat(ctx, st.ID, row, seat, in.CustomerID)
    if err != nil {
        return nil, err
    }

    now := time.Now().UTC()
    t := &model.Ticket{
        ShowtimeID:  st.ID,
        CustomerID:  in.CustomerID,
        SeatClaimID: claim.ID,
        RowLabel:    row,
        SeatNumber:  seat,
        PriceCents:  st.PriceCents,
        Status:      model.TicketConfirmed,
        PurchasedAt: now,
    }
    if err := s.tickets.Create(ctx, t); err != nil {
        s.undoClaim(ctx, claim, claimCreated)
        return nil, err
    }

    p := &model.Payment{
        TicketID:    t.ID,
        AmountCents: st.PriceCents,
        Method:      model.PaymentOnline,
        Status:      model.PaymentCompleted,
        PaidAt:      now,
    }
    if err := s.payments.Create(ctx, p); err != nil {
        s.rollbackBooking(ctx, claim, claimCreated, t.ID, false, false)
        return nil, err
    }

    b := &model.Booking{
        CustomerID:       in.CustomerID,
        ShowtimeID:       st.ID,
        SeatLabel:        row + seat,
        TotalAmountCents: st.PriceCents,
        Status:           model.BookingConfirmed,
        PaymentStatus:    model.BookingPaid,
        TicketID:         t.ID,
        PaymentID:        p.ID,
    }
    if err := s.bookings.Create(ctx, b); err != nil {
        s.rollbackBooking(ctx, claim, claimCreated, t.ID, true, false)
        return nil, err
    }

    if err := s.showtimes.AdjustAvailableSeats(ctx, st.ID, -1); err != nil {
        s.rollbackBooking(ctx, claim, claimCreated, t.ID, true, true)
        return nil, err
    }

    if st.AvailableSeats > 0 {
        st.AvailableSeats--
    }
    return &BookingResult{Ticket: *t, Payment: *p, Booking: *b, Showtime: *st}, nil
}

// claimSeat obtains a BOOKED claim for the seat, either by inserting
// a fresh claim (insert-if-absent, backed by the unique key) or by
// promoting an existing AVAILABLE/expired/own-held claim in place via
// the version CAS.  Stale writes are retried a bounded number of
// times; persistent contention surfaces as SeatAlreadyBooked.  The
// second return value reports whether the claim row was created by
// this call (and therefore must be deleted, not released, when
// compensating).
func (s *Service) claimSeat(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64) (*model.SeatClaim, bool, error) {
    for attempt := 0; attempt < maxClaimAttempts; attempt++ {
        existing, err := s.ledger.GetClaim(ctx, showtimeID, row, seat)
        if errors.Is(err, repository.ErrClaimNotFound) {
            claim, err := s.ledger.CreateBooked(ctx, showtimeID, row, seat, customerID)
            if err != nil {
                return nil, false, err
            }
            return claim, true, nil
        }
        if err != nil {
            return nil, false, err
        }

        now := time.Now().UTC()
        if existing.Status == model.ClaimBooked {
            return nil, false, repository.ErrSeatAlreadyBooked
        }
        if existing.Status == model.ClaimReserved && !existing.HeldBy(customerID, now) && !existing.LockExpired(now) {
            return nil, false, repository.ErrSeatLocked
        }

        // AVAILABLE, our own hold, or a lapsed hold: promote in place.
        err = s.ledger.PromoteWithVersion(ctx, existing.ID, customerID, existing.Version)
        if err == nil {
            existing.Status = model.ClaimBooked
            existing.CustomerID = &customerID
            existing.LockExpiresAt = nil
            existing.Version++
            return existing, false, nil
        }
        if errors.Is(err, repository.ErrStaleWrite) {
            continue // someone moved the claim under us; reread and retry
        }
        return nil, false, err
    }
    return nil, false, repository.ErrSeatAlreadyBooked
}

// undoClaim reverts the seat claim obtained by claimSeat.  Claims
// created by this booking are deleted; promoted claims are released
// back to AVAILABLE.
func (s *Service) undoClaim(ctx context.Context, claim *model.SeatClaim, created bool) {
    var err error
    if created {
        err = s.ledger.Delete(ctx, claim.ID)
    } else {
        err = s.ledger.Release(ctx, claim.ID)
    }
    if err != nil {
        log.Printf("booking: rollback failed to revert seat claim %d: %v (manual reconciliation required)", claim.ID, err)
    }
}

// rollbackBooking compensates a partially applied booking in reverse
// order.  Compensation failures cannot be recovered here; they are
// logged so an operator or reconciliation job can repair the store.
func (s *Service) rollbackBooking(ctx context.Context, claim *model.SeatClaim, claimCreated bool, ticketID uint64, havePayment, haveBooking bool) {
    if haveBooking {
        if err := s.bookings.DeleteByTicket(ctx, ticketID); err != nil {
            log.Printf("booking: rollback failed to delete booking for ticket %d: %v", ticketID, err)
        }
    }
    if havePayment {
        if err := s.payments.DeleteByTicket(ctx, ticketID); err != nil {
            log.Printf("booking: rollback failed to delete payment for ticket %d: %v", ticketID, err)
        }
    }
    if err := s.tickets.Delete(ctx, ticketID); err != nil {
        log.Printf("booking: rollback failed to delete ticket %d: %v", ticketID, err)
    }
    s.undoClaim(ctx, claim, claimCreated)
}

// CancellationResult reports what was cancelled so callers can notify
// downstream systems without rereading the stores.
type CancellationResult struct {
    Ticket   model.Ticket
    Showtime model.Showtime
}

// CancelBooking reverses a booking: the ticket is marked cancelled,
// the payment refunded, the booking record flipped, the availability
// counter incremented and the seat claim released back to AVAILABLE.
// Cancellations two hours or less before the showtime are rejected.
// The steps are applied with compensation so a mid-flight failure
// never leaves a half-cancelled booking behind.
func (s *Service) CancelBooking(ctx context.Context, customerID, ticketID uint64) (*CancellationResult, error) {
    if customerID == 0 {
        return nil, ErrUnauthenticated
    }
    // Ownership is enforced by the lookup: another customer's ticket
    // is indistinguishable from a missing one.
    t, err := s.tickets.GetByIDForCustomer(ctx, ticketID, customerID)
    if err != nil {
        return nil, err
    }
    if t.Status == model.TicketCancelled {
        return nil, ErrAlreadyCancelled
    }

    st, err := s.showtimes.GetByID(ctx, t.ShowtimeID)
    if err != nil {
        return nil, err
    }
    if time.Until(st.StartsAt) <= cancelCutoff {
        return nil, ErrCancellationWindowClosed
    }

    if err := s.tickets.SetStatus(ctx, t.ID, model.TicketCancelled); err != nil {
        return nil, err
    }
    if err := s.payments.SetStatusByTicket(ctx, t.ID, model.PaymentRefunded); err != nil {
        s.revertCancel(ctx, t.ID, false, false)
        return nil, err
    }
    if err := s.bookings.SetStatusByTicket(ctx, t.ID, model.BookingCancelled, model.BookingRefunded); err != nil {
        s.revertCancel(ctx, t.ID, true, false)
        return nil, err
    }
    if err := s.showtimes.AdjustAvailableSeats(ctx, st.ID, 1); err != nil {
        s.revertCancel(ctx, t.ID, true, true)
        return nil, err
    }
    if err := s.ledger.Release(ctx, t.SeatClaimID); err != nil {
        if adjErr := s.showtimes.AdjustAvailableSeats(ctx, st.ID, -1); adjErr != nil {
            log.Printf("booking: cancel rollback failed to restore counter for showtime %d: %v", st.ID, adjErr)
        }
        s.revertCancel(ctx, t.ID, true, true)
        return nil, err
    }
    t.Status = model.TicketCancelled
    st.AvailableSeats++
    return &CancellationResult{Ticket: *t, Showtime: *st}, nil
}

// revertCancel restores ticket/payment/booking status after a failed
// cancellation.  Failures are logged as inconsistencies.
func (s *Service) revertCancel(ctx context.Context, ticketID uint64, paymentRefunded, bookingCancelled bool) {
    if bookingCancelled {
        if err := s.bookings.SetStatusByTicket(ctx, ticketID, model.BookingConfirmed, model.BookingPaid); err != nil {
            log.Printf("booking: cancel rollback failed to restore booking for ticket %d: %v", ticketID, err)
        }
    }
    if paymentRefunded {
        if err := s.payments.SetStatusByTicket(ctx, ticketID, model.PaymentCompleted); err != nil {
            log.Printf("booking: cancel rollback failed to restore payment for ticket %d: %v", ticketID, err)
        }
    }
    if err := s.tickets.SetStatus(ctx, ticketID, model.TicketConfirmed); err != nil {
        log.Printf("booking: cancel rollback failed to restore ticket %d: %v", ticketID, err)
    }
}

// HoldSeat places a time-boxed RESERVED hold on a seat so the
// customer can complete checkout without losing it.  The hold expires
// automatically after the configured TTL; expiry is evaluated lazily
// at the next acquisition attempt, not by a background sweep.
func (s *Service) HoldSeat(ctx context.Context, customerID, showtimeID uint64, rowLabel, seatNumber string) (*model.SeatClaim, error) {
    if customerID == 0 {
        return nil, ErrUnauthenticated
    }
    row := normalizeRow(rowLabel)
    seat := strings.TrimSpace(seatNumber)
    if row == "" || seat == "" {
        return nil, ErrInvalidSeat
    }
    if _, err := s.showtimes.GetByID(ctx, showtimeID); err != nil {
        return nil, err
    }
    return s.ledger.AcquireLock(ctx, showtimeID, row, seat, customerID, s.holdTTL)
}

// ReleaseHold drops a hold previously placed by the same customer.
func (s *Service) ReleaseHold(ctx context.Context, customerID, showtimeID uint64, rowLabel, seatNumber string) error {
    if customerID == 0 {
        return ErrUnauthenticated
    }
    row := normalizeRow(rowLabel)
    seat := strings.TrimSpace(seatNumber)
    if row == "" || seat == "" {
        return ErrInvalidSeat
    }
    return s.ledger.ReleaseLock(ctx, showtimeID, row, seat, customerID)
}

// GetUserTickets returns the customer's tickets with showtime details.
// Each call issues a fresh query.
func (s *Service) GetUserTickets(ctx context.Context, customerID uint64) ([]model.TicketView, error) {
    if customerID == 0 {
        return nil, ErrUnauthenticated
    }
    return s.tickets.ListByCustomer(ctx, customerID)
}

// normalizeRow trims and upper-cases a row label so "a" and "A"
// address the same seat.
func normalizeRow(raw string) string {
    return strings.ToUpper(strings.TrimSpace(raw))
}
