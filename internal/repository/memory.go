package repository

import (
    "context"
    "sync"
    "time"

    "github.com/iliyamo/movie-ticket-platform/internal/model"
)

// MemoryStore is a mutex-guarded in-memory implementation of every
// store the booking core depends on.  It backs single-process
// deployments without MySQL and the concurrency tests; all methods
// are safe for concurrent use and apply the same uniqueness, version
// and counter-guard rules as the SQL repositories.  The per-store
// views returned by Showtimes, Ledger, Tickets, Payments and Bookings
// share one dataset and one lock.
type MemoryStore struct {
    mu sync.Mutex

    theaters  map[uint64]*model.Theater
    showtimes map[uint64]*model.Showtime
    claims    map[uint64]*model.SeatClaim
    claimKeys map[seatKey]uint64
    tickets   map[uint64]*model.Ticket
    payments  map[uint64]*model.Payment
    bookings  map[uint64]*model.Booking

    nextID uint64
}

type seatKey struct {
    showtimeID uint64
    row        string
    seat       string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
    return &MemoryStore{
        theaters:  make(map[uint64]*model.Theater),
        showtimes: make(map[uint64]*model.Showtime),
        claims:    make(map[uint64]*model.SeatClaim),
        claimKeys: make(map[seatKey]uint64),
        tickets:   make(map[uint64]*model.Ticket),
        payments:  make(map[uint64]*model.Payment),
        bookings:  make(map[uint64]*model.Booking),
    }
}

// Per-store views over the shared dataset.

// MemoryShowtimes exposes MemoryStore as a showtime store.
type MemoryShowtimes struct{ s *MemoryStore }

// MemoryLedger exposes MemoryStore as a seat ledger.
type MemoryLedger struct{ s *MemoryStore }

// MemoryTickets exposes MemoryStore as a ticket store.
type MemoryTickets struct{ s *MemoryStore }

// MemoryPayments exposes MemoryStore as a payment store.
type MemoryPayments struct{ s *MemoryStore }

// MemoryBookings exposes MemoryStore as a booking store.
type MemoryBookings struct{ s *MemoryStore }

func (s *MemoryStore) Showtimes() *MemoryShowtimes { return &MemoryShowtimes{s} }
func (s *MemoryStore) Ledger() *MemoryLedger       { return &MemoryLedger{s} }
func (s *MemoryStore) Tickets() *MemoryTickets     { return &MemoryTickets{s} }
func (s *MemoryStore) Payments() *MemoryPayments   { return &MemoryPayments{s} }
func (s *MemoryStore) Bookings() *MemoryBookings   { return &MemoryBookings{s} }

// id allocates the next identifier.  Callers hold mu.
func (s *MemoryStore) id() uint64 {
    s.nextID++
    return s.nextID
}

// AddTheater seeds a theater and returns its ID.
func (s *MemoryStore) AddTheater(name, location string, capacity uint32) uint64 {
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    t := &model.Theater{ID: s.id(), Name: name, Location: location, Capacity: capacity, CreatedAt: now, UpdatedAt: now}
    s.theaters[t.ID] = t
    return t.ID
}

// AddShowtime seeds a showtime with a full availability counter and
// returns its ID.  The theater must have been added first.
func (s *MemoryStore) AddShowtime(theaterID uint64, movieTitle string, startsAt, endsAt time.Time, priceCents uint32) uint64 {
    s.mu.Lock()
    defer s.mu.Unlock()
    th := s.theaters[theaterID]
    now := time.Now().UTC()
    st := &model.Showtime{
        ID:              s.id(),
        MovieTitle:      movieTitle,
        TheaterID:       theaterID,
        StartsAt:        startsAt.UTC(),
        EndsAt:          endsAt.UTC(),
        PriceCents:      priceCents,
        TheaterCapacity: th.Capacity,
        AvailableSeats:  th.Capacity,
        CreatedAt:       now,
        UpdatedAt:       now,
    }
    s.showtimes[st.ID] = st
    return st.ID
}

// GetByID returns a copy of the showtime or ErrShowtimeNotFound.
func (v *MemoryShowtimes) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    st, ok := s.showtimes[id]
    if !ok {
        return nil, ErrShowtimeNotFound
    }
    cp := *st
    return &cp, nil
}

// AdjustAvailableSeats applies delta to the availability counter,
// refusing adjustments that would leave [0, capacity].
func (v *MemoryShowtimes) AdjustAvailableSeats(ctx context.Context, id uint64, delta int) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    st, ok := s.showtimes[id]
    if !ok {
        return ErrShowtimeNotFound
    }
    next := int(st.AvailableSeats) + delta
    if next < 0 || next > int(st.TheaterCapacity) {
        return ErrCounterOutOfRange
    }
    st.AvailableSeats = uint32(next)
    st.UpdatedAt = time.Now().UTC()
    return nil
}

// GetClaim returns a copy of the claim for a seat or ErrClaimNotFound.
func (v *MemoryLedger) GetClaim(ctx context.Context, showtimeID uint64, row, seat string) (*model.SeatClaim, error) {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    id, ok := s.claimKeys[seatKey{showtimeID, row, seat}]
    if !ok {
        return nil, ErrClaimNotFound
    }
    return cloneClaim(s.claims[id]), nil
}

// CreateBooked inserts a claim in BOOKED status, failing with
// ErrSeatAlreadyBooked when a claim for the seat already exists.
func (v *MemoryLedger) CreateBooked(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64) (*model.SeatClaim, error) {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    key := seatKey{showtimeID, row, seat}
    if _, exists := s.claimKeys[key]; exists {
        return nil, ErrSeatAlreadyBooked
    }
    now := time.Now().UTC()
    cid := customerID
    c := &model.SeatClaim{
        ID:         s.id(),
        ShowtimeID: showtimeID,
        RowLabel:   row,
        SeatNumber: seat,
        Status:     model.ClaimBooked,
        CustomerID: &cid,
        Version:    1,
        CreatedAt:  now,
        UpdatedAt:  now,
    }
    s.claims[c.ID] = c
    s.claimKeys[key] = c.ID
    return cloneClaim(c), nil
}

// AcquireLock places or extends a time-boxed hold on the seat.
func (v *MemoryLedger) AcquireLock(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64, ttl time.Duration) (*model.SeatClaim, error) {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    key := seatKey{showtimeID, row, seat}
    id, exists := s.claimKeys[key]
    if !exists {
        exp := now.Add(ttl)
        cid := customerID
        c := &model.SeatClaim{
            ID:            s.id(),
            ShowtimeID:    showtimeID,
            RowLabel:      row,
            SeatNumber:    seat,
            Status:        model.ClaimReserved,
            CustomerID:    &cid,
            Version:       1,
            LockExpiresAt: &exp,
            CreatedAt:     now,
            UpdatedAt:     now,
        }
        s.claims[c.ID] = c
        s.claimKeys[key] = c.ID
        return cloneClaim(c), nil
    }
    c := s.claims[id]
    switch {
    case c.Status == model.ClaimBooked:
        return nil, ErrSeatAlreadyBooked
    case c.Status == model.ClaimReserved && !c.LockExpired(now) && !c.HeldBy(customerID, now):
        return nil, ErrSeatLocked
    }
    exp := now.Add(ttl)
    cid := customerID
    c.Status = model.ClaimReserved
    c.CustomerID = &cid
    c.LockExpiresAt = &exp
    c.Version++
    c.UpdatedAt = now
    return cloneClaim(c), nil
}

// ReleaseLock clears a hold owned by the caller or returns
// ErrLockNotHeld.
func (v *MemoryLedger) ReleaseLock(ctx context.Context, showtimeID uint64, row, seat string, customerID uint64) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    id, ok := s.claimKeys[seatKey{showtimeID, row, seat}]
    if !ok {
        return ErrLockNotHeld
    }
    c := s.claims[id]
    if c.Status != model.ClaimReserved || c.CustomerID == nil || *c.CustomerID != customerID {
        return ErrLockNotHeld
    }
    s.resetClaim(c)
    return nil
}

// PromoteWithVersion transitions a claim to BOOKED under a version
// check, returning ErrStaleWrite on mismatch.
func (v *MemoryLedger) PromoteWithVersion(ctx context.Context, claimID, customerID uint64, expectedVersion uint32) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    c, ok := s.claims[claimID]
    if !ok || c.Version != expectedVersion || c.Status == model.ClaimBooked {
        return ErrStaleWrite
    }
    cid := customerID
    c.Status = model.ClaimBooked
    c.CustomerID = &cid
    c.LockExpiresAt = nil
    c.Version++
    c.UpdatedAt = time.Now().UTC()
    return nil
}

// Release returns a claim to AVAILABLE.
func (v *MemoryLedger) Release(ctx context.Context, claimID uint64) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    c, ok := s.claims[claimID]
    if !ok {
        return ErrClaimNotFound
    }
    s.resetClaim(c)
    return nil
}

// Delete removes a claim outright.
func (v *MemoryLedger) Delete(ctx context.Context, claimID uint64) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    c, ok := s.claims[claimID]
    if !ok {
        return nil
    }
    delete(s.claimKeys, seatKey{c.ShowtimeID, c.RowLabel, c.SeatNumber})
    delete(s.claims, claimID)
    return nil
}

// resetClaim returns a claim to AVAILABLE.  Callers hold mu.
func (s *MemoryStore) resetClaim(c *model.SeatClaim) {
    c.Status = model.ClaimAvailable
    c.CustomerID = nil
    c.LockExpiresAt = nil
    c.Version++
    c.UpdatedAt = time.Now().UTC()
}

// Create inserts a ticket and fills in its generated ID.
func (v *MemoryTickets) Create(ctx context.Context, t *model.Ticket) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    t.ID = s.id()
    t.CreatedAt = now
    t.UpdatedAt = now
    cp := *t
    s.tickets[t.ID] = &cp
    return nil
}

// GetByIDForCustomer returns the customer's ticket or
// ErrTicketNotFound, including for tickets owned by someone else.
func (v *MemoryTickets) GetByIDForCustomer(ctx context.Context, id, customerID uint64) (*model.Ticket, error) {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    t, ok := s.tickets[id]
    if !ok || t.CustomerID != customerID {
        return nil, ErrTicketNotFound
    }
    cp := *t
    return &cp, nil
}

// HasActive reports whether a non-cancelled ticket exists for the seat.
func (v *MemoryTickets) HasActive(ctx context.Context, showtimeID uint64, row, seat string) (bool, error) {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, t := range s.tickets {
        if t.ShowtimeID == showtimeID && t.RowLabel == row && t.SeatNumber == seat && t.Status != model.TicketCancelled {
            return true, nil
        }
    }
    return false, nil
}

// SetStatus updates a ticket's status.
func (v *MemoryTickets) SetStatus(ctx context.Context, id uint64, status string) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    t, ok := s.tickets[id]
    if !ok {
        return ErrTicketNotFound
    }
    t.Status = status
    t.UpdatedAt = time.Now().UTC()
    return nil
}

// ListByCustomer returns the customer's tickets joined with showtime
// details, newest purchase first.
func (v *MemoryTickets) ListByCustomer(ctx context.Context, customerID uint64) ([]model.TicketView, error) {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.TicketView
    for _, t := range s.tickets {
        if t.CustomerID != customerID {
            continue
        }
        st := s.showtimes[t.ShowtimeID]
        if st == nil {
            continue
        }
        out = append(out, model.TicketView{
            TicketID:   t.ID,
            MovieTitle: st.MovieTitle,
            TheaterID:  st.TheaterID,
            StartsAt:   st.StartsAt,
            EndsAt:     st.EndsAt,
            RowLabel:   t.RowLabel,
            SeatNumber: t.SeatNumber,
            PriceCents: t.PriceCents,
            Status:     t.Status,
            BookedAt:   t.PurchasedAt,
        })
    }
    for i := 1; i < len(out); i++ {
        for j := i; j > 0 && out[j].BookedAt.After(out[j-1].BookedAt); j-- {
            out[j], out[j-1] = out[j-1], out[j]
        }
    }
    return out, nil
}

// Delete removes a ticket row.
func (v *MemoryTickets) Delete(ctx context.Context, id uint64) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    delete(s.tickets, id)
    return nil
}

// Create inserts a payment and fills in its generated ID.
func (v *MemoryPayments) Create(ctx context.Context, p *model.Payment) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    p.ID = s.id()
    p.CreatedAt = now
    p.UpdatedAt = now
    cp := *p
    s.payments[p.ID] = &cp
    return nil
}

// SetStatusByTicket updates the payment status for a ticket.
func (v *MemoryPayments) SetStatusByTicket(ctx context.Context, ticketID uint64, status string) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, p := range s.payments {
        if p.TicketID == ticketID {
            p.Status = status
            p.UpdatedAt = time.Now().UTC()
        }
    }
    return nil
}

// DeleteByTicket removes the payment for a ticket.
func (v *MemoryPayments) DeleteByTicket(ctx context.Context, ticketID uint64) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    for id, p := range s.payments {
        if p.TicketID == ticketID {
            delete(s.payments, id)
        }
    }
    return nil
}

// Create inserts a booking summary and fills in its generated ID.
func (v *MemoryBookings) Create(ctx context.Context, b *model.Booking) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    b.ID = s.id()
    b.CreatedAt = now
    b.UpdatedAt = now
    cp := *b
    s.bookings[b.ID] = &cp
    return nil
}

// SetStatusByTicket updates the booking wrapping a ticket.
func (v *MemoryBookings) SetStatusByTicket(ctx context.Context, ticketID uint64, status, paymentStatus string) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, b := range s.bookings {
        if b.TicketID == ticketID {
            b.Status = status
            b.PaymentStatus = paymentStatus
            b.UpdatedAt = time.Now().UTC()
        }
    }
    return nil
}

// DeleteByTicket removes the booking for a ticket.
func (v *MemoryBookings) DeleteByTicket(ctx context.Context, ticketID uint64) error {
    s := v.s
    s.mu.Lock()
    defer s.mu.Unlock()
    for id, b := range s.bookings {
        if b.TicketID == ticketID {
            delete(s.bookings, id)
        }
    }
    return nil
}

func cloneClaim(c *model.SeatClaim) *model.SeatClaim {
    cp := *c
    if c.CustomerID != nil {
        v := *c.CustomerID
        cp.CustomerID = &v
    }
    if c.LockExpiresAt != nil {
        t := *c.LockExpiresAt
        cp.LockExpiresAt = &t
    }
    return &cp
}
