package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-platform/internal/booking"
	"github.com/iliyamo/movie-ticket-platform/internal/model"
	"github.com/iliyamo/movie-ticket-platform/internal/repository"
)

// newTestService seeds one theater and one showtime and returns the
// service wired to an in-memory store.  The showtime starts far enough
// in the future that cancellation is allowed.
func newTestService(t *testing.T, capacity uint32, startsIn time.Duration) (*booking.Service, *repository.MemoryStore, uint64) {
	t.Helper()
	store := repository.NewMemoryStore()
	theaterID := store.AddTheater("Grand Hall", "Main Street 1", capacity)
	starts := time.Now().UTC().Add(startsIn)
	showtimeID := store.AddShowtime(theaterID, "Blade Runner", starts, starts.Add(2*time.Hour), 1500)
	svc := booking.NewService(store.Showtimes(), store.Ledger(), store.Tickets(), store.Payments(), store.Bookings(), 0)
	return svc, store, showtimeID
}

func availableSeats(t *testing.T, store *repository.MemoryStore, showtimeID uint64) uint32 {
	t.Helper()
	st, err := store.Showtimes().GetByID(context.Background(), showtimeID)
	require.NoError(t, err)
	return st.AvailableSeats
}

func TestBookTicket_Success(t *testing.T) {
	svc, store, showtimeID := newTestService(t, 100, 48*time.Hour)
	ctx := context.Background()

	res, err := svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "a", SeatNumber: "1",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TicketConfirmed, res.Ticket.Status)
	assert.Equal(t, "A", res.Ticket.RowLabel, "row labels are normalized to upper case")
	assert.Equal(t, uint32(1500), res.Ticket.PriceCents)
	assert.Equal(t, model.PaymentCompleted, res.Payment.Status)
	assert.Equal(t, model.BookingConfirmed, res.Booking.Status)
	assert.Equal(t, "A1", res.Booking.SeatLabel)
	assert.Equal(t, uint32(99), res.Showtime.AvailableSeats)
	assert.Equal(t, uint32(99), availableSeats(t, store, showtimeID))

	claim, err := store.Ledger().GetClaim(ctx, showtimeID, "A", "1")
	require.NoError(t, err)
	assert.Equal(t, model.ClaimBooked, claim.Status)
	require.NotNil(t, claim.CustomerID)
	assert.Equal(t, uint64(1), *claim.CustomerID)
}

func TestBookTicket_SeatConflict(t *testing.T) {
	svc, store, showtimeID := newTestService(t, 100, 48*time.Hour)
	ctx := context.Background()

	_, err := svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1",
	})
	require.NoError(t, err)

	_, err = svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 2, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1",
	})
	assert.ErrorIs(t, err, repository.ErrSeatAlreadyBooked)
	assert.Equal(t, uint32(99), availableSeats(t, store, showtimeID), "losing request must not touch the counter")
}

func TestBookTicket_Validation(t *testing.T) {
	svc, _, showtimeID := newTestService(t, 10, 48*time.Hour)
	ctx := context.Background()

	_, err := svc.BookTicket(ctx, booking.BookTicketInput{CustomerID: 0, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1"})
	assert.ErrorIs(t, err, booking.ErrUnauthenticated)

	_, err = svc.BookTicket(ctx, booking.BookTicketInput{CustomerID: 1, ShowtimeID: showtimeID, RowLabel: " ", SeatNumber: "1"})
	assert.ErrorIs(t, err, booking.ErrInvalidSeat)

	_, err = svc.BookTicket(ctx, booking.BookTicketInput{CustomerID: 1, ShowtimeID: 9999, RowLabel: "A", SeatNumber: "1"})
	assert.ErrorIs(t, err, repository.ErrShowtimeNotFound)
}

func TestBookTicket_Concurrent_OneWinner(t *testing.T) {
	svc, store, showtimeID := newTestService(t, 100, 48*time.Hour)

	const goroutines = 50
	var wg sync.WaitGroup
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.BookTicket(context.Background(), booking.BookTicketInput{
				CustomerID: uint64(i + 1), ShowtimeID: showtimeID, RowLabel: "B", SeatNumber: "7",
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		if !errors.Is(err, repository.ErrSeatAlreadyBooked) && !errors.Is(err, repository.ErrSeatLocked) {
			t.Fatalf("unexpected error from losing request: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent request may win the seat")
	assert.Equal(t, uint32(99), availableSeats(t, store, showtimeID))
}

// failingPayments wraps the real payment store and fails Create, to
// exercise the compensation path.
type failingPayments struct {
	booking.PaymentStore
}

func (f *failingPayments) Create(ctx context.Context, p *model.Payment) error {
	return errors.New("payment store down")
}

func TestBookTicket_RollbackOnPaymentFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	theaterID := store.AddTheater("Grand Hall", "Main Street 1", 100)
	starts := time.Now().UTC().Add(48 * time.Hour)
	showtimeID := store.AddShowtime(theaterID, "Blade Runner", starts, starts.Add(2*time.Hour), 1500)

	svc := booking.NewService(store.Showtimes(), store.Ledger(), store.Tickets(),
		&failingPayments{store.Payments()}, store.Bookings(), 0)
	ctx := context.Background()

	_, err := svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1",
	})
	require.Error(t, err)

	// Everything must be rolled back: no claim, no ticket, full counter.
	_, err = store.Ledger().GetClaim(ctx, showtimeID, "A", "1")
	assert.ErrorIs(t, err, repository.ErrClaimNotFound)
	active, err := store.Tickets().HasActive(ctx, showtimeID, "A", "1")
	require.NoError(t, err)
	assert.False(t, active)
	assert.Equal(t, uint32(100), availableSeats(t, store, showtimeID))

	// The seat is bookable again with a healthy payment store.
	healthy := booking.NewService(store.Showtimes(), store.Ledger(), store.Tickets(), store.Payments(), store.Bookings(), 0)
	_, err = healthy.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 2, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1",
	})
	assert.NoError(t, err)
}

func TestCancelBooking_ReleasesSeatAndRestoresCounter(t *testing.T) {
	svc, store, showtimeID := newTestService(t, 100, 48*time.Hour)
	ctx := context.Background()

	res, err := svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1",
	})
	require.NoError(t, err)
	require.Equal(t, uint32(99), availableSeats(t, store, showtimeID))

	cancelled, err := svc.CancelBooking(ctx, 1, res.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketCancelled, cancelled.Ticket.Status)
	assert.Equal(t, uint32(100), availableSeats(t, store, showtimeID))

	claim, err := store.Ledger().GetClaim(ctx, showtimeID, "A", "1")
	require.NoError(t, err)
	assert.Equal(t, model.ClaimAvailable, claim.Status)

	// Another customer can take the freed seat.
	_, err = svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 2, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(99), availableSeats(t, store, showtimeID))
}

func TestCancelBooking_WindowClosed(t *testing.T) {
	svc, _, showtimeID := newTestService(t, 100, 3*time.Hour)
	ctx := context.Background()

	res, err := svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1",
	})
	require.NoError(t, err)

	// Move the clock by reseeding: a showtime 90 minutes out is inside
	// the two hour cutoff.
	closeSvc, _, closeShowtimeID := newTestService(t, 100, 90*time.Minute)
	closeRes, err := closeSvc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: closeShowtimeID, RowLabel: "A", SeatNumber: "1",
	})
	require.NoError(t, err)

	_, err = closeSvc.CancelBooking(ctx, 1, closeRes.Ticket.ID)
	assert.ErrorIs(t, err, booking.ErrCancellationWindowClosed)

	// Outside the window cancellation goes through.
	_, err = svc.CancelBooking(ctx, 1, res.Ticket.ID)
	assert.NoError(t, err)
}

func TestCancelBooking_CutoffBoundary(t *testing.T) {
	// Exactly at the boundary the request is rejected: the window is
	// "more than two hours before", not "at least".
	svc, _, showtimeID := newTestService(t, 100, 2*time.Hour)
	ctx := context.Background()

	res, err := svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1",
	})
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, 1, res.Ticket.ID)
	assert.ErrorIs(t, err, booking.ErrCancellationWindowClosed)

	justOutside, _, outsideID := newTestService(t, 100, 2*time.Hour+time.Minute)
	outRes, err := justOutside.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: outsideID, RowLabel: "A", SeatNumber: "1",
	})
	require.NoError(t, err)
	_, err = justOutside.CancelBooking(ctx, 1, outRes.Ticket.ID)
	assert.NoError(t, err)
}

func TestCancelBooking_OwnershipAndIdempotence(t *testing.T) {
	svc, _, showtimeID := newTestService(t, 100, 48*time.Hour)
	ctx := context.Background()

	res, err := svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1",
	})
	require.NoError(t, err)

	// A different customer sees someone else's ticket as missing.
	_, err = svc.CancelBooking(ctx, 2, res.Ticket.ID)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)

	_, err = svc.CancelBooking(ctx, 1, res.Ticket.ID)
	require.NoError(t, err)

	// Cancelling twice reports the state instead of silently passing.
	_, err = svc.CancelBooking(ctx, 1, res.Ticket.ID)
	assert.ErrorIs(t, err, booking.ErrAlreadyCancelled)
}

func TestHoldSeat_BlocksOthersUntilExpiry(t *testing.T) {
	store := repository.NewMemoryStore()
	theaterID := store.AddTheater("Grand Hall", "Main Street 1", 100)
	starts := time.Now().UTC().Add(48 * time.Hour)
	showtimeID := store.AddShowtime(theaterID, "Blade Runner", starts, starts.Add(2*time.Hour), 1500)
	svc := booking.NewService(store.Showtimes(), store.Ledger(), store.Tickets(), store.Payments(), store.Bookings(), time.Minute)
	ctx := context.Background()

	claim, err := svc.HoldSeat(ctx, 1, showtimeID, "C", "4")
	require.NoError(t, err)
	require.NotNil(t, claim.LockExpiresAt)

	// The live hold blocks other customers from booking or holding.
	_, err = svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 2, ShowtimeID: showtimeID, RowLabel: "C", SeatNumber: "4",
	})
	assert.ErrorIs(t, err, repository.ErrSeatLocked)
	_, err = svc.HoldSeat(ctx, 2, showtimeID, "C", "4")
	assert.ErrorIs(t, err, repository.ErrSeatLocked)

	// The holder can book their own held seat.
	res, err := svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "C", SeatNumber: "4",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TicketConfirmed, res.Ticket.Status)
}

func TestHoldSeat_ExpiredHoldIsReclaimable(t *testing.T) {
	store := repository.NewMemoryStore()
	theaterID := store.AddTheater("Grand Hall", "Main Street 1", 100)
	starts := time.Now().UTC().Add(48 * time.Hour)
	showtimeID := store.AddShowtime(theaterID, "Blade Runner", starts, starts.Add(2*time.Hour), 1500)
	svc := booking.NewService(store.Showtimes(), store.Ledger(), store.Tickets(), store.Payments(), store.Bookings(), 10*time.Millisecond)
	ctx := context.Background()

	_, err := svc.HoldSeat(ctx, 1, showtimeID, "C", "4")
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	// Expiry is evaluated lazily at the next acquisition attempt.
	res, err := svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 2, ShowtimeID: showtimeID, RowLabel: "C", SeatNumber: "4",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Ticket)
	assert.Equal(t, uint64(2), res.Ticket.CustomerID)
}

func TestReleaseHold(t *testing.T) {
	svc, _, showtimeID := newTestService(t, 100, 48*time.Hour)
	ctx := context.Background()

	_, err := svc.HoldSeat(ctx, 1, showtimeID, "D", "2")
	require.NoError(t, err)

	// Only the owner can release.
	err = svc.ReleaseHold(ctx, 2, showtimeID, "D", "2")
	assert.ErrorIs(t, err, repository.ErrLockNotHeld)

	err = svc.ReleaseHold(ctx, 1, showtimeID, "D", "2")
	require.NoError(t, err)

	// Released seats are free for anyone.
	_, err = svc.BookTicket(ctx, booking.BookTicketInput{
		CustomerID: 2, ShowtimeID: showtimeID, RowLabel: "D", SeatNumber: "2",
	})
	assert.NoError(t, err)
}

func TestAvailabilityCounterNeverUnderflows(t *testing.T) {
	svc, store, showtimeID := newTestService(t, 2, 48*time.Hour)
	ctx := context.Background()

	_, err := svc.BookTicket(ctx, booking.BookTicketInput{CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1"})
	require.NoError(t, err)
	_, err = svc.BookTicket(ctx, booking.BookTicketInput{CustomerID: 2, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "2"})
	require.NoError(t, err)
	require.Equal(t, uint32(0), availableSeats(t, store, showtimeID))

	// A third distinct seat exists physically but the counter guard
	// refuses to go below zero and the booking is compensated away.
	_, err = svc.BookTicket(ctx, booking.BookTicketInput{CustomerID: 3, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "3"})
	require.Error(t, err)
	assert.Equal(t, uint32(0), availableSeats(t, store, showtimeID))
	_, err = store.Ledger().GetClaim(ctx, showtimeID, "A", "3")
	assert.ErrorIs(t, err, repository.ErrClaimNotFound)
}

func TestGetUserTickets(t *testing.T) {
	svc, _, showtimeID := newTestService(t, 100, 48*time.Hour)
	ctx := context.Background()

	_, err := svc.BookTicket(ctx, booking.BookTicketInput{CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "1"})
	require.NoError(t, err)
	res2, err := svc.BookTicket(ctx, booking.BookTicketInput{CustomerID: 1, ShowtimeID: showtimeID, RowLabel: "A", SeatNumber: "2"})
	require.NoError(t, err)
	_, err = svc.BookTicket(ctx, booking.BookTicketInput{CustomerID: 2, ShowtimeID: showtimeID, RowLabel: "B", SeatNumber: "1"})
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, 1, res2.Ticket.ID)
	require.NoError(t, err)

	views, err := svc.GetUserTickets(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 2, "history keeps cancelled tickets")
	for _, v := range views {
		assert.Equal(t, "Blade Runner", v.MovieTitle)
	}

	statuses := map[string]int{}
	for _, v := range views {
		statuses[v.Status]++
	}
	assert.Equal(t, 1, statuses[model.TicketConfirmed])
	assert.Equal(t, 1, statuses[model.TicketCancelled])
}
