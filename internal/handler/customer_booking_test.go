package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-platform/internal/booking"
	"github.com/iliyamo/movie-ticket-platform/internal/handler"
	"github.com/iliyamo/movie-ticket-platform/internal/repository"
)

// newBookingHandler wires a CustomerHandler to an in-memory store with
// one showtime and returns both plus the showtime ID.
func newBookingHandler(t *testing.T, startsIn time.Duration) (*handler.CustomerHandler, *repository.MemoryStore, uint64) {
	t.Helper()
	store := repository.NewMemoryStore()
	theaterID := store.AddTheater("Grand Hall", "Main Street 1", 100)
	starts := time.Now().UTC().Add(startsIn)
	showtimeID := store.AddShowtime(theaterID, "Blade Runner", starts, starts.Add(2*time.Hour), 1500)
	svc := booking.NewService(store.Showtimes(), store.Ledger(), store.Tickets(), store.Payments(), store.Bookings(), 0)
	return handler.NewCustomerHandler(svc), store, showtimeID
}

func doJSON(e *echo.Echo, method, target, body string, customerID uint64) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if customerID != 0 {
		c.Set("customer_id", customerID)
	}
	return rec, c
}

func TestBookTicketEndpoint(t *testing.T) {
	h, _, showtimeID := newBookingHandler(t, 48*time.Hour)
	e := echo.New()

	body := `{"showtime_id":` + uintStr(showtimeID) + `,"row":"A","seat_number":"12"}`

	rec, c := doJSON(e, http.MethodPost, "/v1/tickets", body, 1)
	require.NoError(t, h.BookTicket(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"seat":"A12"`)

	// Same seat again conflicts.
	rec, c = doJSON(e, http.MethodPost, "/v1/tickets", body, 2)
	require.NoError(t, h.BookTicket(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unauthenticated requests never reach the service.
	rec, c = doJSON(e, http.MethodPost, "/v1/tickets", body, 0)
	require.NoError(t, h.BookTicket(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown showtime is a 404.
	rec, c = doJSON(e, http.MethodPost, "/v1/tickets", `{"showtime_id":9999,"row":"A","seat_number":"1"}`, 1)
	require.NoError(t, h.BookTicket(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelBookingEndpoint(t *testing.T) {
	h, _, showtimeID := newBookingHandler(t, 48*time.Hour)
	e := echo.New()

	rec, c := doJSON(e, http.MethodPost, "/v1/tickets",
		`{"showtime_id":`+uintStr(showtimeID)+`,"row":"B","seat_number":"3"}`, 1)
	require.NoError(t, h.BookTicket(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// The ticket ID is 4 entities in: theater, showtime, claim, ticket.
	// Read it from the response instead of guessing.
	ticketID := extractUint(t, rec.Body.String(), `"ticket_id":`)

	rec, c = doJSON(e, http.MethodDelete, "/", "", 1)
	c.SetPath("/v1/tickets/:id")
	c.SetParamNames("id")
	c.SetParamValues(uintStr(ticketID))
	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)

	// Second cancellation reports the state.
	rec, c = doJSON(e, http.MethodDelete, "/", "", 1)
	c.SetPath("/v1/tickets/:id")
	c.SetParamNames("id")
	c.SetParamValues(uintStr(ticketID))
	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelBookingEndpoint_WindowClosed(t *testing.T) {
	h, _, showtimeID := newBookingHandler(t, time.Hour)
	e := echo.New()

	rec, c := doJSON(e, http.MethodPost, "/v1/tickets",
		`{"showtime_id":`+uintStr(showtimeID)+`,"row":"B","seat_number":"3"}`, 1)
	require.NoError(t, h.BookTicket(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	ticketID := extractUint(t, rec.Body.String(), `"ticket_id":`)

	rec, c = doJSON(e, http.MethodDelete, "/", "", 1)
	c.SetPath("/v1/tickets/:id")
	c.SetParamNames("id")
	c.SetParamValues(uintStr(ticketID))
	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "2 hours")
}

func TestHoldEndpoints(t *testing.T) {
	h, _, showtimeID := newBookingHandler(t, 48*time.Hour)
	e := echo.New()

	rec, c := doJSON(e, http.MethodPost, "/", `{"row":"C","seat_number":"4"}`, 1)
	c.SetPath("/v1/showtimes/:id/hold")
	c.SetParamNames("id")
	c.SetParamValues(uintStr(showtimeID))
	require.NoError(t, h.HoldSeat(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"seat":"C4"`)

	// Another customer cannot hold the same seat.
	rec, c = doJSON(e, http.MethodPost, "/", `{"row":"C","seat_number":"4"}`, 2)
	c.SetPath("/v1/showtimes/:id/hold")
	c.SetParamNames("id")
	c.SetParamValues(uintStr(showtimeID))
	require.NoError(t, h.HoldSeat(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Releasing someone else's hold is a 404.
	rec, c = doJSON(e, http.MethodDelete, "/", `{"row":"C","seat_number":"4"}`, 2)
	c.SetPath("/v1/showtimes/:id/hold")
	c.SetParamNames("id")
	c.SetParamValues(uintStr(showtimeID))
	require.NoError(t, h.ReleaseHold(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, c = doJSON(e, http.MethodDelete, "/", `{"row":"C","seat_number":"4"}`, 1)
	c.SetPath("/v1/showtimes/:id/hold")
	c.SetParamNames("id")
	c.SetParamValues(uintStr(showtimeID))
	require.NoError(t, h.ReleaseHold(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListMyTicketsEndpoint(t *testing.T) {
	h, _, showtimeID := newBookingHandler(t, 48*time.Hour)
	e := echo.New()

	rec, c := doJSON(e, http.MethodGet, "/v1/my-tickets", "", 1)
	require.NoError(t, h.ListMyTickets(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tickets":[]`)

	rec, c = doJSON(e, http.MethodPost, "/v1/tickets",
		`{"showtime_id":`+uintStr(showtimeID)+`,"row":"A","seat_number":"1"}`, 1)
	require.NoError(t, h.BookTicket(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = doJSON(e, http.MethodGet, "/v1/my-tickets", "", 1)
	require.NoError(t, h.ListMyTickets(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Blade Runner")
}

// uintStr formats an ID for building JSON bodies and path params.
func uintStr(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// extractUint pulls the first unsigned integer following marker out of
// a JSON response body.
func extractUint(t *testing.T, body, marker string) uint64 {
	t.Helper()
	idx := strings.Index(body, marker)
	require.GreaterOrEqual(t, idx, 0, "marker %q not found in %s", marker, body)
	rest := body[idx+len(marker):]
	var n uint64
	for _, r := range rest {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + uint64(r-'0')
	}
	require.NotZero(t, n)
	return n
}
