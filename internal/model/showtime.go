package model

import "time"

// Showtime represents a scheduled screening of a movie in a theater
// over a specific time window.  The AvailableSeats column is a
// denormalized counter derived from the theater capacity minus the
// number of active tickets.  It is mutated exclusively by the booking
// core (decrement on booking, increment on cancellation) and must
// stay within [0, TheaterCapacity] at all times.
//
// Fields:
//  ID              – primary key identifier.
//  MovieTitle      – title of the movie being screened.
//  TheaterID       – theater in which the screening takes place.
//  StartsAt        – when the screening begins (UTC).
//  EndsAt          – when the screening ends (UTC).
//  PriceCents      – ticket price in cents for this showtime.
//  TheaterCapacity – physical seat capacity of the theater (joined in).
//  AvailableSeats  – cached count of seats still available.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Showtime struct {
    ID              uint64    // showtimes.id
    MovieTitle      string    // showtimes.movie_title
    TheaterID       uint64    // showtimes.theater_id
    StartsAt        time.Time // showtimes.starts_at
    EndsAt          time.Time // showtimes.ends_at
    PriceCents      uint32    // showtimes.price_cents
    TheaterCapacity uint32    // theaters.capacity (joined)
    AvailableSeats  uint32    // showtimes.available_seats
    CreatedAt       time.Time // showtimes.created_at
    UpdatedAt       time.Time // showtimes.updated_at
}
