package model

import "time"

// Theater represents a physical screening room.  The booking core only
// reads the Capacity column to bound the availability counter; theater
// management itself lives outside this service.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the theater.
//  Location  – free-form address or description.
//  Capacity  – number of physical seats.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Theater struct {
    ID        uint64    // theaters.id
    Name      string    // theaters.name
    Location  string    // theaters.location
    Capacity  uint32    // theaters.capacity
    CreatedAt time.Time // theaters.created_at
    UpdatedAt time.Time // theaters.updated_at
}
