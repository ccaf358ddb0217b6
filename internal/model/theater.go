package model

import "time"

// Theater represents a cinema venue that hosts showtimes.  This struct
// corresponds to a row in the `theaters` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique theater name.
//  Address   – street address.
//  City      – city the theater is located in.
//  ImageURL  – optional promotional image.
//  CreatedAt – timestamp when the theater was created.
type Theater struct {
	ID        uint64    // theaters.id
	Name      string    // theaters.name
	Address   string    // theaters.address
	City      string    // theaters.city
	ImageURL  *string   // theaters.image_url (nullable)
	CreatedAt time.Time // theaters.created_at
}
