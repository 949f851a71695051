package model

import "time"

// Concert status values. SOLDOUT is recomputed from tier data on every
// mutation path that touches remaining counts; it is never maintained
// independently of the tiers.
const (
	ConcertAvailable = "AVAILABLE"
	ConcertSoldOut   = "SOLDOUT"
	ConcertUpcoming  = "UPCOMING"
)

// Concert represents an event in the catalog together with its ordered
// seating tiers. Concerts are seeded at first run and mutated only by
// tier-count decrements during booking.
//
// Fields:
//  ID        – short catalog identifier (e.g. "c001").
//  Title     – event title.
//  Artist    – performing artist.
//  Venue     – venue name and city.
//  Date      – show date in YYYY-MM-DD form.
//  Time      – door/start time in HH:MM form.
//  Genre     – display genre.
//  Image     – image path served by the storefront.
//  Status    – AVAILABLE, SOLDOUT or UPCOMING.
//  Tiers     – seating tiers in seeded display order.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Concert struct {
	ID        string    // concerts.id
	Title     string    // concerts.title
	Artist    string    // concerts.artist
	Venue     string    // concerts.venue
	Date      string    // concerts.show_date
	Time      string    // concerts.show_time
	Genre     string    // concerts.genre
	Image     string    // concerts.image
	Status    string    // concerts.status
	Tiers     []Tier    // tiers rows ordered by sort_order
	CreatedAt time.Time // concerts.created_at
	UpdatedAt time.Time // concerts.updated_at
}

// Tier is a priced seating class within a concert. The invariant
// 0 <= Remaining <= Total holds at all times; Remaining only ever
// decreases, and only through the booking purchase transaction.
//
// Fields:
//  ConcertID  – owning concert.
//  ID         – tier identifier unique within the concert (vip, gold, silver).
//  Name       – display name of the tier.
//  PriceCents – unit price in the smallest currency unit.
//  Total      – fixed seat capacity of the tier.
//  Remaining  – unsold seat count, 0..Total.
//  Color      – display color used by the storefront.
//  SortOrder  – position within the concert's tier list.
type Tier struct {
	ConcertID  string // tiers.concert_id
	ID         string // tiers.id
	Name       string // tiers.name
	PriceCents uint32 // tiers.price_cents
	Total      uint32 // tiers.total
	Remaining  uint32 // tiers.remaining
	Color      string // tiers.color
	SortOrder  uint32 // tiers.sort_order
}
