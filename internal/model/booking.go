package model

import "time"

// Booking status values. The cancellation path is accepted by the
// schema but no endpoint currently transitions a booking out of
// CONFIRMED.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking is an immutable receipt of a completed purchase. Rows in the
// `bookings` table are append-only and are never updated or deleted in
// place. Concert and tier fields are denormalized snapshots taken at
// purchase time so a receipt stays stable even if the catalog changes.
//
// Fields:
//  ID            – human-readable booking id ("BK" + hex suffix).
//  UserID        – account that paid for the booking.
//  ConcertID     – concert the tickets are for.
//  ConcertTitle  – concert title at time of purchase.
//  ConcertDate   – concert date at time of purchase.
//  ConcertVenue  – venue at time of purchase.
//  TierID        – tier purchased.
//  TierName      – tier display name at time of purchase.
//  PriceCents    – unit price at time of purchase.
//  Quantity      – number of tickets, 1..4.
//  TotalCents    – PriceCents * Quantity.
//  AttendeeName  – contact name (may differ from the account holder).
//  AttendeeEmail – contact email.
//  AttendeePhone – contact phone.
//  CardLast4     – last four digits of the payment card.
//  Status        – CONFIRMED or CANCELLED.
//  CreatedAt     – creation timestamp.
type Booking struct {
	ID            string    // bookings.id
	UserID        uint64    // bookings.user_id
	ConcertID     string    // bookings.concert_id
	ConcertTitle  string    // bookings.concert_title
	ConcertDate   string    // bookings.concert_date
	ConcertVenue  string    // bookings.concert_venue
	TierID        string    // bookings.tier_id
	TierName      string    // bookings.tier_name
	PriceCents    uint32    // bookings.price_cents
	Quantity      uint32    // bookings.quantity
	TotalCents    uint32    // bookings.total_cents
	AttendeeName  string    // bookings.attendee_name
	AttendeeEmail string    // bookings.attendee_email
	AttendeePhone string    // bookings.attendee_phone
	CardLast4     string    // bookings.card_last4
	Status        string    // bookings.status
	CreatedAt     time.Time // bookings.created_at
}
