// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a purchase commits. It
// carries enough of the booking snapshot for downstream consumers to
// log, notify or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID    string `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	ConcertID    string `json:"concert_id"`
	ConcertTitle string `json:"concert_title"`
	ConcertDate  string `json:"concert_date"`
	Venue        string `json:"venue"`
	TierID       string `json:"tier_id"`
	TierName     string `json:"tier_name"`
	Quantity     uint32 `json:"quantity"`
	TotalCents   uint32 `json:"total_cents"`
	ConfirmedAt  string `json:"confirmed_at"`
}
