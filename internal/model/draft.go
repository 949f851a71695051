package model

import "time"

// Draft is a pending-order record carrying an in-progress booking
// selection between the seat-selection step and the payment step. It
// lives in Redis under a generated id with a TTL, so several drafts can
// be in flight at once (multi-tab) and abandoned drafts expire on their
// own instead of going stale.
type Draft struct {
	ID            string    `json:"id"`
	UserID        uint64    `json:"user_id"`
	ConcertID     string    `json:"concert_id"`
	TierID        string    `json:"tier_id"`
	Quantity      uint32    `json:"quantity"`
	AttendeeName  string    `json:"attendee_name"`
	AttendeeEmail string    `json:"attendee_email"`
	AttendeePhone string    `json:"attendee_phone"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}
