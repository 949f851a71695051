package repository

import (
	"context"
	"database/sql"

	"github.com/stagepass/stagepass/internal/model"
)

// BookingRepo provides persistence for the append-only booking ledger.
// Rows are inserted exactly once by a successful purchase and never
// updated or deleted afterwards.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx appends a booking record within the purchase transaction.
// The caller supplies a fully populated booking (generated id,
// denormalized concert/tier snapshot, computed total); the only field
// filled in afterwards is CreatedAt, which is read back from the row
// so the receipt carries the database clock.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO bookings
		 (id, user_id, concert_id, concert_title, concert_date, concert_venue,
		  tier_id, tier_name, price_cents, quantity, total_cents,
		  attendee_name, attendee_email, attendee_phone, card_last4, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.UserID, b.ConcertID, b.ConcertTitle, b.ConcertDate, b.ConcertVenue,
		b.TierID, b.TierName, b.PriceCents, b.Quantity, b.TotalCents,
		b.AttendeeName, b.AttendeeEmail, b.AttendeePhone, b.CardLast4, b.Status)
	if err != nil {
		return err
	}
	return tx.QueryRowContext(ctx,
		"SELECT created_at FROM bookings WHERE id=?", b.ID).Scan(&b.CreatedAt)
}

// ListByUser returns all bookings belonging to the given user in
// ledger order. The auto-increment seq column defines that order:
// created_at has second precision and ids are random, so neither can
// order rows inserted within the same second. Callers sort by recency
// as needed.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, concert_id, concert_title, concert_date, concert_venue,
		        tier_id, tier_name, price_cents, quantity, total_cents,
		        attendee_name, attendee_email, attendee_phone, card_last4, status, created_at
		 FROM bookings WHERE user_id=? ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ConcertID, &b.ConcertTitle,
			&b.ConcertDate, &b.ConcertVenue, &b.TierID, &b.TierName,
			&b.PriceCents, &b.Quantity, &b.TotalCents,
			&b.AttendeeName, &b.AttendeeEmail, &b.AttendeePhone,
			&b.CardLast4, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
