package repository

import (
	"context"
	"database/sql"

	"github.com/stagepass/stagepass/internal/model"
)

// ConcertRepo provides read access to the concert catalog and the
// transactional tier mutations used by the booking purchase path.
// Catalog rows are seeded at startup; the only writer afterwards is
// the purchase transaction, which decrements tier remaining counts and
// recomputes the concert status.
type ConcertRepo struct {
	db *sql.DB
}

// NewConcertRepo returns a new ConcertRepo bound to the given database.
func NewConcertRepo(db *sql.DB) *ConcertRepo { return &ConcertRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning concert and booking writes.
func (r *ConcertRepo) DB() *sql.DB { return r.db }

const concertColumns = "id, title, artist, venue, show_date, show_time, genre, image, status, created_at, updated_at"

func scanConcert(row interface{ Scan(...any) error }, c *model.Concert) error {
	return row.Scan(&c.ID, &c.Title, &c.Artist, &c.Venue, &c.Date, &c.Time,
		&c.Genre, &c.Image, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}

// List returns all concerts with their tiers in stable seeded order:
// concerts by id, tiers by sort_order within each concert.
func (r *ConcertRepo) List(ctx context.Context) ([]model.Concert, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+concertColumns+" FROM concerts ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	concerts := make([]model.Concert, 0)
	index := make(map[string]int)
	for rows.Next() {
		var c model.Concert
		if err := scanConcert(rows, &c); err != nil {
			return nil, err
		}
		c.Tiers = []model.Tier{}
		index[c.ID] = len(concerts)
		concerts = append(concerts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(concerts) == 0 {
		return concerts, nil
	}

	// Attach all tiers in a single query rather than one per concert.
	trows, err := r.db.QueryContext(ctx,
		`SELECT concert_id, id, name, price_cents, total, remaining, color, sort_order
		 FROM tiers ORDER BY concert_id, sort_order`)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.Tier
		if err := trows.Scan(&t.ConcertID, &t.ID, &t.Name, &t.PriceCents,
			&t.Total, &t.Remaining, &t.Color, &t.SortOrder); err != nil {
			return nil, err
		}
		if i, ok := index[t.ConcertID]; ok {
			concerts[i].Tiers = append(concerts[i].Tiers, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return concerts, nil
}

// GetByID returns a single concert with its tiers. It returns
// ErrConcertNotFound when no row matches.
func (r *ConcertRepo) GetByID(ctx context.Context, id string) (*model.Concert, error) {
	var c model.Concert
	err := scanConcert(r.db.QueryRowContext(ctx,
		"SELECT "+concertColumns+" FROM concerts WHERE id=?", id), &c)
	if err == sql.ErrNoRows {
		return nil, ErrConcertNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Tiers = []model.Tier{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT concert_id, id, name, price_cents, total, remaining, color, sort_order
		 FROM tiers WHERE concert_id=? ORDER BY sort_order`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Tier
		if err := rows.Scan(&t.ConcertID, &t.ID, &t.Name, &t.PriceCents,
			&t.Total, &t.Remaining, &t.Color, &t.SortOrder); err != nil {
			return nil, err
		}
		c.Tiers = append(c.Tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetForUpdateTx loads a concert row inside a transaction and locks it
// for the duration of the purchase. It returns ErrConcertNotFound when
// the id does not exist. Locking the concert row first gives purchases
// on the same concert a stable lock order (concert, then tier).
func (r *ConcertRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.Concert, error) {
	var c model.Concert
	err := scanConcert(tx.QueryRowContext(ctx,
		"SELECT "+concertColumns+" FROM concerts WHERE id=? FOR UPDATE", id), &c)
	if err == sql.ErrNoRows {
		return nil, ErrConcertNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetTierForUpdateTx loads and locks a tier row inside a transaction.
// It returns ErrTierNotFound when the tier does not exist within the
// concert.
func (r *ConcertRepo) GetTierForUpdateTx(ctx context.Context, tx *sql.Tx, concertID, tierID string) (*model.Tier, error) {
	var t model.Tier
	err := tx.QueryRowContext(ctx,
		`SELECT concert_id, id, name, price_cents, total, remaining, color, sort_order
		 FROM tiers WHERE concert_id=? AND id=? FOR UPDATE`, concertID, tierID).
		Scan(&t.ConcertID, &t.ID, &t.Name, &t.PriceCents, &t.Total, &t.Remaining, &t.Color, &t.SortOrder)
	if err == sql.ErrNoRows {
		return nil, ErrTierNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DecrementRemainingTx subtracts quantity from a tier's remaining count
// using a guarded update. The `remaining >= ?` predicate makes the
// decrement a compare-and-decrement: even if the earlier availability
// check raced with another writer, remaining can never go below zero.
// It returns ErrInsufficientInventory when the guard rejects the row.
func (r *ConcertRepo) DecrementRemainingTx(ctx context.Context, tx *sql.Tx, concertID, tierID string, quantity uint32) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE tiers SET remaining = remaining - ? WHERE concert_id=? AND id=? AND remaining >= ?",
		quantity, concertID, tierID, quantity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientInventory
	}
	return nil
}

// TiersWithSeatsTx counts the concert's tiers that still have seats.
// The purchase path uses it after the decrement to recompute the
// sold-out status from tier data instead of trusting a stored flag.
func (r *ConcertRepo) TiersWithSeatsTx(ctx context.Context, tx *sql.Tx, concertID string) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tiers WHERE concert_id=? AND remaining > 0",
		concertID).Scan(&n)
	return n, err
}

// SetStatusTx updates a concert's status inside a transaction.
func (r *ConcertRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, concertID, status string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE concerts SET status=? WHERE id=?", status, concertID)
	return err
}
