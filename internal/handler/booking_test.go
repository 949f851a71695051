package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagepass/stagepass/internal/queue"
	"github.com/stagepass/stagepass/internal/repository"
)

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// publishRecorder captures the event published after a purchase commits.
type publishRecorder struct {
	mu sync.Mutex
	ev *queue.BookingConfirmedEvent
	ch chan struct{}
}

func newPublishRecorder() *publishRecorder {
	return &publishRecorder{ch: make(chan struct{}, 1)}
}

func (p *publishRecorder) publish(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	p.ev = &ev
	p.mu.Unlock()
	p.ch <- struct{}{}
	return nil
}

func (p *publishRecorder) wait(t *testing.T) queue.BookingConfirmedEvent {
	t.Helper()
	select {
	case <-p.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.ev
}

func lockedConcertRows(status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "artist", "venue", "show_date", "show_time",
		"genre", "image", "status", "created_at", "updated_at",
	}).AddRow("c001", "Midnight Frequencies", "Luna Eclipse", "The Grand Arena",
		"2026-03-15", "20:00", "Electronic", "", status, now, now)
}

func lockedTierRows(remaining uint32) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"concert_id", "id", "name", "price_cents", "total", "remaining", "color", "sort_order",
	}).AddRow("c001", "vip", "VIP", 15000, 50, remaining, "#FFD700", 1)
}

const purchaseBody = `{
	"concert_id": "c001",
	"tier_id": "vip",
	"quantity": 3,
	"attendee_name": "Ada Lovelace",
	"attendee_email": "Ada@Example.com",
	"attendee_phone": "555-0101",
	"card_number": "4242 4242 4242 4242"
}`

func TestPurchaseSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM concerts WHERE id=. FOR UPDATE").
		WithArgs("c001").WillReturnRows(lockedConcertRows("AVAILABLE"))
	mock.ExpectQuery("FROM tiers WHERE concert_id=. AND id=. FOR UPDATE").
		WithArgs("c001", "vip").WillReturnRows(lockedTierRows(47))
	mock.ExpectExec("UPDATE tiers SET remaining = remaining -").
		WithArgs(uint32(3), "c001", "vip", uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tiers WHERE concert_id=. AND remaining > 0`).
		WithArgs("c001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT created_at FROM bookings WHERE id=").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectCommit()

	rec := newPublishRecorder()
	h := &BookingHandler{
		Concerts: repository.NewConcertRepo(db),
		Bookings: repository.NewBookingRepo(db),
		Publish:  rec.publish,
	}

	c, w := newJSONContext(t, http.MethodPost, "/v1/bookings", purchaseBody)
	c.Set("user_id", uint64(9))

	require.NoError(t, h.Purchase(c))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Booking BookingReceipt `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	b := resp.Booking
	assert.True(t, strings.HasPrefix(b.ID, "BK"))
	assert.Equal(t, "c001", b.ConcertID)
	assert.Equal(t, "Midnight Frequencies", b.ConcertTitle)
	assert.Equal(t, uint32(15000), b.PriceCents)
	assert.Equal(t, uint32(3), b.Quantity)
	assert.Equal(t, uint32(45000), b.TotalCents)
	assert.Equal(t, "ada@example.com", b.AttendeeEmail)
	assert.Equal(t, "4242", b.CardLast4)
	assert.Equal(t, "CONFIRMED", b.Status)

	ev := rec.wait(t)
	assert.Equal(t, b.ID, ev.BookingID)
	assert.Equal(t, uint64(9), ev.UserID)
	assert.Equal(t, uint32(45000), ev.TotalCents)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseInsufficientInventory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM concerts WHERE id=. FOR UPDATE").
		WithArgs("c001").WillReturnRows(lockedConcertRows("AVAILABLE"))
	mock.ExpectQuery("FROM tiers WHERE concert_id=. AND id=. FOR UPDATE").
		WithArgs("c001", "vip").WillReturnRows(lockedTierRows(2))
	// No decrement, no insert: the transaction rolls back untouched.
	mock.ExpectRollback()

	h := &BookingHandler{
		Concerts: repository.NewConcertRepo(db),
		Bookings: repository.NewBookingRepo(db),
	}

	c, w := newJSONContext(t, http.MethodPost, "/v1/bookings", purchaseBody)
	c.Set("user_id", uint64(9))

	require.NoError(t, h.Purchase(c))
	require.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "insufficient inventory", resp["error"])
	assert.EqualValues(t, 2, resp["remaining"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseMarksConcertSoldOut(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM concerts WHERE id=. FOR UPDATE").
		WithArgs("c001").WillReturnRows(lockedConcertRows("AVAILABLE"))
	mock.ExpectQuery("FROM tiers WHERE concert_id=. AND id=. FOR UPDATE").
		WithArgs("c001", "vip").WillReturnRows(lockedTierRows(3))
	mock.ExpectExec("UPDATE tiers SET remaining = remaining -").
		WithArgs(uint32(3), "c001", "vip", uint32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tiers WHERE concert_id=. AND remaining > 0`).
		WithArgs("c001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE concerts SET status=").
		WithArgs("SOLDOUT", "c001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT created_at FROM bookings WHERE id=").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	h := &BookingHandler{
		Concerts: repository.NewConcertRepo(db),
		Bookings: repository.NewBookingRepo(db),
	}

	c, w := newJSONContext(t, http.MethodPost, "/v1/bookings", purchaseBody)
	c.Set("user_id", uint64(9))

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseConcertNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM concerts WHERE id=. FOR UPDATE").
		WithArgs("c001").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "artist", "venue", "show_date", "show_time",
			"genre", "image", "status", "created_at", "updated_at",
		}))
	mock.ExpectRollback()

	h := &BookingHandler{
		Concerts: repository.NewConcertRepo(db),
		Bookings: repository.NewBookingRepo(db),
	}

	c, w := newJSONContext(t, http.MethodPost, "/v1/bookings", purchaseBody)
	c.Set("user_id", uint64(9))

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseTierNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM concerts WHERE id=. FOR UPDATE").
		WithArgs("c001").WillReturnRows(lockedConcertRows("AVAILABLE"))
	mock.ExpectQuery("FROM tiers WHERE concert_id=. AND id=. FOR UPDATE").
		WithArgs("c001", "vip").
		WillReturnRows(sqlmock.NewRows([]string{
			"concert_id", "id", "name", "price_cents", "total", "remaining", "color", "sort_order",
		}))
	mock.ExpectRollback()

	h := &BookingHandler{
		Concerts: repository.NewConcertRepo(db),
		Bookings: repository.NewBookingRepo(db),
	}

	c, w := newJSONContext(t, http.MethodPost, "/v1/bookings", purchaseBody)
	c.Set("user_id", uint64(9))

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseQuantityBounds(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := &BookingHandler{
		Concerts: repository.NewConcertRepo(db),
		Bookings: repository.NewBookingRepo(db),
	}

	for _, qty := range []string{"0", "5"} {
		body := strings.Replace(purchaseBody, `"quantity": 3`, `"quantity": `+qty, 1)
		c, w := newJSONContext(t, http.MethodPost, "/v1/bookings", body)
		c.Set("user_id", uint64(9))

		require.NoError(t, h.Purchase(c))
		assert.Equal(t, http.StatusBadRequest, w.Code, "quantity %s", qty)
	}
}

func TestPurchaseMissingCard(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	h := &BookingHandler{
		Concerts: repository.NewConcertRepo(db),
		Bookings: repository.NewBookingRepo(db),
	}

	body := strings.Replace(purchaseBody, `"4242 4242 4242 4242"`, `""`, 1)
	c, w := newJSONContext(t, http.MethodPost, "/v1/bookings", body)
	c.Set("user_id", uint64(9))

	require.NoError(t, h.Purchase(c))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "concert_id", "concert_title", "concert_date", "concert_venue",
		"tier_id", "tier_name", "price_cents", "quantity", "total_cents",
		"attendee_name", "attendee_email", "attendee_phone", "card_last4", "status", "created_at",
	}).AddRow("BKAAAAAAAAAA", 9, "c001", "Midnight Frequencies", "2026-03-15", "The Grand Arena",
		"vip", "VIP", 15000, 2, 30000, "Ada", "ada@example.com", "", "4242", "CONFIRMED", t1)

	mock.ExpectQuery("FROM bookings WHERE user_id=. ORDER BY seq").
		WithArgs(uint64(9)).WillReturnRows(rows)

	h := &BookingHandler{
		Concerts: repository.NewConcertRepo(db),
		Bookings: repository.NewBookingRepo(db),
	}

	c, w := newJSONContext(t, http.MethodGet, "/v1/bookings", "")
	c.Set("user_id", uint64(9))

	require.NoError(t, h.ListMine(c))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Bookings []BookingReceipt `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "BKAAAAAAAAAA", resp.Bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardLast4(t *testing.T) {
	assert.Equal(t, "4242", cardLast4("4242 4242 4242 4242"))
	assert.Equal(t, "0005", cardLast4("3782-8224-6310-0005"))
	assert.Equal(t, "", cardLast4("42"))
	assert.Equal(t, "", cardLast4(""))
}
