package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/model"
	"github.com/stagepass/stagepass/internal/queue"
	"github.com/stagepass/stagepass/internal/repository"
	queue_publisher "github.com/stagepass/stagepass/internal/service"
	"github.com/stagepass/stagepass/internal/utils"
)

// BookingHandler implements the booking ledger endpoints: the purchase
// operation and the per-user booking history. All methods assume JWT
// authentication has already been performed by middleware. The
// purchase runs inside a single DB transaction so the availability
// check, the tier decrement, the status recompute and the ledger
// append either all happen or none do.
type BookingHandler struct {
	Concerts *repository.ConcertRepo
	Bookings *repository.BookingRepo
	// Publish sends the confirmation event after commit. Best-effort:
	// a broker failure never fails the purchase. Swappable in tests.
	Publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NewBookingHandler constructs a BookingHandler wired to the RabbitMQ
// publisher. Both repositories must be non-nil.
func NewBookingHandler(concerts *repository.ConcertRepo, bookings *repository.BookingRepo) *BookingHandler {
	if concerts == nil || bookings == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		Concerts: concerts,
		Bookings: bookings,
		Publish:  queue_publisher.PublishBookingConfirmed,
	}
}

// Ticket quantity bounds enforced at the API edge. The storefront's
// quantity selector offers 1-4 tickets per purchase.
const (
	minQuantity = 1
	maxQuantity = 4
)

type purchaseReq struct {
	ConcertID     string `json:"concert_id"`
	TierID        string `json:"tier_id"`
	Quantity      uint32 `json:"quantity"`
	AttendeeName  string `json:"attendee_name"`
	AttendeeEmail string `json:"attendee_email"`
	AttendeePhone string `json:"attendee_phone"`
	CardNumber    string `json:"card_number"`
}

// BookingReceipt is a booking as returned to the client.
type BookingReceipt struct {
	ID            string    `json:"id"`
	ConcertID     string    `json:"concert_id"`
	ConcertTitle  string    `json:"concert_title"`
	ConcertDate   string    `json:"concert_date"`
	ConcertVenue  string    `json:"concert_venue"`
	TierID        string    `json:"tier_id"`
	TierName      string    `json:"tier_name"`
	PriceCents    uint32    `json:"price_cents"`
	Quantity      uint32    `json:"quantity"`
	TotalCents    uint32    `json:"total_cents"`
	AttendeeName  string    `json:"attendee_name"`
	AttendeeEmail string    `json:"attendee_email"`
	AttendeePhone string    `json:"attendee_phone"`
	CardLast4     string    `json:"card_last4"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func toReceipt(b model.Booking) BookingReceipt {
	return BookingReceipt{
		ID: b.ID, ConcertID: b.ConcertID, ConcertTitle: b.ConcertTitle,
		ConcertDate: b.ConcertDate, ConcertVenue: b.ConcertVenue,
		TierID: b.TierID, TierName: b.TierName, PriceCents: b.PriceCents,
		Quantity: b.Quantity, TotalCents: b.TotalCents,
		AttendeeName: b.AttendeeName, AttendeeEmail: b.AttendeeEmail,
		AttendeePhone: b.AttendeePhone, CardLast4: b.CardLast4,
		Status: b.Status, CreatedAt: b.CreatedAt,
	}
}

// cardLast4 strips separators from a card number and returns its last
// four characters. Full card validation (format, expiry, CVV) is the
// payment form's concern; the ledger only keeps the display suffix.
func cardLast4(card string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, card)
	if len(cleaned) < 4 {
		return ""
	}
	return cleaned[len(cleaned)-4:]
}

// Purchase handles POST /v1/bookings. Validation runs in a fixed
// order with the first failure winning: concert exists, tier exists,
// remaining >= quantity. Only when every check passes does the handler
// decrement the tier, recompute the concert's sold-out status from the
// tier rows and append the ledger record, all within one transaction.
// A failed attempt leaves every remaining count untouched, so retrying
// the same oversized request yields the same error.
func (h *BookingHandler) Purchase(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.ConcertID = strings.TrimSpace(req.ConcertID)
	req.TierID = strings.TrimSpace(req.TierID)
	req.AttendeeName = strings.TrimSpace(req.AttendeeName)
	req.AttendeeEmail = strings.ToLower(strings.TrimSpace(req.AttendeeEmail))
	req.AttendeePhone = strings.TrimSpace(req.AttendeePhone)
	if req.ConcertID == "" || req.TierID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "concert_id and tier_id are required"})
	}
	if req.Quantity < minQuantity || req.Quantity > maxQuantity {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be between 1 and 4"})
	}
	if req.AttendeeName == "" || req.AttendeeEmail == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "attendee name and email are required"})
	}
	last4 := cardLast4(req.CardNumber)
	if last4 == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "card_number is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Concerts.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	concert, err := h.Concerts.GetForUpdateTx(ctx, tx, req.ConcertID)
	if err != nil {
		if err == repository.ErrConcertNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	tier, err := h.Concerts.GetTierForUpdateTx(ctx, tx, req.ConcertID, req.TierID)
	if err != nil {
		if err == repository.ErrTierNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tier not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if tier.Remaining < req.Quantity {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "insufficient inventory",
			"remaining": tier.Remaining,
		})
	}

	if err := h.Concerts.DecrementRemainingTx(ctx, tx, req.ConcertID, req.TierID, req.Quantity); err != nil {
		if err == repository.ErrInsufficientInventory {
			// The FOR UPDATE lock makes this unreachable in practice;
			// the guard stays as the invariant's last line of defense.
			return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient inventory"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update inventory"})
	}

	left, err := h.Concerts.TiersWithSeatsTx(ctx, tx, req.ConcertID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if left == 0 && concert.Status != model.ConcertSoldOut {
		if err := h.Concerts.SetStatusTx(ctx, tx, req.ConcertID, model.ConcertSoldOut); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update concert status"})
		}
	}

	bookingID, err := utils.NewBookingID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate booking id"})
	}
	booking := model.Booking{
		ID:            bookingID,
		UserID:        userID,
		ConcertID:     concert.ID,
		ConcertTitle:  concert.Title,
		ConcertDate:   concert.Date,
		ConcertVenue:  concert.Venue,
		TierID:        tier.ID,
		TierName:      tier.Name,
		PriceCents:    tier.PriceCents,
		Quantity:      req.Quantity,
		TotalCents:    tier.PriceCents * req.Quantity,
		AttendeeName:  req.AttendeeName,
		AttendeeEmail: req.AttendeeEmail,
		AttendeePhone: req.AttendeePhone,
		CardLast4:     last4,
		Status:        model.BookingConfirmed,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record booking"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Publish after commit so consumers never see a booking that was
	// rolled back. The request does not wait on the broker.
	if h.Publish != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:    booking.ID,
			UserID:       booking.UserID,
			ConcertID:    booking.ConcertID,
			ConcertTitle: booking.ConcertTitle,
			ConcertDate:  booking.ConcertDate,
			Venue:        booking.ConcertVenue,
			TierID:       booking.TierID,
			TierName:     booking.TierName,
			Quantity:     booking.Quantity,
			TotalCents:   booking.TotalCents,
			ConfirmedAt:  booking.CreatedAt.UTC().Format(time.RFC3339),
		}
		go func() {
			pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = h.Publish(pctx, ev)
		}()
	}

	return c.JSON(http.StatusCreated, echo.Map{"booking": toReceipt(booking)})
}

// ListMine handles GET /v1/bookings. It returns the caller's bookings
// in ledger order; sorting by recency is left to the client.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]BookingReceipt, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toReceipt(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}
