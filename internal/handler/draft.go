package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/model"
	"github.com/stagepass/stagepass/internal/repository"
)

// DraftHandler exposes the booking-draft handoff between the selection
// step and the payment step. Drafts are keyed by a generated id with a
// TTL, so a user can have several selections in flight and an
// abandoned one simply expires. Each draft belongs to the user who
// created it; other users get 403.
type DraftHandler struct {
	Store repository.DraftStore
	TTL   time.Duration
}

// NewDraftHandler constructs a DraftHandler. A nil store is allowed:
// it means Redis was unreachable at startup and every draft endpoint
// answers 503 instead of crashing the process.
func NewDraftHandler(store repository.DraftStore, ttl time.Duration) *DraftHandler {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &DraftHandler{Store: store, TTL: ttl}
}

type draftReq struct {
	ConcertID     string `json:"concert_id"`
	TierID        string `json:"tier_id"`
	Quantity      uint32 `json:"quantity"`
	AttendeeName  string `json:"attendee_name"`
	AttendeeEmail string `json:"attendee_email"`
	AttendeePhone string `json:"attendee_phone"`
}

// Create handles POST /v1/drafts. It stores the selection under a
// fresh draft id and returns the id together with the expiry so the
// payment page can show a countdown.
func (h *DraftHandler) Create(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "draft store unavailable"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req draftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.ConcertID = strings.TrimSpace(req.ConcertID)
	req.TierID = strings.TrimSpace(req.TierID)
	if req.ConcertID == "" || req.TierID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "concert_id and tier_id are required"})
	}
	if req.Quantity < minQuantity || req.Quantity > maxQuantity {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be between 1 and 4"})
	}

	now := time.Now().UTC()
	d := &model.Draft{
		ID:            uuid.NewString(),
		UserID:        userID,
		ConcertID:     req.ConcertID,
		TierID:        req.TierID,
		Quantity:      req.Quantity,
		AttendeeName:  strings.TrimSpace(req.AttendeeName),
		AttendeeEmail: strings.ToLower(strings.TrimSpace(req.AttendeeEmail)),
		AttendeePhone: strings.TrimSpace(req.AttendeePhone),
		CreatedAt:     now,
		ExpiresAt:     now.Add(h.TTL),
	}
	if err := h.Store.Put(c.Request().Context(), d); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store draft"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"draft_id":   d.ID,
		"expires_at": d.ExpiresAt.Format(time.RFC3339),
	})
}

// Get handles GET /v1/drafts/:id. Reading does not clear the draft;
// the payment step deletes it explicitly after a successful purchase.
func (h *DraftHandler) Get(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "draft store unavailable"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid draft id"})
	}
	d, err := h.Store.Get(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrDraftNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
	}
	if d.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"draft": d})
}

// Delete handles DELETE /v1/drafts/:id. Deleting an already-gone draft
// still returns 204, so the payment flow can clear unconditionally.
func (h *DraftHandler) Delete(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "draft store unavailable"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid draft id"})
	}
	d, err := h.Store.Get(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrDraftNotFound {
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
	}
	if d.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Store.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete draft"})
	}
	return c.NoContent(http.StatusNoContent)
}
