// This file defines handlers for the public catalog API. These routes
// let unauthenticated users browse concerts and tiers before logging
// in; internal columns (timestamps, sort order) are filtered from
// responses.

package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/model"
	"github.com/stagepass/stagepass/internal/repository"
)

// ConcertHandler exposes read-only catalog browsing.
type ConcertHandler struct {
	Concerts *repository.ConcertRepo
}

// NewConcertHandler constructs a ConcertHandler and panics if the
// repository is nil.
func NewConcertHandler(concerts *repository.ConcertRepo) *ConcertHandler {
	if concerts == nil {
		panic("nil repository passed to NewConcertHandler")
	}
	return &ConcertHandler{Concerts: concerts}
}

// PublicTier is a seating tier as exposed to browsing clients.
type PublicTier struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents uint32 `json:"price_cents"`
	Total      uint32 `json:"total"`
	Remaining  uint32 `json:"remaining"`
	Color      string `json:"color"`
}

// PublicConcert is a concert as exposed to browsing clients.
type PublicConcert struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Artist string       `json:"artist"`
	Venue  string       `json:"venue"`
	Date   string       `json:"date"`
	Time   string       `json:"time"`
	Genre  string       `json:"genre"`
	Image  string       `json:"image"`
	Status string       `json:"status"`
	Tiers  []PublicTier `json:"tiers"`
}

func toPublicConcert(c model.Concert) PublicConcert {
	out := PublicConcert{
		ID: c.ID, Title: c.Title, Artist: c.Artist, Venue: c.Venue,
		Date: c.Date, Time: c.Time, Genre: c.Genre, Image: c.Image,
		Status: c.Status, Tiers: make([]PublicTier, 0, len(c.Tiers)),
	}
	for _, t := range c.Tiers {
		out.Tiers = append(out.Tiers, PublicTier{
			ID: t.ID, Name: t.Name, PriceCents: t.PriceCents,
			Total: t.Total, Remaining: t.Remaining, Color: t.Color,
		})
	}
	return out
}

// List handles GET /v1/concerts. It returns every concert with its
// tiers in stable seeded order. An optional ?genre= query filters by
// genre (case-insensitive).
func (h *ConcertHandler) List(c echo.Context) error {
	concerts, err := h.Concerts.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	genre := strings.TrimSpace(c.QueryParam("genre"))
	out := make([]PublicConcert, 0, len(concerts))
	for _, con := range concerts {
		if genre != "" && !strings.EqualFold(con.Genre, genre) {
			continue
		}
		out = append(out, toPublicConcert(con))
	}
	return c.JSON(http.StatusOK, echo.Map{"concerts": out})
}

// Get handles GET /v1/concerts/:id.
func (h *ConcertHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	con, err := h.Concerts.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrConcertNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"concert": toPublicConcert(*con)})
}
