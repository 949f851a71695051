package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stagepass/stagepass/internal/database"
)

// DevHandler exposes development utilities. Its routes are registered
// only when APP_ENV=dev; a production deployment never mounts them.
type DevHandler struct {
	DB *sql.DB
}

func NewDevHandler(db *sql.DB) *DevHandler { return &DevHandler{DB: db} }

// Reset handles POST /v1/dev/reset. It wipes users, tokens and
// bookings and restores the seed catalog, returning the store to its
// demo state.
func (h *DevHandler) Reset(c echo.Context) error {
	if err := database.ResetAll(c.Request().Context(), h.DB); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "reset"})
}
