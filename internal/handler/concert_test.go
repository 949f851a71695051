package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagepass/stagepass/internal/repository"
)

func catalogRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "artist", "venue", "show_date", "show_time",
		"genre", "image", "status", "created_at", "updated_at",
	}).
		AddRow("c001", "Midnight Frequencies", "Luna Eclipse", "The Grand Arena", "2026-03-15", "20:00", "Electronic", "", "AVAILABLE", now, now).
		AddRow("c002", "Acoustic Sessions", "River & Stone", "Bluebird Hall", "2026-03-22", "19:30", "Folk", "", "AVAILABLE", now, now)
}

func catalogTierRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"concert_id", "id", "name", "price_cents", "total", "remaining", "color", "sort_order",
	}).
		AddRow("c001", "vip", "VIP", 15000, 50, 47, "#FFD700", 1).
		AddRow("c002", "vip", "VIP", 12000, 40, 40, "#FFD700", 1)
}

func TestConcertList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM concerts ORDER BY id").WillReturnRows(catalogRows())
	mock.ExpectQuery("FROM tiers ORDER BY concert_id, sort_order").WillReturnRows(catalogTierRows())

	h := NewConcertHandler(repository.NewConcertRepo(db))
	c, w := newJSONContext(t, http.MethodGet, "/v1/concerts", "")

	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Concerts []PublicConcert `json:"concerts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Concerts, 2)
	assert.Equal(t, "c001", resp.Concerts[0].ID)
	require.Len(t, resp.Concerts[0].Tiers, 1)
	assert.Equal(t, uint32(47), resp.Concerts[0].Tiers[0].Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcertListGenreFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM concerts ORDER BY id").WillReturnRows(catalogRows())
	mock.ExpectQuery("FROM tiers ORDER BY concert_id, sort_order").WillReturnRows(catalogTierRows())

	h := NewConcertHandler(repository.NewConcertRepo(db))
	c, w := newJSONContext(t, http.MethodGet, "/v1/concerts?genre=folk", "")

	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Concerts []PublicConcert `json:"concerts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Concerts, 1)
	assert.Equal(t, "c002", resp.Concerts[0].ID)
}

func TestConcertGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM concerts WHERE id=").
		WithArgs("c001").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "artist", "venue", "show_date", "show_time",
			"genre", "image", "status", "created_at", "updated_at",
		}).AddRow("c001", "Midnight Frequencies", "Luna Eclipse", "The Grand Arena", "2026-03-15", "20:00", "Electronic", "", "AVAILABLE", now, now))
	mock.ExpectQuery("FROM tiers WHERE concert_id=. ORDER BY sort_order").
		WithArgs("c001").
		WillReturnRows(sqlmock.NewRows([]string{
			"concert_id", "id", "name", "price_cents", "total", "remaining", "color", "sort_order",
		}).AddRow("c001", "vip", "VIP", 15000, 50, 47, "#FFD700", 1))

	h := NewConcertHandler(repository.NewConcertRepo(db))
	c, w := newJSONContext(t, http.MethodGet, "/v1/concerts/c001", "")
	c.SetParamNames("id")
	c.SetParamValues("c001")

	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Concert PublicConcert `json:"concert"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Midnight Frequencies", resp.Concert.Title)
	require.Len(t, resp.Concert.Tiers, 1)
	assert.Equal(t, "vip", resp.Concert.Tiers[0].ID)
}

func TestConcertGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM concerts WHERE id=").
		WithArgs("c999").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "artist", "venue", "show_date", "show_time",
			"genre", "image", "status", "created_at", "updated_at",
		}))

	h := NewConcertHandler(repository.NewConcertRepo(db))
	c, w := newJSONContext(t, http.MethodGet, "/v1/concerts/c999", "")
	c.SetParamNames("id")
	c.SetParamValues("c999")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
