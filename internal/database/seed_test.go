package database

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagepass/stagepass/internal/model"
)

func TestSeedDataInvariants(t *testing.T) {
	require.NotEmpty(t, seedConcerts)
	seenIDs := make(map[string]struct{})
	for _, con := range seedConcerts {
		_, dup := seenIDs[con.ID]
		require.False(t, dup, "duplicate concert id %s", con.ID)
		seenIDs[con.ID] = struct{}{}
		require.NotEmpty(t, con.Tiers, "concert %s has no tiers", con.ID)

		allEmpty := true
		for _, tier := range con.Tiers {
			assert.LessOrEqual(t, tier.Remaining, tier.Total,
				"%s/%s remaining exceeds total", con.ID, tier.ID)
			assert.Positive(t, tier.PriceCents, "%s/%s has no price", con.ID, tier.ID)
			if tier.Remaining > 0 {
				allEmpty = false
			}
		}
		// A concert marked SOLDOUT must actually have no seats left.
		if con.Status == model.ConcertSoldOut {
			assert.True(t, allEmpty, "concert %s marked SOLDOUT but has seats", con.ID)
		}
	}
}

func TestSeedCatalogSkipsWhenCurrent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT seed_version FROM schema_meta WHERE id=1").
		WillReturnRows(sqlmock.NewRows([]string{"seed_version"}).AddRow(seedVersion))

	require.NoError(t, SeedCatalog(context.Background(), db))
	// No writes happen when the catalog is already at the current version.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedCatalogSeedsWhenStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT seed_version FROM schema_meta WHERE id=1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tiers").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM concerts").WillReturnResult(sqlmock.NewResult(0, 0))
	for _, con := range seedConcerts {
		mock.ExpectExec("INSERT INTO concerts").
			WillReturnResult(sqlmock.NewResult(0, 1))
		for range con.Tiers {
			mock.ExpectExec("INSERT INTO tiers").
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}
	mock.ExpectExec("INSERT INTO schema_meta").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, SeedCatalog(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetAllWipesEverything(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM bookings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM refresh_tokens").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schema_meta").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tiers").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM concerts").WillReturnResult(sqlmock.NewResult(0, 0))
	for _, con := range seedConcerts {
		mock.ExpectExec("INSERT INTO concerts").WillReturnResult(sqlmock.NewResult(0, 1))
		for range con.Tiers {
			mock.ExpectExec("INSERT INTO tiers").WillReturnResult(sqlmock.NewResult(0, 1))
		}
	}
	mock.ExpectExec("INSERT INTO schema_meta").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, ResetAll(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
