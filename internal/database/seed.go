package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/stagepass/stagepass/internal/model"
)

// seedVersion identifies the current shape of the seed catalog. Bumping
// it makes SeedCatalog replace concerts and tiers on the next startup
// while leaving users and bookings untouched. The original storefront
// silently threw away the whole catalog (including sold-seat counts)
// whenever it detected a stale shape; the explicit version marker
// replaces that wholesale overwrite.
const seedVersion = 2

// seedConcerts is the launch catalog. Order matters: concert ids and
// tier sort_order define the stable browse order.
var seedConcerts = []model.Concert{
	{
		ID: "c001", Title: "AESPA WORLD TOUR 2025", Artist: "aespa",
		Venue: "Impact Arena, Nonthaburi", Date: "2025-08-15", Time: "18:00",
		Genre: "K-Pop", Image: "/image/aespa.png", Status: model.ConcertAvailable,
		Tiers: []model.Tier{
			{ID: "vip", Name: "VIP", PriceCents: 450000, Total: 200, Remaining: 47, Color: "#c084fc"},
			{ID: "gold", Name: "Gold", PriceCents: 280000, Total: 500, Remaining: 183, Color: "#fbbf24"},
			{ID: "silver", Name: "Silver", PriceCents: 150000, Total: 1000, Remaining: 621, Color: "#94a3b8"},
		},
	},
	{
		ID: "c002", Title: "BABYMONSTER LIVE IN BANGKOK", Artist: "BABYMONSTER",
		Venue: "Thunder Dome, Bangkok", Date: "2025-09-06", Time: "19:30",
		Genre: "K-Pop", Image: "/image/babymonster.png", Status: model.ConcertAvailable,
		Tiers: []model.Tier{
			{ID: "vip", Name: "VIP", PriceCents: 380000, Total: 150, Remaining: 12, Color: "#c084fc"},
			{ID: "gold", Name: "Gold", PriceCents: 220000, Total: 400, Remaining: 289, Color: "#fbbf24"},
			{ID: "silver", Name: "Silver", PriceCents: 120000, Total: 800, Remaining: 754, Color: "#94a3b8"},
		},
	},
	{
		ID: "c003", Title: "IVE CONCERT IN BANGKOK", Artist: "IVE",
		Venue: "Rajamangala Stadium", Date: "2025-09-20", Time: "17:00",
		Genre: "K-Pop", Image: "/image/ive.png", Status: model.ConcertAvailable,
		Tiers: []model.Tier{
			{ID: "vip", Name: "VIP", PriceCents: 320000, Total: 100, Remaining: 0, Color: "#c084fc"},
			{ID: "gold", Name: "Gold", PriceCents: 190000, Total: 300, Remaining: 94, Color: "#fbbf24"},
			{ID: "silver", Name: "Silver", PriceCents: 99000, Total: 600, Remaining: 412, Color: "#94a3b8"},
		},
	},
	{
		ID: "c004", Title: "TWICE 5TH WORLD TOUR", Artist: "TWICE",
		Venue: "Impact Arena, Nonthaburi", Date: "2025-10-11", Time: "18:00",
		Genre: "K-Pop", Image: "/image/twice.png", Status: model.ConcertSoldOut,
		Tiers: []model.Tier{
			{ID: "vip", Name: "VIP", PriceCents: 650000, Total: 300, Remaining: 0, Color: "#c084fc"},
			{ID: "gold", Name: "Gold", PriceCents: 350000, Total: 700, Remaining: 0, Color: "#fbbf24"},
			{ID: "silver", Name: "Silver", PriceCents: 200000, Total: 1500, Remaining: 0, Color: "#94a3b8"},
		},
	},
	{
		ID: "c005", Title: "NMIXX SHOWCASE BANGKOK", Artist: "NMIXX",
		Venue: "Royal Paragon Hall", Date: "2025-11-01", Time: "19:00",
		Genre: "K-Pop", Image: "/image/nmix.png", Status: model.ConcertUpcoming,
		Tiers: []model.Tier{
			{ID: "vip", Name: "VIP", PriceCents: 250000, Total: 80, Remaining: 80, Color: "#c084fc"},
			{ID: "gold", Name: "Gold", PriceCents: 150000, Total: 250, Remaining: 250, Color: "#fbbf24"},
			{ID: "silver", Name: "Silver", PriceCents: 80000, Total: 500, Remaining: 500, Color: "#94a3b8"},
		},
	},
	{
		ID: "c006", Title: "HEART2HEART FESTIVAL", Artist: "Various Artists",
		Venue: "Bitec Bangna Hall 8", Date: "2025-11-22", Time: "16:00",
		Genre: "K-Pop Festival", Image: "/image/heart2heart.png", Status: model.ConcertAvailable,
		Tiers: []model.Tier{
			{ID: "vip", Name: "VIP Standing", PriceCents: 420000, Total: 250, Remaining: 88, Color: "#c084fc"},
			{ID: "gold", Name: "Gold Standing", PriceCents: 260000, Total: 600, Remaining: 342, Color: "#fbbf24"},
			{ID: "silver", Name: "Silver", PriceCents: 140000, Total: 1000, Remaining: 887, Color: "#94a3b8"},
		},
	},
}

// SeedCatalog populates concerts and tiers when the database is empty
// or when the recorded seed version is older than seedVersion. A
// version bump replaces the catalog only; users, refresh tokens and
// bookings survive.
func SeedCatalog(ctx context.Context, db *sql.DB) error {
	var current uint32
	err := db.QueryRowContext(ctx,
		"SELECT seed_version FROM schema_meta WHERE id=1").Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if err == nil && current >= seedVersion {
		return nil
	}

	log.Printf("database: seeding catalog (version %d -> %d)", current, seedVersion)
	return replaceCatalog(ctx, db)
}

// replaceCatalog wipes concerts/tiers and inserts the seed data inside
// a single transaction, then records the seed version.
func replaceCatalog(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tiers"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM concerts"); err != nil {
		return err
	}
	for _, con := range seedConcerts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO concerts (id, title, artist, venue, show_date, show_time, genre, image, status)
			 VALUES (?,?,?,?,?,?,?,?,?)`,
			con.ID, con.Title, con.Artist, con.Venue, con.Date, con.Time, con.Genre, con.Image, con.Status,
		); err != nil {
			return err
		}
		for i, t := range con.Tiers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tiers (concert_id, id, name, price_cents, total, remaining, color, sort_order)
				 VALUES (?,?,?,?,?,?,?,?)`,
				con.ID, t.ID, t.Name, t.PriceCents, t.Total, t.Remaining, t.Color, i,
			); err != nil {
				return err
			}
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_meta (id, seed_version) VALUES (1, ?)
		 ON DUPLICATE KEY UPDATE seed_version = VALUES(seed_version)`,
		seedVersion,
	); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ResetAll wipes every record (users, tokens, bookings, catalog) and
// re-seeds the catalog. Development/demo utility; it is only reachable
// through the dev router group.
func ResetAll(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{
		"DELETE FROM bookings",
		"DELETE FROM refresh_tokens",
		"DELETE FROM users",
		"DELETE FROM schema_meta",
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return replaceCatalog(ctx, db)
}
