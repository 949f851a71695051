package database

import (
	"context"
	"database/sql"
)

// DDL statements executed at startup. IF NOT EXISTS keeps the calls
// idempotent so the server can be restarted against an existing
// database without a separate migration tool. The default utf8mb4
// collation is case-insensitive, so the unique email key also rejects
// case-variant duplicates while the stored spelling is preserved.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(190) NOT NULL,
		phone VARCHAR(32) NOT NULL DEFAULT '',
		password_hash VARCHAR(100) NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'CUSTOMER',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS concerts (
		id VARCHAR(16) NOT NULL,
		title VARCHAR(190) NOT NULL,
		artist VARCHAR(120) NOT NULL,
		venue VARCHAR(190) NOT NULL,
		show_date VARCHAR(10) NOT NULL,
		show_time VARCHAR(5) NOT NULL,
		genre VARCHAR(64) NOT NULL,
		image VARCHAR(190) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'AVAILABLE',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tiers (
		concert_id VARCHAR(16) NOT NULL,
		id VARCHAR(16) NOT NULL,
		name VARCHAR(64) NOT NULL,
		price_cents INT UNSIGNED NOT NULL,
		total INT UNSIGNED NOT NULL,
		remaining INT UNSIGNED NOT NULL,
		color VARCHAR(16) NOT NULL DEFAULT '',
		sort_order INT UNSIGNED NOT NULL DEFAULT 0,
		PRIMARY KEY (concert_id, id),
		CONSTRAINT fk_tiers_concert FOREIGN KEY (concert_id) REFERENCES concerts (id) ON DELETE CASCADE,
		CONSTRAINT chk_tiers_remaining CHECK (remaining <= total)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id VARCHAR(16) NOT NULL,
		seq BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		concert_id VARCHAR(16) NOT NULL,
		concert_title VARCHAR(190) NOT NULL,
		concert_date VARCHAR(10) NOT NULL,
		concert_venue VARCHAR(190) NOT NULL,
		tier_id VARCHAR(16) NOT NULL,
		tier_name VARCHAR(64) NOT NULL,
		price_cents INT UNSIGNED NOT NULL,
		quantity INT UNSIGNED NOT NULL,
		total_cents INT UNSIGNED NOT NULL,
		attendee_name VARCHAR(120) NOT NULL,
		attendee_email VARCHAR(190) NOT NULL,
		attendee_phone VARCHAR(32) NOT NULL DEFAULT '',
		card_last4 CHAR(4) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'CONFIRMED',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_bookings_seq (seq),
		KEY idx_bookings_user (user_id, seq)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS schema_meta (
		id TINYINT UNSIGNED NOT NULL,
		seed_version INT UNSIGNED NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables. It must run before the catalog
// seed and before the first request is served.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
