package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the table definitions in dependency order.  Statements
// are idempotent so EnsureSchema can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		name          VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS admins (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		name          VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_approved   TINYINT(1) NOT NULL DEFAULT 0,
		role          VARCHAR(16) NOT NULL DEFAULT 'staff',
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// Ledger of every batch id ever issued. Rows are never deleted,
	// which is what guarantees ids are not reused after an order is
	// removed.
	`CREATE TABLE IF NOT EXISTS order_ids (
		id        VARCHAR(16) PRIMARY KEY,
		issued_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id               VARCHAR(16) PRIMARY KEY,
		customer_email   VARCHAR(255) NOT NULL,
		customer_name    VARCHAR(255) NOT NULL,
		company          VARCHAR(255) NULL,
		service          VARCHAR(64) NOT NULL,
		link             TEXT NOT NULL,
		ready_link       TEXT NULL,
		status           VARCHAR(16) NOT NULL DEFAULT 'sample',
		is_order         TINYINT(1) NOT NULL DEFAULT 0,
		is_pending       TINYINT(1) NOT NULL DEFAULT 1,
		is_cancelled     TINYINT(1) NOT NULL DEFAULT 0,
		unit_price       DOUBLE NOT NULL DEFAULT 0,
		quantity         INT NOT NULL DEFAULT 0,
		total_price      DOUBLE NOT NULL DEFAULT 0,
		customer_note    TEXT NULL,
		internal_notes   TEXT NULL,
		final_file_ready TINYINT(1) NOT NULL DEFAULT 0,
		final_file_link  TEXT NULL,
		final_file_note  TEXT NULL,
		date_label       VARCHAR(32) NOT NULL,
		ts               BIGINT NOT NULL,
		created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_orders_email (customer_email),
		INDEX idx_orders_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS order_revisions (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		order_id   VARCHAR(16) NOT NULL,
		text       TEXT NOT NULL,
		date_label VARCHAR(32) NOT NULL,
		resolved   TINYINT(1) NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_revisions_order (order_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS chat_threads (
		customer_email  VARCHAR(255) PRIMARY KEY,
		customer_name   VARCHAR(255) NOT NULL,
		admin_unread    INT NOT NULL DEFAULT 0,
		customer_unread INT NOT NULL DEFAULT 0,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS chat_messages (
		thread_email VARCHAR(255) NOT NULL,
		msg_id       VARCHAR(20) NOT NULL,
		sender       VARCHAR(8) NOT NULL,
		text         TEXT NOT NULL,
		sent_at      TIMESTAMP(3) NOT NULL,
		is_read      TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (thread_email, msg_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		subject    VARCHAR(255) NOT NULL,
		role       VARCHAR(16) NOT NULL,
		token_hash CHAR(64) NOT NULL UNIQUE,
		expires_at TIMESTAMP NOT NULL,
		revoked_at TIMESTAMP NULL DEFAULT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_tokens_subject (subject, role)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  It does not alter existing
// tables; column changes still need a manual migration.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
