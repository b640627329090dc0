package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Both dialects share column names and types as far as database/sql is
// concerned; only key generation and string column sizes differ.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS services (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price_cents INTEGER NOT NULL,
		duration_min INTEGER NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		surname TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL,
		registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client_id INTEGER NOT NULL REFERENCES clients(id),
		service_id INTEGER NOT NULL REFERENCES services(id),
		slot_date TEXT NOT NULL,
		slot_time TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'pending_payment',
		deposit_percentage INTEGER NOT NULL,
		deposit_cents INTEGER NOT NULL,
		payment_ref TEXT,
		note TEXT NOT NULL DEFAULT '',
		payment_link TEXT,
		service_name TEXT NOT NULL,
		service_price_cents INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_slot ON reservations (slot_date, state)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS services (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		description VARCHAR(500) NOT NULL DEFAULT '',
		price_cents BIGINT NOT NULL,
		duration_min INT NOT NULL,
		active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		surname VARCHAR(120) NOT NULL,
		email VARCHAR(190) NOT NULL UNIQUE,
		phone VARCHAR(40) NOT NULL,
		registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		client_id BIGINT UNSIGNED NOT NULL,
		service_id BIGINT UNSIGNED NOT NULL,
		slot_date CHAR(10) NOT NULL,
		slot_time CHAR(5) NOT NULL,
		state VARCHAR(20) NOT NULL DEFAULT 'pending_payment',
		deposit_percentage INT NOT NULL,
		deposit_cents BIGINT NOT NULL,
		payment_ref VARCHAR(190) NULL,
		note VARCHAR(1000) NOT NULL DEFAULT '',
		payment_link VARCHAR(1000) NULL,
		service_name VARCHAR(120) NOT NULL,
		service_price_cents BIGINT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_reservations_slot (slot_date, state),
		CONSTRAINT fk_reservations_client FOREIGN KEY (client_id) REFERENCES clients(id),
		CONSTRAINT fk_reservations_service FOREIGN KEY (service_id) REFERENCES services(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(120) NOT NULL UNIQUE,
		password_hash VARCHAR(100) NOT NULL,
		email VARCHAR(190) NOT NULL UNIQUE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the schema when it does not exist yet. It is safe to run
// on every start.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts := sqliteSchema
	if driver == "mysql" {
		stmts = mysqlSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '('); i > 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
