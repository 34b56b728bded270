// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
)

// TableCreator handles the creation of the application database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		wallet_address TEXT,
		subscription_status TEXT NOT NULL DEFAULT 'free',
		preferred_language TEXT NOT NULL DEFAULT 'en',
		saved_jurisdictions TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS encounters (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		city TEXT,
		state TEXT,
		recording_url TEXT,
		summary TEXT,
		alert_sent INTEGER NOT NULL DEFAULT 0,
		duration INTEGER,
		status TEXT NOT NULL DEFAULT 'active',
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS alert_contacts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		relationship TEXT,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
}

var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_wallet ON users(wallet_address)`,
	`CREATE INDEX IF NOT EXISTS idx_encounters_user_ts ON encounters(user_id, timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_alert_contacts_user ON alert_contacts(user_id)`,
}

// CreateSchema executes all necessary queries to build the database tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}
