// Package store persists subscribers and qualifying-storm history in sqlite.
package store

import (
	"database/sql"
	"log/slog"
)

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}
