package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/codebuildervaibhav/voxscribe/internal/types"
)

// ErrNotFound is returned when a record does not exist for the owner
var ErrNotFound = errors.New("record not found")

// RecordStore persists transcripts per user in SQLite
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore opens (and migrates) the database at dbPath
func NewRecordStore(dbPath string) (*RecordStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0,
		language TEXT NOT NULL,
		status TEXT NOT NULL,
		transcript TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_files_user_created ON files(user_id, created_at);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &RecordStore{db: db}, nil
}

// Create inserts a record, assigning an ID and creation time when missing
func (rs *RecordStore) Create(ctx context.Context, rec *types.FileRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("record has no owner")
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	query := `
	INSERT INTO files (id, user_id, name, size, duration, language, status, transcript, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := rs.db.ExecContext(ctx, query, rec.ID, rec.UserID, rec.Name, rec.Size, rec.Duration,
		rec.Language, rec.Status, rec.Transcript, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save file record: %w", err)
	}
	return nil
}

// Get retrieves one record owned by userID
func (rs *RecordStore) Get(ctx context.Context, userID, id string) (*types.FileRecord, error) {
	query := `
	SELECT id, user_id, name, size, duration, language, status, transcript, created_at
	FROM files WHERE id = ? AND user_id = ?
	`

	rec, err := scanRecord(rs.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file record: %w", err)
	}
	return rec, nil
}

// List returns the owner's records, newest first, without transcript bodies
func (rs *RecordStore) List(ctx context.Context, userID string, limit int) ([]*types.FileRecord, error) {
	query := `
	SELECT id, user_id, name, size, duration, language, status, '', created_at
	FROM files WHERE user_id = ? ORDER BY created_at DESC LIMIT ?
	`

	rows, err := rs.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list file records: %w", err)
	}
	defer rows.Close()

	records := make([]*types.FileRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes one record owned by userID
func (rs *RecordStore) Delete(ctx context.Context, userID, id string) error {
	res, err := rs.db.ExecContext(ctx, `DELETE FROM files WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every record owned by userID and reports how many
func (rs *RecordStore) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res, err := rs.db.ExecContext(ctx, `DELETE FROM files WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear file records: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection
func (rs *RecordStore) Close() error {
	return rs.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*types.FileRecord, error) {
	var rec types.FileRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Size, &rec.Duration,
		&rec.Language, &rec.Status, &rec.Transcript, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
