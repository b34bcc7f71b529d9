// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workspace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// SQLiteStore persists workspace documents in a single SQLite database.
// Stage contents are stored as one JSON column; the relational surface is
// only what listing and lookup need.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the workspace database at dbPath,
// creating parent directories and the schema as needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating workspace directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening workspace database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating workspace schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS workspaces (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			current_stage TEXT,
			stages TEXT NOT NULL,
			created_at TEXT NOT NULL,
			last_updated TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_workspaces_owner ON workspaces(owner_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Create inserts a new document.
func (s *SQLiteStore) Create(ctx context.Context, doc *types.WorkspaceDocument) error {
	stages, err := json.Marshal(doc.Stages)
	if err != nil {
		return fmt.Errorf("encoding stages: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, owner_id, current_stage, stages, created_at, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.OwnerID, string(doc.CurrentStage), string(stages),
		doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		doc.LastUpdated.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting workspace %s: %w", doc.ID, err)
	}
	return nil
}

// Get returns the document with the given ID, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*types.WorkspaceDocument, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, current_stage, stages, created_at, last_updated
		 FROM workspaces WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

// Update overwrites an existing document.
func (s *SQLiteStore) Update(ctx context.Context, doc *types.WorkspaceDocument) error {
	stages, err := json.Marshal(doc.Stages)
	if err != nil {
		return fmt.Errorf("encoding stages: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE workspaces SET name = ?, owner_id = ?, current_stage = ?, stages = ?, last_updated = ?
		 WHERE id = ?`,
		doc.Name, doc.OwnerID, string(doc.CurrentStage), string(stages),
		doc.LastUpdated.UTC().Format(time.RFC3339Nano), doc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating workspace %s: %w", doc.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all documents owned by ownerID, newest first.
func (s *SQLiteStore) List(ctx context.Context, ownerID string) ([]*types.WorkspaceDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, owner_id, current_stage, stages, created_at, last_updated
		 FROM workspaces WHERE owner_id = ? ORDER BY last_updated DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var out []*types.WorkspaceDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete removes a document.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting workspace %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*types.WorkspaceDocument, error) {
	var doc types.WorkspaceDocument
	var currentStage, stagesJSON, createdAt, lastUpdated string
	if err := row.Scan(&doc.ID, &doc.Name, &doc.OwnerID, &currentStage, &stagesJSON, &createdAt, &lastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning workspace row: %w", err)
	}

	doc.CurrentStage = types.Stage(currentStage)
	if err := json.Unmarshal([]byte(stagesJSON), &doc.Stages); err != nil {
		return nil, fmt.Errorf("decoding stages for workspace %s: %w", doc.ID, err)
	}
	if doc.Stages == nil {
		doc.Stages = make(map[types.Stage]types.StageData)
	}

	var err error
	if doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at for workspace %s: %w", doc.ID, err)
	}
	if doc.LastUpdated, err = time.Parse(time.RFC3339Nano, lastUpdated); err != nil {
		return nil, fmt.Errorf("parsing last_updated for workspace %s: %w", doc.ID, err)
	}
	return &doc, nil
}
