package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DefaultDocumentKey is the key under which the tracker document is stored
const DefaultDocumentKey = "activity"

// StateDB stores the persisted tracker document in postgres
type StateDB struct {
	db  *pgxpool.Pool
	key string
}

// NewStateDB connects to the database described by cfg
func NewStateDB(cfg Config) (*StateDB, error) {
	pool, err := NewSQLDB(cfg)
	if err != nil {
		return nil, err
	}

	return &StateDB{db: pool, key: DefaultDocumentKey}, nil
}

// Load returns the stored document, nil when there is none
func (s *StateDB) Load(ctx context.Context) ([]byte, error) {
	const sql = "SELECT document::text FROM tracker.document WHERE key = $1"

	var doc string
	err := s.db.QueryRow(ctx, sql, s.key).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return []byte(doc), nil
}

// Save upserts the document
func (s *StateDB) Save(ctx context.Context, doc []byte) error {
	const sql = `
		INSERT INTO tracker.document (key, version, document, updated_at)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (key) DO UPDATE SET version = $2, document = $3::jsonb, updated_at = $4
	`

	_, err := s.db.Exec(ctx, sql, s.key, documentVersion(doc), string(doc), time.Now())
	return err
}

// Close closes the connection pool
func (s *StateDB) Close() {
	s.db.Close()
}

func documentVersion(doc []byte) int {
	var head struct {
		Persist struct {
			Version int `json:"version"`
		} `json:"_persist"`
	}
	if err := json.Unmarshal(doc, &head); err != nil {
		return 0
	}
	return head.Persist.Version
}
