package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"teum/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteStore keeps the serialized TaskDB as a single row in the documents
// table. The UPSERT on Save makes the overwrite atomic for callers.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	return &SQLiteStore{db: db, key: DocumentKey}, nil
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle so callers can run migrations.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Load(ctx context.Context) (model.TaskDB, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, s.key)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TaskDB{}, false, nil
		}
		return model.TaskDB{}, false, fmt.Errorf("load document: %w", err)
	}

	var db model.TaskDB
	if err := json.Unmarshal([]byte(raw), &db); err != nil {
		return model.TaskDB{}, false, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	normalize(&db)
	return db, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, db model.TaskDB) error {
	normalize(&db)
	payload, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, string(payload), time.Now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Initialize(ctx context.Context) error {
	_, ok, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.Save(ctx, model.EmptyDB())
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	return s.Save(ctx, model.EmptyDB())
}

// normalize keeps the three collections non-nil so the stored JSON always
// carries arrays, never nulls.
func normalize(db *model.TaskDB) {
	if db.LongTermTasks == nil {
		db.LongTermTasks = []model.LongTermTask{}
	}
	if db.RecommendedTasks == nil {
		db.RecommendedTasks = []model.RecommendedTask{}
	}
	if db.DailyTasks == nil {
		db.DailyTasks = []model.DailyTask{}
	}
}
