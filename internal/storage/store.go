package storage

import (
	"context"
	"errors"

	"teum/internal/model"
)

// DocumentKey is the single fixed key the whole task database lives under.
const DocumentKey = "teum_schedule_db"

var ErrCorruptDocument = errors.New("storage: corrupt document")

// Store persists exactly one TaskDB document. Load reports absence through
// its bool, never through an error; errors mean the medium itself failed.
type Store interface {
	Load(ctx context.Context) (model.TaskDB, bool, error)
	Save(ctx context.Context, db model.TaskDB) error
	Initialize(ctx context.Context) error
	Reset(ctx context.Context) error
}
