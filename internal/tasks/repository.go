package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"teum/internal/model"
	"teum/internal/notify"
	"teum/internal/storage"
)

// Repository owns the whole-document read-modify-write cycle over the task
// database. Every mutation loads the document, applies a transform to a
// private copy, and persists the result under a single save. Concurrent
// mutations are not coordinated; callers serialize writes.
type Repository struct {
	store storage.Store
	bus   *notify.Bus
	now   func() time.Time
	newID func() string
}

func NewRepository(store storage.Store, bus *notify.Bus) *Repository {
	return &Repository{
		store: store,
		bus:   bus,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Snapshot returns the current document; an absent store reads as empty.
func (r *Repository) Snapshot(ctx context.Context) (model.TaskDB, error) {
	db, ok, err := r.store.Load(ctx)
	if err != nil {
		return model.TaskDB{}, err
	}
	if !ok {
		return model.EmptyDB(), nil
	}
	return db, nil
}

// apply runs one transform under a load/save cycle. A transform returning
// changed=false skips the save entirely.
func (r *Repository) apply(ctx context.Context, transform func(model.TaskDB) (model.TaskDB, bool, error)) error {
	db, err := r.Snapshot(ctx)
	if err != nil {
		return err
	}
	next, changed, err := transform(db.Clone())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := r.store.Save(ctx, next); err != nil {
		return err
	}
	if r.bus != nil {
		r.bus.Publish()
	}
	return nil
}

// Add validates the kind-specific fields, assigns a fresh id, appends the
// task to its collection, and persists.
func (r *Repository) Add(ctx context.Context, kind model.Kind, title string, fields Fields) (Record, error) {
	var created Record
	err := r.apply(ctx, func(db model.TaskDB) (model.TaskDB, bool, error) {
		next, rec, err := r.appendTask(db, kind, title, fields)
		if err != nil {
			return model.TaskDB{}, false, err
		}
		created = rec
		return next, true, nil
	})
	if err != nil {
		return Record{}, err
	}
	return created, nil
}

func (r *Repository) appendTask(db model.TaskDB, kind model.Kind, title string, fields Fields) (model.TaskDB, Record, error) {
	id := r.newID()
	switch kind {
	case model.KindLongTerm:
		task := model.LongTermTask{ID: id, Title: title, DueDate: fields.DueDate}
		if err := task.Validate(); err != nil {
			return model.TaskDB{}, Record{}, err
		}
		db.LongTermTasks = append(db.LongTermTasks, task)
		return db, recordFromLongTerm(task), nil
	case model.KindRecommended:
		task := model.RecommendedTask{ID: id, Title: title, Duration: fields.Duration}
		if err := task.Validate(); err != nil {
			return model.TaskDB{}, Record{}, err
		}
		db.RecommendedTasks = append(db.RecommendedTasks, task)
		return db, recordFromRecommended(task), nil
	case model.KindDaily:
		task := model.DailyTask{
			ID:        id,
			Title:     title,
			Date:      fields.Date,
			StartTime: fields.StartTime,
			EndTime:   fields.EndTime,
		}
		if err := task.Validate(); err != nil {
			return model.TaskDB{}, Record{}, err
		}
		db.DailyTasks = append(db.DailyTasks, task)
		return db, recordFromDaily(task), nil
	default:
		return model.TaskDB{}, Record{}, fmt.Errorf("%w: %q", model.ErrInvalidKind, kind)
	}
}

// Update patches a task in place when the kind is unchanged, preserving its
// id and completion state. When the kind changes, the operation is a
// migration: delete under oldKind, then add under newKind. The task gets a
// fresh id and loses its completion state. That is deliberate, not a bug.
// The bool result is false when id does not exist under oldKind.
func (r *Repository) Update(ctx context.Context, id string, oldKind, newKind model.Kind, title string, fields Fields) (Record, bool, error) {
	var (
		updated Record
		found   bool
	)
	err := r.apply(ctx, func(db model.TaskDB) (model.TaskDB, bool, error) {
		if oldKind == newKind {
			next, rec, ok, err := patchTask(db, id, oldKind, title, fields)
			if err != nil {
				return model.TaskDB{}, false, err
			}
			updated, found = rec, ok
			return next, ok, nil
		}

		next, ok := removeTask(db, oldKind, id)
		if !ok {
			found = false
			return model.TaskDB{}, false, nil
		}
		next, rec, err := r.appendTask(next, newKind, title, fields)
		if err != nil {
			return model.TaskDB{}, false, err
		}
		updated, found = rec, true
		return next, true, nil
	})
	if err != nil {
		return Record{}, false, err
	}
	return updated, found, nil
}

func patchTask(db model.TaskDB, id string, kind model.Kind, title string, fields Fields) (model.TaskDB, Record, bool, error) {
	switch kind {
	case model.KindLongTerm:
		for i, t := range db.LongTermTasks {
			if t.ID != id {
				continue
			}
			t.Title = title
			t.DueDate = fields.DueDate
			if err := t.Validate(); err != nil {
				return model.TaskDB{}, Record{}, false, err
			}
			db.LongTermTasks[i] = t
			return db, recordFromLongTerm(t), true, nil
		}
	case model.KindRecommended:
		for i, t := range db.RecommendedTasks {
			if t.ID != id {
				continue
			}
			t.Title = title
			t.Duration = fields.Duration
			if err := t.Validate(); err != nil {
				return model.TaskDB{}, Record{}, false, err
			}
			db.RecommendedTasks[i] = t
			return db, recordFromRecommended(t), true, nil
		}
	case model.KindDaily:
		for i, t := range db.DailyTasks {
			if t.ID != id {
				continue
			}
			t.Title = title
			t.Date = fields.Date
			t.StartTime = fields.StartTime
			t.EndTime = fields.EndTime
			if err := t.Validate(); err != nil {
				return model.TaskDB{}, Record{}, false, err
			}
			db.DailyTasks[i] = t
			return db, recordFromDaily(t), true, nil
		}
	default:
		return model.TaskDB{}, Record{}, false, fmt.Errorf("%w: %q", model.ErrInvalidKind, kind)
	}
	return db, Record{}, false, nil
}

// ToggleCompleted flips a task's completion flag. Daily tasks gain a
// completion date when completed and lose it when reopened. A missing id is
// reported through the bool, not an error.
func (r *Repository) ToggleCompleted(ctx context.Context, kind model.Kind, id string) (Record, bool, error) {
	var (
		toggled Record
		found   bool
	)
	err := r.apply(ctx, func(db model.TaskDB) (model.TaskDB, bool, error) {
		switch kind {
		case model.KindLongTerm:
			for i, t := range db.LongTermTasks {
				if t.ID != id {
					continue
				}
				t.IsCompleted = !t.IsCompleted
				db.LongTermTasks[i] = t
				toggled, found = recordFromLongTerm(t), true
				return db, true, nil
			}
		case model.KindRecommended:
			for i, t := range db.RecommendedTasks {
				if t.ID != id {
					continue
				}
				t.IsCompleted = !t.IsCompleted
				db.RecommendedTasks[i] = t
				toggled, found = recordFromRecommended(t), true
				return db, true, nil
			}
		case model.KindDaily:
			for i, t := range db.DailyTasks {
				if t.ID != id {
					continue
				}
				t.IsCompleted = !t.IsCompleted
				if t.IsCompleted {
					t.CompletedDate = model.FormatDate(r.now())
				} else {
					t.CompletedDate = ""
				}
				db.DailyTasks[i] = t
				toggled, found = recordFromDaily(t), true
				return db, true, nil
			}
		default:
			return model.TaskDB{}, false, fmt.Errorf("%w: %q", model.ErrInvalidKind, kind)
		}
		return db, false, nil
	})
	if err != nil {
		return Record{}, false, err
	}
	return toggled, found, nil
}

// Delete removes a task from its collection. Deleting an id that does not
// exist is a no-op.
func (r *Repository) Delete(ctx context.Context, kind model.Kind, id string) error {
	return r.apply(ctx, func(db model.TaskDB) (model.TaskDB, bool, error) {
		if !kind.IsValid() {
			return model.TaskDB{}, false, fmt.Errorf("%w: %q", model.ErrInvalidKind, kind)
		}
		next, ok := removeTask(db, kind, id)
		return next, ok, nil
	})
}

func removeTask(db model.TaskDB, kind model.Kind, id string) (model.TaskDB, bool) {
	switch kind {
	case model.KindLongTerm:
		for i, t := range db.LongTermTasks {
			if t.ID == id {
				db.LongTermTasks = append(db.LongTermTasks[:i], db.LongTermTasks[i+1:]...)
				return db, true
			}
		}
	case model.KindRecommended:
		for i, t := range db.RecommendedTasks {
			if t.ID == id {
				db.RecommendedTasks = append(db.RecommendedTasks[:i], db.RecommendedTasks[i+1:]...)
				return db, true
			}
		}
	case model.KindDaily:
		for i, t := range db.DailyTasks {
			if t.ID == id {
				db.DailyTasks = append(db.DailyTasks[:i], db.DailyTasks[i+1:]...)
				return db, true
			}
		}
	}
	return db, false
}
