package tasks

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"teum/internal/model"
	"teum/internal/storage"
)

// RetentionDays is how long completed daily tasks are kept before the
// sweeper removes them.
const RetentionDays = 30

// Sweeper bounds the growth of completed daily tasks. Cleanup is best
// effort: every failure is logged and swallowed so a broken sweep can never
// block normal operation or corrupt the store.
type Sweeper struct {
	store storage.Store
	log   *logrus.Logger
	now   func() time.Time
}

func NewSweeper(store storage.Store, log *logrus.Logger) *Sweeper {
	return &Sweeper{store: store, log: log, now: time.Now}
}

func (s *Sweeper) Sweep(ctx context.Context) {
	db, ok, err := s.store.Load(ctx)
	if err != nil {
		s.log.WithError(err).Warn("retention sweep skipped: load failed")
		return
	}
	if !ok {
		return
	}

	kept := removeExpiredDailyTasks(db.DailyTasks, s.now())
	if len(kept) == len(db.DailyTasks) {
		return
	}
	removed := len(db.DailyTasks) - len(kept)
	db.DailyTasks = kept

	if err := s.store.Save(ctx, db); err != nil {
		s.log.WithError(err).Warn("retention sweep skipped: save failed")
		return
	}
	s.log.WithField("removed", removed).Info("retention sweep removed expired daily tasks")
}

// removeExpiredDailyTasks keeps every task except completed ones whose
// completion date is at least RetentionDays before now. A completed task
// with a missing or unparsable completion date is retained: when in doubt,
// keep the data.
func removeExpiredDailyTasks(daily []model.DailyTask, now time.Time) []model.DailyTask {
	kept := make([]model.DailyTask, 0, len(daily))
	for _, task := range daily {
		if !task.IsCompleted || task.CompletedDate == "" {
			kept = append(kept, task)
			continue
		}
		completedAt, err := time.ParseInLocation(model.DateLayout, task.CompletedDate, time.Local)
		if err != nil {
			kept = append(kept, task)
			continue
		}
		if now.Sub(completedAt) < RetentionDays*24*time.Hour {
			kept = append(kept, task)
		}
	}
	return kept
}
