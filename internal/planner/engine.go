// Package planner interleaves recommended activities into the idle time
// between a day's fixed tasks. Timeline generation is a pure computation
// over a snapshot; nothing is persisted unless the caller explicitly
// commits a placement or fills a day.
package planner

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"teum/internal/model"
	"teum/internal/tasks"
)

// Day window defaults for FillDay, matching the planner's notion of a
// usable day.
const (
	DefaultDayStart = 8 * 60  // 08:00
	DefaultDayEnd   = 22 * 60 // 22:00
)

type EntryKind string

const (
	EntryFixed       EntryKind = "fixed"
	EntryRecommended EntryKind = "recommended"
)

// Entry is one row of the display timeline. Recommended entries are
// synthesized for display only; they are not daily tasks unless the caller
// commits them.
type Entry struct {
	Kind        EntryKind
	ID          string
	Title       string
	Date        string
	StartTime   string
	EndTime     string
	IsCompleted bool
	Duration    int // minutes, recommended entries only
}

// Slot is an idle interval in minutes since midnight.
type Slot struct {
	Start int
	End   int
}

type Engine struct {
	repo     *tasks.Repository
	rnd      *rand.Rand
	dayStart int
	dayEnd   int
}

// NewEngine builds an engine over the repository. rnd drives the tie-break
// between equally long candidates; pass nil for a time-seeded source.
func NewEngine(repo *tasks.Repository, rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{repo: repo, rnd: rnd, dayStart: DefaultDayStart, dayEnd: DefaultDayEnd}
}

// SetDayWindow overrides the FillDay bounds, given as "HH:MM" strings.
func (e *Engine) SetDayWindow(start, end string) error {
	startMin, err := model.ParseMinutes(start)
	if err != nil {
		return err
	}
	endMin, err := model.ParseMinutes(end)
	if err != nil {
		return err
	}
	if endMin <= startMin {
		return &model.ValidationError{Field: "dayWindow", Message: "end must be after start"}
	}
	e.dayStart, e.dayEnd = startMin, endMin
	return nil
}

// DisplayTimeline produces the ordered display list for one date: each
// fixed task, followed by at most one recommended activity occupying the
// gap before the next fixed task.
func (e *Engine) DisplayTimeline(ctx context.Context, date string) ([]Entry, error) {
	if err := model.ValidateDate(date); err != nil {
		return nil, err
	}
	db, err := e.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTimeline(dailyForDate(db, date), incompleteRecommended(db), e.rnd)
}

// BuildTimeline is the pure core of timeline generation. Each candidate is
// placed at most once per call; the slice passed in is never mutated.
func BuildTimeline(daily []model.DailyTask, candidates []model.RecommendedTask, rnd *rand.Rand) ([]Entry, error) {
	sorted, err := sortByStart(daily)
	if err != nil {
		return nil, err
	}
	pool := append([]model.RecommendedTask(nil), candidates...)

	out := make([]Entry, 0, len(sorted))
	for i, current := range sorted {
		endMin, err := model.ParseMinutes(current.EndTime)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{
			Kind:        EntryFixed,
			ID:          current.ID,
			Title:       current.Title,
			Date:        current.Date,
			StartTime:   current.StartTime,
			EndTime:     current.EndTime,
			IsCompleted: current.IsCompleted,
		})
		// Only internal gaps are filled: nothing before the first fixed
		// task or after the last.
		if i+1 >= len(sorted) {
			break
		}
		nextStart, err := model.ParseMinutes(sorted[i+1].StartTime)
		if err != nil {
			return nil, err
		}
		gap := nextStart - endMin
		if gap <= 0 {
			continue
		}
		idx := pickLargestFit(pool, gap, rnd)
		if idx < 0 {
			continue
		}
		chosen := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
		out = append(out, Entry{
			Kind:        EntryRecommended,
			ID:          chosen.ID,
			Title:       chosen.Title,
			Date:        current.Date,
			StartTime:   current.EndTime,
			EndTime:     model.FormatMinutes(endMin + chosen.Duration),
			IsCompleted: chosen.IsCompleted,
			Duration:    chosen.Duration,
		})
	}
	return out, nil
}

// FreeSlots computes the idle intervals across a whole day window,
// including the stretches before the first and after the last fixed task.
func FreeSlots(daily []model.DailyTask, dayStart, dayEnd int) ([]Slot, error) {
	sorted, err := sortByStart(daily)
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, 0, len(sorted)+1)
	lastEnd := dayStart
	for _, task := range sorted {
		start, err := model.ParseMinutes(task.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := model.ParseMinutes(task.EndTime)
		if err != nil {
			return nil, err
		}
		if start > lastEnd {
			slots = append(slots, Slot{Start: lastEnd, End: start})
		}
		if end > lastEnd {
			lastEnd = end
		}
	}
	if lastEnd < dayEnd {
		slots = append(slots, Slot{Start: lastEnd, End: dayEnd})
	}
	return slots, nil
}

// FillDay persists the best-fit recommended activity into each free slot of
// the date's day window as real daily tasks, and returns what was created.
func (e *Engine) FillDay(ctx context.Context, date string) ([]tasks.Record, error) {
	if err := model.ValidateDate(date); err != nil {
		return nil, err
	}
	db, err := e.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := FreeSlots(dailyForDate(db, date), e.dayStart, e.dayEnd)
	if err != nil {
		return nil, err
	}
	pool := incompleteRecommended(db)

	created := make([]tasks.Record, 0, len(slots))
	for _, slot := range slots {
		idx := pickLargestFit(pool, slot.End-slot.Start, e.rnd)
		if idx < 0 {
			continue
		}
		chosen := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		rec, err := e.repo.Add(ctx, model.KindDaily, chosen.Title, tasks.Fields{
			Date:      date,
			StartTime: model.FormatMinutes(slot.Start),
			EndTime:   model.FormatMinutes(slot.Start + chosen.Duration),
		})
		if err != nil {
			return created, err
		}
		created = append(created, rec)
	}
	return created, nil
}

// CommitPlacement persists one recommended display entry as a daily task.
// This is the explicit accept step; timeline generation alone never writes.
func (e *Engine) CommitPlacement(ctx context.Context, entry Entry) (tasks.Record, error) {
	if entry.Kind != EntryRecommended {
		return tasks.Record{}, &model.ValidationError{Field: "entry", Message: "only recommended entries can be committed"}
	}
	return e.repo.Add(ctx, model.KindDaily, entry.Title, tasks.Fields{
		Date:      entry.Date,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
	})
}

// pickLargestFit returns the index of one candidate with the largest
// duration that fits the gap, chosen uniformly at random among ties, or -1
// when nothing fits.
func pickLargestFit(pool []model.RecommendedTask, gap int, rnd *rand.Rand) int {
	best := -1
	for _, task := range pool {
		if task.Duration <= gap && task.Duration > best {
			best = task.Duration
		}
	}
	if best < 0 {
		return -1
	}
	ties := make([]int, 0, len(pool))
	for i, task := range pool {
		if task.Duration == best {
			ties = append(ties, i)
		}
	}
	return ties[rnd.Intn(len(ties))]
}

func sortByStart(daily []model.DailyTask) ([]model.DailyTask, error) {
	sorted := append([]model.DailyTask(nil), daily...)
	for _, task := range sorted {
		if _, err := model.ParseMinutes(task.StartTime); err != nil {
			return nil, err
		}
		if _, err := model.ParseMinutes(task.EndTime); err != nil {
			return nil, err
		}
	}
	// Lexicographic order matches chronological order for zero-padded HH:MM.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})
	return sorted, nil
}

func dailyForDate(db model.TaskDB, date string) []model.DailyTask {
	out := make([]model.DailyTask, 0, len(db.DailyTasks))
	for _, task := range db.DailyTasks {
		if task.Date == date {
			out = append(out, task)
		}
	}
	return out
}

func incompleteRecommended(db model.TaskDB) []model.RecommendedTask {
	out := make([]model.RecommendedTask, 0, len(db.RecommendedTasks))
	for _, task := range db.RecommendedTasks {
		if !task.IsCompleted {
			out = append(out, task)
		}
	}
	return out
}
