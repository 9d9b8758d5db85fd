package tasks

import "teum/internal/model"

// Record is the kind-tagged view the repository hands back to callers, so
// one API covers all three collections. Only the fields matching Kind are
// populated.
type Record struct {
	Kind        model.Kind
	ID          string
	Title       string
	IsCompleted bool

	DueDate string // long-term

	Duration int // recommended, minutes

	Date          string // daily
	StartTime     string
	EndTime       string
	CompletedDate string
}

func recordFromLongTerm(t model.LongTermTask) Record {
	return Record{
		Kind:        model.KindLongTerm,
		ID:          t.ID,
		Title:       t.Title,
		IsCompleted: t.IsCompleted,
		DueDate:     t.DueDate,
	}
}

func recordFromRecommended(t model.RecommendedTask) Record {
	return Record{
		Kind:        model.KindRecommended,
		ID:          t.ID,
		Title:       t.Title,
		IsCompleted: t.IsCompleted,
		Duration:    t.Duration,
	}
}

func recordFromDaily(t model.DailyTask) Record {
	return Record{
		Kind:          model.KindDaily,
		ID:            t.ID,
		Title:         t.Title,
		IsCompleted:   t.IsCompleted,
		Date:          t.Date,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		CompletedDate: t.CompletedDate,
	}
}

// Fields carries the kind-specific attributes for add and update calls.
type Fields struct {
	DueDate   string
	Duration  int
	Date      string
	StartTime string
	EndTime   string
}
