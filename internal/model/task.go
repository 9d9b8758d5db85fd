package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidKind = errors.New("model: invalid task kind")

// Kind distinguishes the three task collections in the database.
type Kind string

const (
	KindLongTerm    Kind = "long_term"
	KindRecommended Kind = "recommended"
	KindDaily       Kind = "daily"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindLongTerm, KindRecommended, KindDaily:
		return true
	default:
		return false
	}
}

// ValidationError reports caller input inconsistent with the required shape
// of a task kind. It is never coerced away: the caller always sees it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("model: invalid %s: %s", e.Field, e.Message)
}

func invalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// LongTermTask is a goal tied to a due date, with no time of day.
type LongTermTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DueDate     string `json:"dueDate"`
	IsCompleted bool   `json:"isCompleted"`
}

// RecommendedTask is a flexible, undated activity with an estimated
// duration in minutes, eligible for automatic placement.
type RecommendedTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	IsCompleted bool   `json:"isCompleted"`
}

// DailyTask is a fixed appointment with a concrete date and a same-day
// start/end window. CompletedDate is set only while IsCompleted is true.
type DailyTask struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	IsCompleted   bool   `json:"isCompleted"`
	CompletedDate string `json:"completedDate,omitempty"`
}

// TaskDB is the aggregate root and the sole persisted unit.
type TaskDB struct {
	LongTermTasks    []LongTermTask    `json:"longTermTasks"`
	RecommendedTasks []RecommendedTask `json:"recommendedTasks"`
	DailyTasks       []DailyTask       `json:"dailyTasks"`
}

func EmptyDB() TaskDB {
	return TaskDB{
		LongTermTasks:    []LongTermTask{},
		RecommendedTasks: []RecommendedTask{},
		DailyTasks:       []DailyTask{},
	}
}

// Clone returns a deep copy so mutations can be expressed as transforms
// over a private copy before a single save.
func (db TaskDB) Clone() TaskDB {
	out := TaskDB{
		LongTermTasks:    make([]LongTermTask, len(db.LongTermTasks)),
		RecommendedTasks: make([]RecommendedTask, len(db.RecommendedTasks)),
		DailyTasks:       make([]DailyTask, len(db.DailyTasks)),
	}
	copy(out.LongTermTasks, db.LongTermTasks)
	copy(out.RecommendedTasks, db.RecommendedTasks)
	copy(out.DailyTasks, db.DailyTasks)
	return out
}

func (t LongTermTask) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return invalidField("id", "required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return invalidField("title", "required")
	}
	if err := ValidateDate(t.DueDate); err != nil {
		return err
	}
	return nil
}

func (t RecommendedTask) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return invalidField("id", "required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return invalidField("title", "required")
	}
	if t.Duration <= 0 {
		return invalidField("duration", "must be a positive number of minutes")
	}
	return nil
}

func (t DailyTask) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return invalidField("id", "required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return invalidField("title", "required")
	}
	if err := ValidateDate(t.Date); err != nil {
		return err
	}
	start, err := ParseMinutes(t.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseMinutes(t.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return invalidField("endTime", "must be after startTime")
	}
	if t.IsCompleted && t.CompletedDate == "" {
		return invalidField("completedDate", "required when task is completed")
	}
	if !t.IsCompleted && t.CompletedDate != "" {
		return invalidField("completedDate", "must be empty when task is not completed")
	}
	return nil
}
