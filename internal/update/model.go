package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"teum/internal/model"
	"teum/internal/notify"
	"teum/internal/planner"
	"teum/internal/tasks"
)

type View string

const (
	ViewTimeline  View = "Timeline"
	ViewManage    View = "Manage"
	ViewCompleted View = "Completed"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Timeline  string
	Manage    string
	Completed string
	Help      string
	Quit      string
}

type Model struct {
	CurrentView    View
	SelectedDate   string
	Entries        []planner.Entry
	Cursor         int
	LongTerm       []model.LongTermTask
	CompletedDaily []model.DailyTask
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	form addForm

	repo    *tasks.Repository
	engine  *planner.Engine
	sweeper *tasks.Sweeper
	changes <-chan struct{}
}

// Messages.

type TimelineLoadedMsg struct {
	Entries        []planner.Entry
	LongTerm       []model.LongTermTask
	CompletedDaily []model.DailyTask
}

type MutationDoneMsg struct {
	Status string
}

type StoreChangedMsg struct{}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type AppErrorMsg struct {
	Err error
}

func NewModel(repo *tasks.Repository, engine *planner.Engine, sweeper *tasks.Sweeper, bus *notify.Bus) Model {
	m := Model{
		CurrentView:  ViewTimeline,
		SelectedDate: model.FormatDate(time.Now()),
		Keys: GlobalKeyMap{
			Timeline:  "1",
			Manage:    "2",
			Completed: "3",
			Help:      "?",
			Quit:      "q",
		},
		repo:    repo,
		engine:  engine,
		sweeper: sweeper,
	}
	if bus != nil {
		m.changes = bus.Subscribe()
	}
	m.form = newAddForm()
	return m
}

// addForm is the manage-view input form: a kind tab plus the text fields
// that kind requires.
type addForm struct {
	kind   model.Kind
	inputs []textinput.Model
	labels []string
	focus  int
}

func newAddForm() addForm {
	f := addForm{kind: model.KindDaily}
	f.rebuild()
	return f
}

func (f *addForm) rebuild() {
	var labels []string
	switch f.kind {
	case model.KindLongTerm:
		labels = []string{"title", "due date (YYYY-MM-DD)"}
	case model.KindRecommended:
		labels = []string{"title", "duration (minutes)"}
	default:
		labels = []string{"title", "date (YYYY-MM-DD)", "start (HH:MM)", "end (HH:MM)"}
	}
	f.labels = labels
	f.inputs = make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 64
		f.inputs[i] = in
	}
	f.focus = 0
	f.inputs[0].Focus()
}

func (f *addForm) cycleKind() {
	switch f.kind {
	case model.KindLongTerm:
		f.kind = model.KindRecommended
	case model.KindRecommended:
		f.kind = model.KindDaily
	default:
		f.kind = model.KindLongTerm
	}
	f.rebuild()
}

func (f *addForm) focusNext() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *addForm) values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}
