package update

import (
	"strings"
	"testing"

	"teum/internal/planner"
)

func TestFormatEntry(t *testing.T) {
	fixed := planner.Entry{
		Kind: planner.EntryFixed, Title: "Standup",
		StartTime: "09:00", EndTime: "09:30", IsCompleted: true,
	}
	got := formatEntry(fixed)
	if !strings.Contains(got, "[x]") || !strings.Contains(got, "Standup") {
		t.Fatalf("unexpected fixed rendering: %q", got)
	}

	suggestion := planner.Entry{
		Kind: planner.EntryRecommended, Title: "Read",
		StartTime: "10:00", EndTime: "11:00", Duration: 60,
	}
	got = formatEntry(suggestion)
	if !strings.Contains(got, "suggestion") || !strings.Contains(got, "60m") {
		t.Fatalf("unexpected suggestion rendering: %q", got)
	}
}

func TestShiftDate(t *testing.T) {
	if got := shiftDate("2026-03-02", 1); got != "2026-03-03" {
		t.Fatalf("expected next day, got %q", got)
	}
	if got := shiftDate("2026-03-01", -1); got != "2026-02-28" {
		t.Fatalf("expected previous day across month boundary, got %q", got)
	}
}

func TestAddFormCycleKind(t *testing.T) {
	form := newAddForm()
	if len(form.inputs) != 4 {
		t.Fatalf("daily form should have 4 fields, got %d", len(form.inputs))
	}
	form.cycleKind()
	if len(form.inputs) != 2 {
		t.Fatalf("long-term form should have 2 fields, got %d", len(form.inputs))
	}
	if form.focus != 0 {
		t.Fatalf("cycling kinds should reset focus, got %d", form.focus)
	}
}
