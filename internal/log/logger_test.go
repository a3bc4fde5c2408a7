package log

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestMemoryLoggerAssignsSequence(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewEvent(1, "Primary", EventFundraise, "a"))
	l.Log(NewEvent(1, "Primary", EventRest, "b"))
	l.Log(NewEvent(2, "Primary", EventFundraise, "c"))

	if got := len(l.Events()); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}
	if l.LastEvent().Seq != 3 {
		t.Errorf("expected last seq 3, got %d", l.LastEvent().Seq)
	}
	if got := len(l.EventsOfType(EventFundraise)); got != 2 {
		t.Errorf("expected 2 fundraise events, got %d", got)
	}
}

func TestTextLoggerFormatsLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewWeekEvent(3, 6, "Primary"))

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "W3  Primary | ") {
		t.Errorf("unexpected line %q", line)
	}
	if !strings.Contains(line, "Week 3/6") {
		t.Errorf("expected week banner in %q", line)
	}
}

func TestFanoutLogsToAll(t *testing.T) {
	a, b := NewMemoryLogger(), NewMemoryLogger()
	f := Fanout{a, b}
	f.Log(NewEvent(1, "General", EventDebate, "x"))

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatalf("expected both loggers to receive the event")
	}
	if len(f.Events()) != 1 {
		t.Errorf("expected fanout to report first logger's events")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "c1.jsonl.zst")
	l, err := NewArchiveLogger(path)
	if err != nil {
		t.Fatalf("NewArchiveLogger: %v", err)
	}
	l.Log(NewEvent(1, "Primary", EventCampaignStart, "District: OH-07 Riverbend"))
	l.Log(NewPhaseChangeEvent(1, "Primary", "General"))
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events, err := ReadArchive(path)
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].Type != EventPhaseChange || events[1].Seq != 2 {
		t.Errorf("unexpected second event %+v", events[1])
	}
	if events[0].Details != "District: OH-07 Riverbend" {
		t.Errorf("details not preserved: %q", events[0].Details)
	}
}
