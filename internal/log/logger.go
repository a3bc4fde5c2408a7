package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging campaign events.
type EventLogger interface {
	Log(event CampaignEvent)
	Events() []CampaignEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []CampaignEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event CampaignEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []CampaignEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []CampaignEvent {
	var result []CampaignEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() CampaignEvent {
	if len(l.events) == 0 {
		return CampaignEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event CampaignEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Fanout: sends every event to several loggers ---

// Fanout logs to each of its loggers in order. Events() reports the first one.
type Fanout []EventLogger

func (f Fanout) Log(event CampaignEvent) {
	for _, l := range f {
		l.Log(event)
	}
}

func (f Fanout) Events() []CampaignEvent {
	if len(f) == 0 {
		return nil
	}
	return f[0].Events()
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e CampaignEvent) string {
	phase := e.Phase
	// Pad phase to 8 chars for alignment
	for len(phase) < 8 {
		phase += " "
	}
	return fmt.Sprintf("W%-2d %s| %s", e.Week, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []CampaignEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewEvent(week int, phase string, t EventType, details string) CampaignEvent {
	return CampaignEvent{
		Week:    week,
		Phase:   phase,
		Type:    t,
		Details: details,
	}
}

func NewWeekEvent(week, weeksInPhase int, phase string) CampaignEvent {
	return CampaignEvent{
		Week:    week,
		Phase:   phase,
		Type:    EventNewWeek,
		Details: fmt.Sprintf("=== Week %d/%d (%s) ===", week, weeksInPhase, phase),
	}
}

func NewPhaseChangeEvent(week int, from, to string) CampaignEvent {
	return CampaignEvent{
		Week:    week,
		Phase:   to,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s (from %s)", to, from),
	}
}
