package player

import "github.com/hvirtan/pianola"

// eventState tracks how far a scheduled note has progressed through its
// start and stop triggers. States only move forward within one pass of the
// clock; they are re-armed by Load, Reset and ResetRange.
type eventState int

const (
	statePending eventState = iota
	stateStarted
	stateStopped
)

type (
	timelineEvent struct {
		note  pianola.NoteEvent
		state eventState
	}

	// Timeline holds the scheduled notes of the loaded sequence together with
	// their trigger bookkeeping. All methods are called from the player tick
	// only. Lookups are linear scans over the whole set each tick, which is
	// fine for the bounded size of practice pieces.
	Timeline struct {
		events []timelineEvent
	}
)

func NewTimeline() *Timeline { return &Timeline{} }

// Load replaces the event set with seq and resets all trigger bookkeeping. An
// invalid sequence is rejected and leaves the previous timeline untouched.
// Loading a new sequence also cancels any active loop region; that coupling
// is handled by the player, which owns the transport.
func (t *Timeline) Load(seq pianola.Sequence) error {
	if err := seq.Validate(); err != nil {
		return err
	}
	events := make([]timelineEvent, len(seq))
	for i, n := range seq {
		events[i] = timelineEvent{note: n}
	}
	t.events = events
	return nil
}

// Resolve advances the trigger bookkeeping to the given time, in one pass
// over all events. An event fires its start exactly once when now reaches its
// start time, and its stop exactly once when now reaches its end time; a stop
// can fire on the same call as its start when the clock jumped over the whole
// note. sounding is recomputed from the note times on every call, independent
// of the trigger states; it serves visual feedback, not audio control.
func (t *Timeline) Resolve(now float64) (toStart, toStop, sounding []pianola.Pitch) {
	for i := range t.events {
		e := &t.events[i]
		if e.state == statePending && now >= e.note.Start {
			e.state = stateStarted
			toStart = append(toStart, e.note.Pitch)
		}
		if e.state == stateStarted && now >= e.note.End {
			e.state = stateStopped
			toStop = append(toStop, e.note.Pitch)
		}
		if e.note.Start <= now && now < e.note.End {
			sounding = append(sounding, e.note.Pitch)
		}
	}
	return toStart, toStop, sounding
}

// ResetRange re-arms all events whose start time falls inside [from, to), so
// they fire again on the next pass through a loop region.
func (t *Timeline) ResetRange(from, to float64) {
	for i := range t.events {
		if s := t.events[i].note.Start; from <= s && s < to {
			t.events[i].state = statePending
		}
	}
}

// Reset re-arms every event.
func (t *Timeline) Reset() {
	for i := range t.events {
		t.events[i].state = statePending
	}
}

// Finished reports whether every event has fired both of its triggers.
func (t *Timeline) Finished() bool {
	for i := range t.events {
		if t.events[i].state != stateStopped {
			return false
		}
	}
	return true
}

func (t *Timeline) Len() int { return len(t.events) }
