package pianola

import (
	"errors"
	"fmt"
)

type (
	// Pitch is a MIDI-style key number. The playable range covers the 88 keys
	// of a piano keyboard, from A0 (21) to C8 (108). Pitch is the join key
	// between scheduled notes, live performance events and the sample bank.
	Pitch int

	// NoteEvent is a single scheduled note. Times are in seconds from the
	// start of the sequence.
	NoteEvent struct {
		Pitch Pitch
		Start float64
		End   float64
	}

	// Sequence is an ordered list of scheduled notes. The order is the order
	// the notes appeared in the source file; it is not necessarily sorted by
	// time.
	Sequence []NoteEvent
)

const (
	MinPitch Pitch = 21  // A0, the lowest key on a piano
	MaxPitch Pitch = 108 // C8, the highest key

	// SampleTranspose is added to a sounding pitch when looking up its
	// sample: the bank is indexed one octave below the playable range.
	SampleTranspose = 12
)

var (
	ErrNoSamples     = errors.New("no samples could be loaded")
	ErrEmptySequence = errors.New("sequence contains no notes")
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (p Pitch) String() string {
	return fmt.Sprintf("%s%d", noteNames[((int(p)%12)+12)%12], int(p)/12-1)
}

// Valid reports whether the pitch is on the 88-key keyboard.
func (p Pitch) Valid() bool {
	return p >= MinPitch && p <= MaxPitch
}

// Validate checks that the sequence is non-empty and that every note has a
// non-negative start time and a positive duration.
func (s Sequence) Validate() error {
	if len(s) == 0 {
		return ErrEmptySequence
	}
	for i, n := range s {
		if n.Start < 0 {
			return fmt.Errorf("note %d (%v): negative start time %g", i, n.Pitch, n.Start)
		}
		if n.End <= n.Start {
			return fmt.Errorf("note %d (%v): end time %g is not after start time %g", i, n.Pitch, n.End, n.Start)
		}
	}
	return nil
}

// Duration returns the end time of the last ending note, in seconds.
func (s Sequence) Duration() float64 {
	var d float64
	for _, n := range s {
		if n.End > d {
			d = n.End
		}
	}
	return d
}
