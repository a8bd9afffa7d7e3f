package pianola_test

import (
	"errors"
	"testing"

	"github.com/hvirtan/pianola"
)

func TestSequenceValidate(t *testing.T) {
	tests := []struct {
		name string
		seq  pianola.Sequence
		ok   bool
	}{
		{"valid", pianola.Sequence{{Pitch: 60, Start: 0, End: 1}}, true},
		{"empty", nil, false},
		{"negative start", pianola.Sequence{{Pitch: 60, Start: -1, End: 1}}, false},
		{"zero duration", pianola.Sequence{{Pitch: 60, Start: 1, End: 1}}, false},
		{"end before start", pianola.Sequence{{Pitch: 60, Start: 2, End: 1}}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.seq.Validate()
			if (err == nil) != test.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, test.ok)
			}
		})
	}
	if err := pianola.Sequence(nil).Validate(); !errors.Is(err, pianola.ErrEmptySequence) {
		t.Errorf("empty sequence returned %v, expected ErrEmptySequence", err)
	}
}

func TestSequenceDuration(t *testing.T) {
	seq := pianola.Sequence{
		{Pitch: 60, Start: 0, End: 3},
		{Pitch: 62, Start: 1, End: 2},
	}
	if got := seq.Duration(); got != 3 {
		t.Errorf("Duration() = %g, expected 3", got)
	}
	if got := pianola.Sequence(nil).Duration(); got != 0 {
		t.Errorf("empty Duration() = %g, expected 0", got)
	}
}

func TestPitchValid(t *testing.T) {
	for _, p := range []pianola.Pitch{21, 60, 108} {
		if !p.Valid() {
			t.Errorf("pitch %v reported invalid", p)
		}
	}
	for _, p := range []pianola.Pitch{0, 20, 109, 127} {
		if p.Valid() {
			t.Errorf("pitch %v reported valid", p)
		}
	}
}
