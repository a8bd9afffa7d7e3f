// Package midifile decodes standard MIDI files into note sequences.
package midifile

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/hvirtan/pianola"
)

// Load reads an SMF file and flattens all of its tracks into a Sequence of
// absolute-time note events. Each note-on is paired with the next note-off
// (or velocity-0 note-on) of the same key; note-ons still hanging at the end
// of the file are dropped. A file that fails to parse, or that contains no
// complete notes, is reported as an error so the caller can keep its previous
// sequence.
func Load(path string) (pianola.Sequence, error) {
	var seq pianola.Sequence
	pending := make(map[uint8]float64)
	err := smf.ReadTracks(path).Do(func(te smf.TrackEvent) {
		now := float64(te.AbsMicroSeconds) / 1e6
		var channel, key, velocity uint8
		switch {
		case te.Message.GetNoteStart(&channel, &key, &velocity):
			pending[key] = now
		case te.Message.GetNoteEnd(&channel, &key):
			start, ok := pending[key]
			if !ok {
				return
			}
			delete(pending, key)
			if now > start {
				seq = append(seq, pianola.NoteEvent{Pitch: pianola.Pitch(key), Start: start, End: now})
			}
		}
	}).Error()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := seq.Validate(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return seq, nil
}
