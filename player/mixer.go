package player

import (
	"sync"

	"github.com/viterin/vek/vek32"

	"github.com/hvirtan/pianola"
)

// voiceGain scales each voice so that the sum of overlapping voices stays
// below the clamp range in common cases.
const voiceGain = 0.5

// maxBlockFrames is the largest render block the mixer preallocates scratch
// space for; larger blocks are mixed in chunks of this size.
const maxBlockFrames = 8192

type (
	// Mixer owns the set of currently sounding voices and renders them into
	// audio blocks. Render runs in the audio output's real-time context while
	// Start and Stop are called from the player tick; the voice set and its
	// cursors are the only state shared between the two and are guarded by a
	// single mutex. Every critical section is a bounded set operation or one
	// render pass, never I/O, so the render context is never stalled.
	//
	// There is no polyphony cap: at most one voice sounds per pitch, so the
	// voice count is bounded by the 88 playable keys and the clamp in Render
	// keeps even pathological overlap within device range.
	Mixer struct {
		mu      sync.Mutex
		bank    *pianola.SampleBank
		broker  *Broker
		voices  map[pianola.Pitch]*voice
		scratch []float32
	}

	// voice is one sounding instance of a sample. The cursor is a frame
	// offset into the sample data, advanced only by Render.
	voice struct {
		sample *pianola.Sample
		cursor int
	}
)

// NewMixer creates a mixer over bank. When broker is non-nil, every rendered
// block is also forwarded to the model through the broker's buffer pool.
func NewMixer(bank *pianola.SampleBank, broker *Broker) *Mixer {
	return &Mixer{
		bank:    bank,
		broker:  broker,
		voices:  make(map[pianola.Pitch]*voice),
		scratch: make([]float32, maxBlockFrames*2),
	}
}

// Start begins sounding pitch, replacing any voice already playing it; a
// retrigger restarts the sample from the beginning. When the bank has no
// sample for the pitch the call reports false and is otherwise a no-op:
// partial sample coverage is an expected operating condition, not an error.
// The velocity is accepted but does not affect the fixed per-voice gain.
func (m *Mixer) Start(pitch pianola.Pitch, velocity byte) bool {
	_ = velocity
	sample := m.bank.ForPitch(pitch)
	if sample == nil {
		return false
	}
	m.mu.Lock()
	m.voices[pitch] = &voice{sample: sample}
	m.mu.Unlock()
	return true
}

// Stop silences pitch if it is sounding, and is a no-op otherwise. Ownership
// between the timeline and a live performer holding the same key is resolved
// by the caller before issuing the command.
func (m *Mixer) Stop(pitch pianola.Pitch) {
	m.mu.Lock()
	delete(m.voices, pitch)
	m.mu.Unlock()
}

// StopAll silences every voice in one critical section, so no voice outlives
// a stop request past the next render pass.
func (m *Mixer) StopAll() {
	m.mu.Lock()
	clear(m.voices)
	m.mu.Unlock()
}

// Active returns the pitches that currently have a sounding voice.
func (m *Mixer) Active() []pianola.Pitch {
	m.mu.Lock()
	defer m.mu.Unlock()
	pitches := make([]pianola.Pitch, 0, len(m.voices))
	for p := range m.voices {
		pitches = append(pitches, p)
	}
	return pitches
}

// Render mixes all active voices into out, an interleaved stereo float32
// buffer, and advances their cursors. Voices that reach the end of their
// sample are removed. After summing, the block is hard-clamped to [-1, 1] so
// the output never exceeds device range regardless of how many voices
// overlap. Render does not allocate outside the pooled copy forwarded to the
// model, whose backing arrays are recycled.
func (m *Mixer) Render(out []float32) {
	clear(out)
	m.mu.Lock()
	for pitch, v := range m.voices {
		remaining := v.sample.Data[v.cursor*2:]
		n := min(len(out), len(remaining))
		n -= n % 2
		for off := 0; off < n; off += len(m.scratch) {
			c := min(len(m.scratch), n-off)
			chunk := m.scratch[:c]
			vek32.MulNumber_Into(chunk, remaining[off:off+c], voiceGain)
			vek32.Add_Inplace(out[off:off+c], chunk)
		}
		v.cursor += n / 2
		if v.cursor >= v.sample.Frames() {
			delete(m.voices, pitch)
		}
	}
	m.mu.Unlock()
	for i, s := range out {
		if s > 1 {
			out[i] = 1
		} else if s < -1 {
			out[i] = -1
		}
	}
	if m.broker != nil {
		buf := m.broker.GetAudioBuffer()
		*buf = append(*buf, out...)
		if !TrySend(m.broker.ToModel, MsgToModel{Data: buf}) {
			m.broker.PutAudioBuffer(buf)
		}
	}
}
