package player

import (
	"sync"

	"github.com/hvirtan/pianola"
)

type (
	// Broker is the message hub between the player goroutine and the
	// presentation model. Communication is one buffered channel per
	// recipient; every send from the player side is non-blocking, so the
	// player can never deadlock on a slow or absent consumer. The broker also
	// keeps a sync.Pool of audio buffers so rendered audio can be handed to
	// the model without allocating on every block.
	Broker struct {
		ToPlayer chan any
		ToModel  chan MsgToModel

		bufferPool sync.Pool
	}

	// MsgToModel carries a snapshot of the player state after a tick. The
	// snapshot travels flat to avoid boxing allocations on the frequent path;
	// other payloads travel in Data: an Alert, or a pooled *[]float32 of
	// rendered audio that the receiver must return with PutAudioBuffer.
	MsgToModel struct {
		State State
		Data  any
	}

	// State is a read-only snapshot of the transport and the currently
	// sounding notes, for the presentation layer to draw.
	State struct {
		Playing bool
		Paused  bool
		Time    float64
		Rate    float64

		LoopStart    float64
		LoopEnd      float64
		HasLoopStart bool
		HasLoopEnd   bool

		ScheduledAudio bool
		LiveAudio      bool

		Sounding []pianola.Pitch // scheduled notes sounding at Time
		Live     []pianola.Pitch // keys currently held by the performer
	}
)

// Messages sent to the player via Broker.ToPlayer. All of them are applied at
// the start of the next tick, on the player goroutine.
type (
	// LoadSequenceMsg replaces the timeline with a new sequence, rewinds the
	// transport, clears any loop region and starts playback.
	LoadSequenceMsg struct{ Sequence pianola.Sequence }

	// StopPlayMsg returns to idle: every voice and held live note is
	// silenced.
	StopPlayMsg struct{}

	TogglePauseMsg struct{}
	RestartMsg     struct{}

	// AdjustRateMsg changes the playback rate by Delta, clamped to the rate
	// floor.
	AdjustRateMsg struct{ Delta float64 }

	MarkLoopStartMsg struct{}
	MarkLoopEndMsg   struct{}
	ClearLoopMsg     struct{}

	// ToggleScheduledAudioMsg mutes or unmutes the timeline's notes;
	// ToggleLiveAudioMsg does the same for the performer's keys.
	ToggleScheduledAudioMsg struct{}
	ToggleLiveAudioMsg      struct{}
)

func NewBroker() *Broker {
	return &Broker{
		ToPlayer:   make(chan any, 1024),
		ToModel:    make(chan MsgToModel, 1024),
		bufferPool: sync.Pool{New: func() any { b := make([]float32, 0); return &b }},
	}
}

// GetAudioBuffer returns an empty audio buffer from the pool. After use it
// should be returned with PutAudioBuffer.
func (b *Broker) GetAudioBuffer() *[]float32 {
	return b.bufferPool.Get().(*[]float32)
}

// PutAudioBuffer returns a buffer to the pool, resetting its length but
// keeping its capacity.
func (b *Broker) PutAudioBuffer(buf *[]float32) {
	if len(*buf) > 0 {
		*buf = (*buf)[:0]
	}
	b.bufferPool.Put(buf)
}

// TrySend sends a value to a channel unless it is full. It is guaranteed to
// be non-blocking; it reports whether the value was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}
