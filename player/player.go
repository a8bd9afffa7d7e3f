package player

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hvirtan/pianola"
)

type (
	// LiveSource is a non-blocking queue of performance events from an
	// external keyboard. NextEvent must never wait: it returns ok = false as
	// soon as no event is pending.
	LiveSource interface {
		NextEvent() (LiveEvent, bool)
	}

	// LiveEvent is one note-on or note-off played by the live performer.
	LiveEvent struct {
		Pitch    pianola.Pitch
		On       bool
		Velocity byte
	}

	// Player is the control loop of the practice engine. Each tick it
	// advances the transport, re-arms looped triggers after a wrap, drains
	// pending live input, resolves the timeline and issues the resulting
	// start/stop commands to the mixer. It runs in its own goroutine,
	// controlled by messages from the broker; the audio callback only ever
	// touches the mixer. All sends from the player are non-blocking so it can
	// never deadlock.
	Player struct {
		mixer     *Mixer
		transport *Transport
		timeline  *Timeline
		live      map[pianola.Pitch]bool

		playing        bool
		scheduledAudio bool
		liveAudio      bool

		source LiveSource
		broker *Broker

		missingWarned map[pianola.Pitch]bool
	}
)

// tickRate is the control loop cadence in ticks per second; coarse compared
// to the audio callback but fine enough that trigger jitter stays below an
// audio block.
const tickRate = 120

// defaultVelocity is used for timeline-triggered notes; the mixer ignores
// velocity beyond note-off gating.
const defaultVelocity = 100

func NewPlayer(broker *Broker, bank *pianola.SampleBank, source LiveSource) *Player {
	return &Player{
		mixer:          NewMixer(bank, broker),
		transport:      NewTransport(),
		timeline:       NewTimeline(),
		live:           make(map[pianola.Pitch]bool),
		scheduledAudio: true,
		liveAudio:      true,
		source:         source,
		broker:         broker,
		missingWarned:  make(map[pianola.Pitch]bool),
	}
}

// Mixer exposes the voice mixer for wiring to the audio output.
func (p *Player) Mixer() *Mixer { return p.mixer }

// Run ticks the player until ctx is cancelled, then silences every voice.
func (p *Player) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			p.mixer.StopAll()
			return
		case now := <-ticker.C:
			p.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Tick advances the engine by dt wall-clock seconds. A stop from the timeline
// is suppressed while the live performer holds the same key, so a held key
// always outlasts the scheduled note; loop wraps re-arm the triggers inside
// the region before the timeline is resolved, so a rewind never skips a
// note's initial trigger.
func (p *Player) Tick(dt float64) {
	p.processMessages()
	if !p.playing {
		p.drainLive()
		p.sendState(nil)
		return
	}
	if wrapped := p.transport.Advance(dt); wrapped {
		start, end, _ := p.transport.Loop()
		p.timeline.ResetRange(start, end)
	}
	p.drainLive()
	toStart, toStop, sounding := p.timeline.Resolve(p.transport.Time())
	if p.scheduledAudio {
		for _, pitch := range toStart {
			p.startVoice(pitch, defaultVelocity)
		}
	}
	for _, pitch := range toStop {
		if p.liveAudio && p.live[pitch] {
			continue // the performer is still holding this key
		}
		p.mixer.Stop(pitch)
	}
	p.sendState(sounding)
}

// drainLive polls every pending live event; it never waits. A note-on with
// velocity 0 counts as a note-off.
func (p *Player) drainLive() {
	if p.source == nil {
		return
	}
	for {
		ev, ok := p.source.NextEvent()
		if !ok {
			return
		}
		if ev.On && ev.Velocity == 0 {
			ev.On = false
		}
		if ev.On {
			p.live[ev.Pitch] = true
			if p.liveAudio {
				p.startVoice(ev.Pitch, ev.Velocity)
			}
		} else {
			delete(p.live, ev.Pitch)
			if p.liveAudio {
				p.mixer.Stop(ev.Pitch)
			}
		}
	}
}

func (p *Player) startVoice(pitch pianola.Pitch, velocity byte) {
	if p.mixer.Start(pitch, velocity) {
		return
	}
	// silence, not an error; tell the user once per pitch
	if !p.missingWarned[pitch] {
		p.missingWarned[pitch] = true
		p.sendAlert("MissingSample", fmt.Sprintf("no sample for %v", pitch), Warning)
	}
}

func (p *Player) processMessages() {
loop:
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			switch m := msg.(type) {
			case LoadSequenceMsg:
				if err := p.timeline.Load(m.Sequence); err != nil {
					p.sendAlert("LoadSequence", err.Error(), Error)
					break
				}
				p.transport.Restart()
				p.mixer.StopAll()
				p.playing = true
			case StopPlayMsg:
				p.playing = false
				clear(p.live)
				p.mixer.StopAll()
			case TogglePauseMsg:
				p.transport.TogglePause()
			case RestartMsg:
				p.restart()
			case AdjustRateMsg:
				p.transport.AdjustRate(m.Delta)
			case MarkLoopStartMsg:
				p.transport.MarkLoopStart()
			case MarkLoopEndMsg:
				p.transport.MarkLoopEnd()
			case ClearLoopMsg:
				p.transport.ClearLoop()
			case ToggleScheduledAudioMsg:
				p.scheduledAudio = !p.scheduledAudio
			case ToggleLiveAudioMsg:
				p.liveAudio = !p.liveAudio
			default:
				// ignore unknown messages
			}
		default:
			break loop
		}
	}
}

// restart rewinds to the beginning: clock to zero, loop region cleared, all
// triggers re-armed, every voice silenced. Keys the performer still holds
// stay held.
func (p *Player) restart() {
	p.transport.Restart()
	p.timeline.Reset()
	p.mixer.StopAll()
}

func (p *Player) sendState(sounding []pianola.Pitch) {
	state := State{
		Playing:        p.playing,
		Paused:         p.transport.Paused(),
		Time:           p.transport.Time(),
		Rate:           p.transport.Rate(),
		ScheduledAudio: p.scheduledAudio,
		LiveAudio:      p.liveAudio,
		Sounding:       sounding,
	}
	state.LoopStart, state.HasLoopStart = p.transport.LoopStart()
	state.LoopEnd, state.HasLoopEnd = p.transport.LoopEnd()
	if len(p.live) > 0 {
		state.Live = make([]pianola.Pitch, 0, len(p.live))
		for pitch := range p.live {
			state.Live = append(state.Live, pitch)
		}
		slices.Sort(state.Live)
	}
	TrySend(p.broker.ToModel, MsgToModel{State: state})
}

func (p *Player) sendAlert(name, message string, priority AlertPriority) {
	TrySend(p.broker.ToModel, MsgToModel{Data: Alert{Name: name, Message: message, Priority: priority}})
}
