// Package gomidi adapts a hardware MIDI keyboard, via the rtmidi driver, into
// the player's live event source.
package gomidi

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/hvirtan/pianola"
	"github.com/hvirtan/pianola/player"
)

// Context owns the rtmidi driver and at most one open input port. Incoming
// messages are translated on the driver's callback goroutine and pushed into
// a buffered channel; the player drains them with a non-blocking poll
// through NextEvent. When the channel is full, events are dropped rather
// than blocking the driver.
type Context struct {
	driver    *rtmididrv.Driver
	currentIn drivers.In
	stop      func()
	events    chan player.LiveEvent
}

// NewContext opens the rtmidi driver. There is not much to be done if that
// fails, so a nil driver just means no MIDI available: the context still
// works as an always-empty event source.
func NewContext() *Context {
	c := &Context{events: make(chan player.LiveEvent, 1024)}
	c.driver, _ = rtmididrv.New()
	return c
}

// InputNames lists the available MIDI input ports.
func (c *Context) InputNames() []string {
	if c.driver == nil {
		return nil
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return nil
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names
}

// TryToOpenBy opens the first input whose name starts with namePrefix, or
// simply the first input available when takeFirst is set.
func (c *Context) TryToOpenBy(namePrefix string, takeFirst bool) error {
	if c.driver == nil {
		return errors.New("no MIDI driver available")
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return fmt.Errorf("listing MIDI inputs: %w", err)
	}
	for _, in := range ins {
		if takeFirst || (namePrefix != "" && strings.HasPrefix(in.String(), namePrefix)) {
			return c.open(in)
		}
	}
	if takeFirst {
		return errors.New("no MIDI inputs found")
	}
	return fmt.Errorf("no MIDI input starting with %q", namePrefix)
}

func (c *Context) open(in drivers.In) error {
	if c.currentIn == in {
		return nil
	}
	if c.HasDeviceOpen() {
		c.stop()
		c.currentIn.Close()
		c.currentIn = nil
	}
	if err := in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input %s: %w", in, err)
	}
	stop, err := midi.ListenTo(in, c.handleMessage)
	if err != nil {
		in.Close()
		return fmt.Errorf("listening to MIDI input %s: %w", in, err)
	}
	c.currentIn = in
	c.stop = stop
	return nil
}

func (c *Context) HasDeviceOpen() bool {
	return c.currentIn != nil && c.currentIn.IsOpen()
}

// handleMessage runs on the driver's callback goroutine. A note-on with
// velocity 0 is a note-off in disguise and is normalized here.
func (c *Context) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity uint8
	isNoteOn := msg.GetNoteOn(&channel, &key, &velocity)
	if !isNoteOn && !msg.GetNoteOff(&channel, &key, &velocity) {
		return
	}
	ev := player.LiveEvent{
		Pitch:    pianola.Pitch(key),
		On:       isNoteOn && velocity > 0,
		Velocity: velocity,
	}
	select {
	case c.events <- ev:
	default: // full channel, drop the message
	}
}

// NextEvent implements player.LiveSource; it never blocks.
func (c *Context) NextEvent() (player.LiveEvent, bool) {
	select {
	case ev := <-c.events:
		return ev, true
	default:
		return player.LiveEvent{}, false
	}
}

func (c *Context) Close() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		c.currentIn.Close()
	}
	c.currentIn = nil
	if c.driver != nil {
		c.driver.Close()
		c.driver = nil
	}
}
