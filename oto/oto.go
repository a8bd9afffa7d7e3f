// Package oto implements audio output using the oto library.
package oto

import (
	"fmt"
	"io"
	"time"

	oto "github.com/ebitengine/oto/v3"

	"github.com/hvirtan/pianola"
)

type (
	// Context is a connection to the audio output device, operating in
	// stereo float32 at a fixed sample rate. The rate must equal the sample
	// bank's reference rate; that precondition is checked once at startup by
	// the caller, not here.
	Context struct {
		ctx  *oto.Context
		rate int
	}

	// Player pulls audio from a source until closed.
	Player struct {
		player *oto.Player
	}

	// reader adapts a pianola.AudioSource into the io.Reader oto pulls
	// from, converting rendered float32 frames to little-endian bytes. Read
	// runs on oto's real-time goroutine and reuses one preallocated buffer.
	reader struct {
		source pianola.AudioSource
		buf    []float32
	}
)

// readerBufFloats bounds the number of float32 components rendered per Read.
const readerBufFloats = 16384

// NewContext opens the audio device at the given sample rate with the given
// output buffer length.
func NewContext(sampleRate int, bufferLen time.Duration) (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferLen,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx, rate: sampleRate}, nil
}

func (c *Context) Rate() int { return c.rate }

// Play starts pulling audio from source until the returned player is closed.
func (c *Context) Play(source pianola.AudioSource) *Player {
	p := c.ctx.NewPlayer(&reader{source: source, buf: make([]float32, readerBufFloats)})
	p.Play()
	return &Player{player: p}
}

func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

func (r *reader) Read(p []byte) (int, error) {
	frames := len(p) / 8 // 2 channels x 4 bytes per component
	if frames*2 > len(r.buf) {
		frames = len(r.buf) / 2
	}
	if frames == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		// less than one frame; a zero count with a nil error could make
		// the caller spin
		return 0, io.ErrShortBuffer
	}
	buf := r.buf[:frames*2]
	r.source.Render(buf)
	writeFloats(p, buf)
	return frames * 8, nil
}
