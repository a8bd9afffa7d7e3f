package player

import (
	"github.com/hvirtan/pianola"
)

// maxRenderTail bounds how long the offline renderer waits for the last
// voices to ring out after the final trigger.
const maxRenderTail = 30.0

// RenderSequence plays seq through a fresh player without an audio device and
// returns the mixed audio as interleaved stereo float32 at the bank's rate.
// Rendering advances the clock by exactly one block per render pass, so the
// result is deterministic. It ends when every trigger has fired and the last
// voice has run out, or after the bounded tail at the latest.
func RenderSequence(bank *pianola.SampleBank, seq pianola.Sequence, blockFrames int) ([]float32, error) {
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	broker := NewBroker()
	p := NewPlayer(broker, bank, nil)
	if err := p.timeline.Load(seq); err != nil {
		return nil, err
	}
	p.playing = true

	dt := float64(blockFrames) / float64(bank.Rate)
	maxBlocks := int((seq.Duration()+maxRenderTail)/dt) + 1
	out := make([]float32, 0, maxBlocks*blockFrames*2)
	block := make([]float32, blockFrames*2)
	for i := 0; i < maxBlocks; i++ {
		p.Tick(dt)
		p.mixer.Render(block)
		out = append(out, block...)
		drainModel(broker)
		if p.timeline.Finished() && len(p.mixer.Active()) == 0 {
			break
		}
	}
	return out, nil
}

// drainModel discards the model messages nobody is listening to during an
// offline render, recycling the pooled audio buffers among them.
func drainModel(broker *Broker) {
	for {
		select {
		case msg := <-broker.ToModel:
			if buf, ok := msg.Data.(*[]float32); ok {
				broker.PutAudioBuffer(buf)
			}
		default:
			return
		}
	}
}
