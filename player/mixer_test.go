package player_test

import (
	"slices"
	"testing"

	"github.com/hvirtan/pianola"
	"github.com/hvirtan/pianola/player"
)

// constBank builds a bank whose samples hold a constant value, one sample
// per given pitch, so mixed output levels are easy to predict.
func constBank(rate, frames int, value float32, pitches ...pianola.Pitch) *pianola.SampleBank {
	bank := pianola.NewSampleBank(rate)
	for _, p := range pitches {
		data := make([]float32, frames*2)
		for i := range data {
			data[i] = value
		}
		bank.Add(&pianola.Sample{Key: int(p) + pianola.SampleTranspose, Data: data})
	}
	return bank
}

func TestMixerAppliesVoiceGain(t *testing.T) {
	m := player.NewMixer(constBank(44100, 100, 0.8, 60), nil)
	if !m.Start(60, 100) {
		t.Fatal("Start returned false for a pitch with a sample")
	}
	out := make([]float32, 60)
	m.Render(out)
	const want = float32(0.8) * 0.5
	for i, v := range out {
		if v != want {
			t.Fatalf("out[%d] = %g, expected %g", i, v, want)
		}
	}
}

func TestMixerVoiceEndsAfterSample(t *testing.T) {
	// 100-frame sample rendered in 30-frame blocks: the fourth render
	// plays the final 10 frames and retires the voice.
	m := player.NewMixer(constBank(44100, 100, 0.8, 60), nil)
	m.Start(60, 100)
	out := make([]float32, 60)
	for i := 0; i < 3; i++ {
		m.Render(out)
		if !slices.Contains(m.Active(), pianola.Pitch(60)) {
			t.Fatalf("voice gone after render %d, expected it to survive 3 renders", i+1)
		}
	}
	m.Render(out)
	const want = float32(0.8) * 0.5
	if out[19] != want {
		t.Errorf("last sample frame = %g, expected %g", out[19], want)
	}
	if out[20] != 0 {
		t.Errorf("output past the sample end = %g, expected silence", out[20])
	}
	if len(m.Active()) != 0 {
		t.Errorf("voice still active after its sample ran out: %v", m.Active())
	}
	m.Render(out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %g after all voices finished, expected 0", i, v)
		}
	}
}

func TestMixerClampsMix(t *testing.T) {
	m := player.NewMixer(constBank(44100, 100, 0.8, 60, 62, 64), nil)
	m.Start(60, 100)
	m.Start(62, 100)
	m.Start(64, 100)
	out := make([]float32, 40)
	m.Render(out)
	// three voices at 0.8*0.5 sum to 1.2
	for i, v := range out {
		if v != 1.0 {
			t.Fatalf("out[%d] = %g, expected the mix clamped to 1", i, v)
		}
	}

	m = player.NewMixer(constBank(44100, 100, -0.8, 60, 62, 64), nil)
	m.Start(60, 100)
	m.Start(62, 100)
	m.Start(64, 100)
	m.Render(out)
	for i, v := range out {
		if v != -1.0 {
			t.Fatalf("out[%d] = %g, expected the mix clamped to -1", i, v)
		}
	}
}

func TestMixerRetriggerRestartsSample(t *testing.T) {
	// ramp sample: frame f holds value f, so the read position is visible
	// in the output.
	bank := pianola.NewSampleBank(44100)
	data := make([]float32, 200)
	for f := 0; f < 100; f++ {
		data[2*f] = float32(f)
		data[2*f+1] = float32(f)
	}
	bank.Add(&pianola.Sample{Key: 60 + pianola.SampleTranspose, Data: data})
	m := player.NewMixer(bank, nil)
	m.Start(60, 100)
	out := make([]float32, 20)
	m.Render(out)
	m.Start(60, 100)
	m.Render(out)
	if out[0] != 0 {
		t.Errorf("first frame after retrigger = %g, expected the sample start", out[0])
	}
}

func TestMixerMissingSample(t *testing.T) {
	m := player.NewMixer(constBank(44100, 100, 0.8, 60), nil)
	if m.Start(61, 100) {
		t.Error("Start returned true for a pitch with no sample")
	}
	if len(m.Active()) != 0 {
		t.Errorf("missing-sample Start produced a voice: %v", m.Active())
	}
}

func TestMixerStop(t *testing.T) {
	m := player.NewMixer(constBank(44100, 100, 0.8, 60), nil)
	m.Stop(62) // unknown pitch, no-op
	m.Start(60, 100)
	m.Stop(60)
	if len(m.Active()) != 0 {
		t.Errorf("Stop left the voice active: %v", m.Active())
	}
	out := make([]float32, 20)
	m.Render(out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %g after Stop, expected 0", i, v)
		}
	}
}

func TestMixerForwardsRenderedAudio(t *testing.T) {
	broker := player.NewBroker()
	m := player.NewMixer(constBank(44100, 100, 0.8, 60), broker)
	m.Start(60, 100)
	out := make([]float32, 40)
	m.Render(out)
	select {
	case msg := <-broker.ToModel:
		buf, ok := msg.Data.(*[]float32)
		if !ok {
			t.Fatalf("rendered block arrived as %T, expected *[]float32", msg.Data)
		}
		if !slices.Equal(*buf, out) {
			t.Errorf("forwarded audio differs from the rendered block")
		}
		broker.PutAudioBuffer(buf)
	default:
		t.Fatal("render did not forward the audio block to the model")
	}
}

func TestMixerStopAll(t *testing.T) {
	m := player.NewMixer(constBank(44100, 100, 0.8, 60, 62), nil)
	m.Start(60, 100)
	m.Start(62, 100)
	m.StopAll()
	if len(m.Active()) != 0 {
		t.Errorf("StopAll left voices active: %v", m.Active())
	}
}
