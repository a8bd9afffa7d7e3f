package pianola

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	wav "github.com/youpy/go-wav"
)

type (
	// Sample is a decoded recording of a single piano key, stored as
	// interleaved stereo float32 frames. Samples are loaded once at startup
	// and never mutated afterwards; every voice playing the same key shares
	// the same buffer.
	Sample struct {
		Key  int // bank index, one octave below the sounding pitch
		Data []float32
	}

	// SampleBank is the immutable mapping from bank indices to decoded
	// samples, all at a single reference sample rate.
	SampleBank struct {
		Rate    int
		samples map[int]*Sample
	}
)

// Frames returns the length of the sample in stereo frames.
func (s *Sample) Frames() int { return len(s.Data) / 2 }

func NewSampleBank(rate int) *SampleBank {
	return &SampleBank{Rate: rate, samples: make(map[int]*Sample)}
}

// Add stores a sample under its bank index, replacing any previous one.
func (b *SampleBank) Add(s *Sample) {
	b.samples[s.Key] = s
}

// ForPitch returns the sample for a sounding pitch, applying the one-octave
// transposition, or nil when the bank has no recording for it.
func (b *SampleBank) ForPitch(p Pitch) *Sample {
	return b.samples[int(p)+SampleTranspose]
}

// At returns the sample stored under a raw bank index, or nil.
func (b *SampleBank) At(key int) *Sample { return b.samples[key] }

func (b *SampleBank) Len() int { return len(b.samples) }

// The jobro piano set is numbered 001.wav through 088.wav, the first file
// being MIDI note 36 (C2).
const (
	sampleBankOffset = 36
	sampleFileCount  = 88
)

// LoadSampleBank reads the numbered sample files from dir. Missing or
// unreadable files are skipped, as partial sample coverage is an expected
// operating condition, but the bank must end up non-empty or ErrNoSamples is
// returned: an empty bank cannot establish the reference sample rate. The
// rate of the first decoded file becomes the bank rate; later files at a
// different rate are skipped.
func LoadSampleBank(dir string) (*SampleBank, error) {
	bank := NewSampleBank(0)
	for i := 1; i <= sampleFileCount; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%03d.wav", i))
		sample, rate, err := loadWav(path, sampleBankOffset+i-1)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("skipping sample %s: %v", path, err)
			}
			continue
		}
		if bank.Rate == 0 {
			bank.Rate = rate
		} else if rate != bank.Rate {
			log.Printf("skipping sample %s: rate %d Hz differs from bank rate %d Hz", path, rate, bank.Rate)
			continue
		}
		bank.Add(sample)
	}
	if bank.Len() == 0 {
		return nil, ErrNoSamples
	}
	return bank, nil
}

func loadWav(path string, key int) (*Sample, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, 0, fmt.Errorf("reading wav header: %w", err)
	}
	sample := &Sample{Key: key}
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading wav samples: %w", err)
		}
		for _, s := range samples {
			left := float32(r.FloatValue(s, 0))
			right := left // mono files play the same signal on both channels
			if format.NumChannels > 1 {
				right = float32(r.FloatValue(s, 1))
			}
			sample.Data = append(sample.Data, left, right)
		}
	}
	return sample, int(format.SampleRate), nil
}
