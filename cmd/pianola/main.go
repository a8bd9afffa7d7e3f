package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hvirtan/pianola"
	"github.com/hvirtan/pianola/config"
	"github.com/hvirtan/pianola/midifile"
	"github.com/hvirtan/pianola/oto"
	"github.com/hvirtan/pianola/player"
	"github.com/hvirtan/pianola/player/gomidi"
	"github.com/hvirtan/pianola/version"
)

func main() {
	wavOut := flag.String("w", "", "Render the MIDI file given as argument to this .wav `file` instead of playing it.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when exporting.")
	firstPort := flag.Bool("f", false, "Connect to the first MIDI input found, ignoring the configured port prefix.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("could not read config, using defaults: %v", err)
	}

	bank, err := pianola.LoadSampleBank(cfg.SampleDir)
	if err != nil {
		log.Fatalf("loading samples from %s: %v", cfg.SampleDir, err)
	}
	log.Printf("loaded %d samples, reference rate %d Hz", bank.Len(), bank.Rate)

	if *wavOut != "" {
		if flag.NArg() == 0 {
			log.Fatal("-w needs a MIDI file argument")
		}
		if err := export(bank, flag.Arg(0), *wavOut, *pcm); err != nil {
			log.Fatal(err)
		}
		return
	}

	midiCtx := gomidi.NewContext()
	defer midiCtx.Close()
	if err := midiCtx.TryToOpenBy(cfg.PortPrefix, *firstPort); err != nil {
		log.Printf("no MIDI keyboard connected: %v", err)
	}

	broker := player.NewBroker()
	p := player.NewPlayer(broker, bank, midiCtx)

	audioCtx, err := oto.NewContext(bank.Rate, time.Duration(cfg.BufferMs)*time.Millisecond)
	if err != nil {
		log.Fatalf("opening audio device: %v", err)
	}
	out := audioCtx.Play(p.Mixer())
	defer out.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	prog := tea.NewProgram(newModel(broker, cfg.MIDIDir, flag.Arg(0)), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		log.Fatalf("running UI: %v", err)
	}
}

func export(bank *pianola.SampleBank, midiPath, outPath string, pcm16 bool) error {
	seq, err := midifile.Load(midiPath)
	if err != nil {
		return err
	}
	buffer, err := player.RenderSequence(bank, seq, 512)
	if err != nil {
		return err
	}
	data, err := pianola.Wav(buffer, bank.Rate, pcm16)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	log.Printf("wrote %s (%.1f s)", outPath, float64(len(buffer))/2/float64(bank.Rate))
	return nil
}
