package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hvirtan/pianola/config"
)

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("LoadFrom on a missing file: %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("missing file loaded as %+v, expected the defaults", cfg)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")
	want := config.Config{
		SampleDir:  "/tmp/samples",
		MIDIDir:    "/tmp/midi",
		PortPrefix: "Digital Piano",
		BufferMs:   40,
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != want {
		t.Errorf("roundtrip got %+v, expected %+v", got, want)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(":\n\t- not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFrom(path); err == nil {
		t.Fatal("parsing invalid yaml succeeded")
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("bufferMs: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.BufferMs != 50 {
		t.Errorf("bufferMs = %d, expected 50", cfg.BufferMs)
	}
	if cfg.SampleDir != config.Default().SampleDir {
		t.Errorf("sampleDir = %q, expected the default to survive a partial file", cfg.SampleDir)
	}
}
