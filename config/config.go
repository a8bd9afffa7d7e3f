// Package config reads and writes the user's settings file,
// ~/.config/pianola/config.yml (or the platform equivalent).
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the user-tunable settings. Missing fields keep their
// defaults, so a partial file is fine.
type Config struct {
	// SampleDir is the directory holding the numbered piano sample files.
	SampleDir string `yaml:"sampleDir"`
	// MIDIDir is the directory listed in the file selection menu.
	MIDIDir string `yaml:"midiDir"`
	// PortPrefix selects the MIDI input port to auto-connect to by name
	// prefix; empty means no auto-connect.
	PortPrefix string `yaml:"portPrefix"`
	// BufferMs is the audio output buffer length in milliseconds.
	BufferMs int `yaml:"bufferMs"`
}

func Default() Config {
	return Config{
		SampleDir: "samples/2489__jobro__piano-ff",
		MIDIDir:   "midi",
		BufferMs:  20,
	}
}

// Path returns the settings file location inside the user config dir.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pianola", "config.yml"), nil
}

// Load reads the settings file, falling back to defaults when it does not
// exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
