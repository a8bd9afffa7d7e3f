package pianola

// AudioSource produces interleaved stereo float32 audio on demand, each
// component in [-1, 1]. Render is called from the audio output's real-time
// context: implementations must fill the whole buffer without blocking on
// I/O, allocating, or doing unbounded work.
type AudioSource interface {
	Render(buffer []float32)
}
