package player

// rateFloor is the lowest allowed playback rate; zero or negative rates would
// stall or reverse the clock.
const rateFloor = 0.1

// Transport tracks the playback clock: elapsed song time, playback rate,
// pause state and an optional loop region. It is owned by the player tick and
// never touched by the render context.
type Transport struct {
	time   float64
	rate   float64
	paused bool

	loopStart    float64
	loopEnd      float64
	hasLoopStart bool
	hasLoopEnd   bool
}

func NewTransport() *Transport { return &Transport{rate: 1.0} }

// Advance moves the clock forward by dt wall-clock seconds scaled by the
// playback rate; it is a no-op while paused. When a full loop region is set
// and the clock reaches its end, the clock wraps back to the loop start;
// wrapped reports that case so the caller can re-arm the triggers inside the
// region.
func (t *Transport) Advance(dt float64) (wrapped bool) {
	if t.paused {
		return false
	}
	t.time += dt * t.rate
	if t.hasLoopStart && t.hasLoopEnd && t.time >= t.loopEnd {
		t.time = t.loopStart
		return true
	}
	return false
}

func (t *Transport) Time() float64 { return t.time }
func (t *Transport) Rate() float64 { return t.rate }
func (t *Transport) Paused() bool  { return t.paused }

func (t *Transport) TogglePause() { t.paused = !t.paused }

// SetRate sets the playback rate, clamped to the rate floor.
func (t *Transport) SetRate(rate float64) {
	if rate < rateFloor {
		rate = rateFloor
	}
	t.rate = rate
}

// AdjustRate changes the playback rate by delta, clamped to the rate floor.
func (t *Transport) AdjustRate(delta float64) {
	t.SetRate(t.rate + delta)
}

// MarkLoopStart places the loop start at the current time and discards any
// previous loop end.
func (t *Transport) MarkLoopStart() {
	t.loopStart = t.time
	t.hasLoopStart = true
	t.hasLoopEnd = false
}

// MarkLoopEnd places the loop end at the current time. It is ignored unless a
// loop start is set strictly before the current time, so a complete region
// always satisfies loopStart < loopEnd.
func (t *Transport) MarkLoopEnd() {
	if !t.hasLoopStart || t.time <= t.loopStart {
		return
	}
	t.loopEnd = t.time
	t.hasLoopEnd = true
}

func (t *Transport) ClearLoop() {
	t.hasLoopStart = false
	t.hasLoopEnd = false
}

// Loop returns the loop region; ok is false until both markers are set.
func (t *Transport) Loop() (start, end float64, ok bool) {
	if !t.hasLoopStart || !t.hasLoopEnd {
		return 0, 0, false
	}
	return t.loopStart, t.loopEnd, true
}

func (t *Transport) LoopStart() (float64, bool) { return t.loopStart, t.hasLoopStart }
func (t *Transport) LoopEnd() (float64, bool)   { return t.loopEnd, t.hasLoopEnd }

// Restart rewinds the clock to zero and clears the loop region.
func (t *Transport) Restart() {
	t.time = 0
	t.hasLoopStart = false
	t.hasLoopEnd = false
}
