package player_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/hvirtan/pianola"
	"github.com/hvirtan/pianola/player"
)

func mustLoad(t *testing.T, tl *player.Timeline, seq pianola.Sequence) {
	t.Helper()
	if err := tl.Load(seq); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestTimelineFiresExactlyOnce(t *testing.T) {
	tl := player.NewTimeline()
	mustLoad(t, tl, pianola.Sequence{
		{Pitch: 60, Start: 1.0, End: 2.0},
		{Pitch: 62, Start: 1.5, End: 3.0},
	})
	starts := map[pianola.Pitch]int{}
	stops := map[pianola.Pitch]int{}
	for now := 0.0; now <= 3.5; now += 0.25 {
		toStart, toStop, _ := tl.Resolve(now)
		for _, p := range toStart {
			starts[p]++
		}
		for _, p := range toStop {
			stops[p]++
		}
	}
	for _, p := range []pianola.Pitch{60, 62} {
		if starts[p] != 1 {
			t.Errorf("pitch %v started %d times, expected exactly once", p, starts[p])
		}
		if stops[p] != 1 {
			t.Errorf("pitch %v stopped %d times, expected exactly once", p, stops[p])
		}
	}
	if !tl.Finished() {
		t.Error("timeline not finished after all events passed")
	}
}

func TestTimelineNoEarlyFire(t *testing.T) {
	tl := player.NewTimeline()
	mustLoad(t, tl, pianola.Sequence{{Pitch: 60, Start: 1.0, End: 2.0}})
	toStart, toStop, _ := tl.Resolve(0.999)
	if len(toStart) != 0 || len(toStop) != 0 {
		t.Errorf("Resolve before the start fired starts=%v stops=%v", toStart, toStop)
	}
}

func TestTimelineStartAndStopSameCall(t *testing.T) {
	tl := player.NewTimeline()
	mustLoad(t, tl, pianola.Sequence{{Pitch: 60, Start: 1.0, End: 2.0}})
	toStart, toStop, _ := tl.Resolve(5.0)
	if !slices.Contains(toStart, pianola.Pitch(60)) {
		t.Errorf("jumping past the whole event did not fire the start, got %v", toStart)
	}
	if !slices.Contains(toStop, pianola.Pitch(60)) {
		t.Errorf("jumping past the whole event did not fire the stop, got %v", toStop)
	}
}

func TestTimelineResetRange(t *testing.T) {
	tl := player.NewTimeline()
	mustLoad(t, tl, pianola.Sequence{
		{Pitch: 60, Start: 1.0, End: 1.5},
		{Pitch: 64, Start: 3.0, End: 4.0},
	})
	tl.Resolve(4.5) // everything fired
	tl.ResetRange(2.0, 5.0)
	toStart, _, _ := tl.Resolve(3.5)
	if !slices.Contains(toStart, pianola.Pitch(64)) {
		t.Errorf("event inside the reset range did not re-arm, starts=%v", toStart)
	}
	if slices.Contains(toStart, pianola.Pitch(60)) {
		t.Errorf("event outside the reset range re-armed, starts=%v", toStart)
	}
	toStart, _, _ = tl.Resolve(3.6)
	if len(toStart) != 0 {
		t.Errorf("re-armed event fired a second time, starts=%v", toStart)
	}
}

func TestTimelineLoadInvalidKeepsOld(t *testing.T) {
	tl := player.NewTimeline()
	mustLoad(t, tl, pianola.Sequence{{Pitch: 60, Start: 1.0, End: 2.0}})
	if err := tl.Load(pianola.Sequence{{Pitch: 62, Start: 2.0, End: 1.0}}); err == nil {
		t.Fatal("loading an event that ends before it starts succeeded")
	}
	if err := tl.Load(nil); !errors.Is(err, pianola.ErrEmptySequence) {
		t.Fatalf("loading an empty sequence returned %v, expected ErrEmptySequence", err)
	}
	toStart, _, _ := tl.Resolve(1.0)
	if !slices.Contains(toStart, pianola.Pitch(60)) {
		t.Errorf("failed loads replaced the previous events, starts=%v", toStart)
	}
}

func TestTimelineSounding(t *testing.T) {
	tl := player.NewTimeline()
	mustLoad(t, tl, pianola.Sequence{
		{Pitch: 60, Start: 1.0, End: 2.0},
		{Pitch: 62, Start: 1.5, End: 3.0},
	})
	tl.Resolve(1.2)
	_, _, sounding := tl.Resolve(2.5)
	if slices.Contains(sounding, pianola.Pitch(60)) {
		t.Errorf("pitch past its end still reported sounding: %v", sounding)
	}
	if !slices.Contains(sounding, pianola.Pitch(62)) {
		t.Errorf("pitch inside its span not reported sounding: %v", sounding)
	}
}
