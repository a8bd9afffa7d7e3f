package player_test

import (
	"testing"

	"github.com/hvirtan/pianola/player"
)

func TestTrySendFullChannel(t *testing.T) {
	c := make(chan int, 1)
	if !player.TrySend(c, 1) {
		t.Fatal("TrySend failed on an empty channel")
	}
	if player.TrySend(c, 2) {
		t.Fatal("TrySend succeeded on a full channel")
	}
	if got := <-c; got != 1 {
		t.Errorf("channel held %d, expected 1", got)
	}
}

func TestBrokerAudioBufferPool(t *testing.T) {
	broker := player.NewBroker()
	buf := broker.GetAudioBuffer()
	if buf == nil || len(*buf) != 0 {
		t.Fatalf("GetAudioBuffer returned %v, expected an empty buffer", buf)
	}
	*buf = append(*buf, 1, 2, 3)
	broker.PutAudioBuffer(buf)
	buf = broker.GetAudioBuffer()
	if len(*buf) != 0 {
		t.Errorf("recycled buffer has length %d, expected it to be reset", len(*buf))
	}
}
