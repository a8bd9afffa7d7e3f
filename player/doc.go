/*
Package player contains the real-time core of the practice engine: the voice
Mixer, the Transport clock, the note Timeline and the Player control loop that
ties them together.

Two execution contexts touch this package. The audio output pulls fixed-size
blocks through Mixer.Render on its real-time goroutine; everything else
happens on the Player goroutine, which ticks at a coarse, non-real-time
cadence. The voice set inside the Mixer is the only state shared between the
two and is guarded by a single mutex with bounded critical sections. The
Player itself is driven by messages sent through the Broker; all sends from
the player back to the model are non-blocking, so the player can never stall.
*/
package player
