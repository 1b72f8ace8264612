package control

import "time"

// faderScale is the precomputed 10-bit-to-gain lookup table: faderScale[n]
// == float64(n)/1024. It exists as a table (rather than a division at call
// time) to mirror the fixed-table approach the console firmware itself
// uses for the inverse direction.
var faderScale = buildFaderScale()

func buildFaderScale() [1024]float64 {
	var t [1024]float64
	for n := 0; n < 1024; n++ {
		t[n] = float64(n) / 1024.0
	}
	return t
}

const faderEchoThrottle = 100 * time.Millisecond

// Fader is the per-track gain control: a 10-bit value mirrored to/from the
// device, a touch latch, and an echo throttle that absorbs long touch-drag
// bursts without flooding the wire.
type Fader struct {
	Track int

	Gain        float64
	TouchActive bool
	lastEcho    time.Time

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// NewFader returns a Fader ready to receive device or DAW updates.
func NewFader(track int) *Fader {
	return &Fader{Track: track, Now: time.Now}
}

func (f *Fader) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// FaderUpdate is what FromDevice reports: the OSC value to forward, and
// whether an echo frame should be sent back to the console.
type FaderUpdate struct {
	Gain     float64
	Echo     bool
	EchoData []byte
}

// FromDevice decodes a fader-move command (raw bytes as on the wire:
// {0xB0} {trk} {hi7} {0x20|trk} {lo3<<4}) and reports the OSC update plus whether
// an echo is due.
func (f *Fader) FromDevice(raw []byte) FaderUpdate {
	n := DecodeFader10Bit(raw)
	f.Gain = faderScale[n]

	now := f.now()
	echo := now.Sub(f.lastEcho) > faderEchoThrottle
	if echo {
		f.lastEcho = now
	}
	upd := FaderUpdate{Gain: f.Gain, Echo: echo}
	if echo {
		upd.EchoData = EncodeFader(f.Track, n)
	}
	return upd
}

// Touch sets the touch latch to pressed and, on the falling edge, returns the
// template bytes that should be sent once as a snap-back safety frame.
func (f *Fader) Touch(pressed bool) (snapBack []byte, fired bool) {
	wasActive := f.TouchActive
	f.TouchActive = pressed
	if wasActive && !pressed {
		return EncodeFader(f.Track, GainTo10Bit(f.Gain)), true
	}
	return nil, false
}

// FromDAW clamps gain to [0,1], stores it, and returns the device bytes to
// send.
func (f *Fader) FromDAW(gain float64) []byte {
	if gain < 0 {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}
	f.Gain = gain
	return EncodeFader(f.Track, GainTo10Bit(gain))
}

// DecodeFader10Bit extracts the 10-bit value from a 5-byte fader-move
// command: high 7 bits at offset 2, low 3 bits (shifted into the top
// nibble) at offset 4.
func DecodeFader10Bit(raw []byte) uint16 {
	if len(raw) < 5 {
		return 0
	}
	hi7 := uint16(raw[2])
	lo3 := uint16(raw[4]) >> 4
	return (hi7 << 3) | lo3
}

// GainTo10Bit converts a gain in [0,1] to its nearest 10-bit code.
func GainTo10Bit(gain float64) uint16 {
	n := int(gain*1024 + 0.5)
	if n < 0 {
		n = 0
	}
	if n > 1023 {
		n = 1023
	}
	return uint16(n)
}

// EncodeFader builds the 5-byte fader-move command for track and 10-bit
// value n: {0xB0} {trk&0x1F} {hi7} {0x20|trk} {lo3<<4}.
func EncodeFader(track int, n uint16) []byte {
	trk := byte(track) & 0x1F
	hi7 := byte(n >> 3)
	lo3 := byte(n&0x07) << 4
	return []byte{0xB0, trk, hi7, 0x20 | trk, lo3}
}
