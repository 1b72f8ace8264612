package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFaderRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := uint16(rapid.IntRange(0, 1023).Draw(t, "n"))
		raw := EncodeFader(3, n)
		got := DecodeFader10Bit(raw)
		assert.Equal(t, n, got)

		gain := faderScale[n]
		back := GainTo10Bit(gain)
		assert.LessOrEqual(t, absDiff(faderScale[back], gain), 1.0/1024)
	})
}

func absDiff(a, b float64) float64 {
	if a < b {
		return b - a
	}
	return a - b
}

func TestFaderEchoThrottle(t *testing.T) {
	now := time.Unix(0, 0)
	f := NewFader(6)
	f.Now = func() time.Time { return now }

	raw := EncodeFader(6, 1000)
	upd := f.FromDevice(raw)
	assert.True(t, upd.Echo, "first update should echo")

	now = now.Add(50 * time.Millisecond)
	upd = f.FromDevice(raw)
	assert.False(t, upd.Echo, "within throttle window should not echo")

	now = now.Add(60 * time.Millisecond)
	upd = f.FromDevice(raw)
	assert.True(t, upd.Echo, "past throttle window should echo again")
}

func TestFaderTouchFallingEdge(t *testing.T) {
	f := NewFader(2)
	f.Gain = 0.5
	_, fired := f.Touch(true)
	assert.False(t, fired)
	snap, fired := f.Touch(false)
	assert.True(t, fired)
	assert.Equal(t, EncodeFader(2, GainTo10Bit(0.5)), snap)
}

func TestS2FaderMoveScenario(t *testing.T) {
	// B0 05 7F 25 70 -> gain = ((0x7F<<3)|(0x70>>4)) / 1024
	raw := []byte{0xB0, 0x05, 0x7F, 0x25, 0x70}
	n := DecodeFader10Bit(raw)
	expected := ((uint16(0x7F) << 3) | (uint16(0x70) >> 4))
	assert.Equal(t, expected, n)
}
