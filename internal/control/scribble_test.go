package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScribbleRestoresAfterOffModeWrite(t *testing.T) {
	global := "names"
	s := NewScribble(3, 4, func() string { return global })
	s.texts[global] = "trk3"
	s.active = global

	var fired chan func()
	fired = make(chan func(), 1)
	s.AfterFunc = func(d time.Duration, f func()) *time.Timer {
		assert.Equal(t, ScribbleRestoreDelay, d)
		fired <- f
		return time.NewTimer(time.Hour)
	}

	restored := make(chan []byte, 1)
	s.OnRestore = func(frame []byte) { restored <- frame }

	frame := s.WriteText("volume", "-6.2dB")
	require.NotEmpty(t, frame)
	assert.Equal(t, "volume", s.active)

	cb := <-fired
	cb()

	got := <-restored
	assert.Equal(t, global, s.active)
	assert.Contains(t, string(got[6:6+4]), "trk3")
}

func TestScribbleCompactsDotDigit(t *testing.T) {
	// dot must sit at index 3 to be eligible; the digit after it is
	// subscripted into the dot's slot but also left in place.
	packed := compactDots("abc.5def")
	assert.Equal(t, []byte{'a', 'b', 'c', '5' - 26, '5', 'd', 'e', 'f'}, packed)
}

func TestScribbleCompactDotsIgnoresWrongPosition(t *testing.T) {
	assert.Equal(t, []byte("12.3"), compactDots("12.3"))
}

func TestScribbleCompactDotsSkipsZeroDigit(t *testing.T) {
	assert.Equal(t, []byte("abc.0def"), compactDots("abc.0def"))
}

func TestScribblePadsAndTruncates(t *testing.T) {
	s := NewScribble(0, 4, func() string { return "names" })
	frame := s.WriteText("names", "ab")
	assert.Equal(t, []byte{'a', 'b', ' ', ' '}, frame[6:10])

	frame = s.WriteText("names", "abcdef")
	assert.Equal(t, []byte{'a', 'b', 'c', 'd'}, frame[6:10])
}
