package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJogScrubEmitsUnitTick(t *testing.T) {
	j := &Jog{Mode: JogScrub}

	up := j.FromDevice(1, 65)
	assert.Equal(t, JogUpdate{Address: "/jpot/scrub", Value: 1}, up)

	down := j.FromDevice(-1, 63)
	assert.Equal(t, JogUpdate{Address: "/jpot/scrub", Value: 0}, down)
}

func TestJogShuttleReportsPlaybackRate(t *testing.T) {
	j := &Jog{Mode: JogShuttle}

	up := j.FromDevice(1, 84)
	assert.Equal(t, "/jpot/playrate/rotary", up.Address)
	assert.InDelta(t, 0.5+float64(84-64)*0.05, up.Value, 1e-9)
}

func TestJogToggleModeFlips(t *testing.T) {
	j := &Jog{Mode: JogScrub}
	j.ToggleMode()
	assert.Equal(t, JogShuttle, j.Mode)
	j.ToggleMode()
	assert.Equal(t, JogScrub, j.Mode)
}
