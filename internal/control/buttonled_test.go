package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phunkyg/ReaControl24/internal/mapping"
)

func TestButtonLEDTogglesOnPress(t *testing.T) {
	b := NewButtonLED(mapping.Control24Tree)
	frame, ok := b.Set("button/f1", 0, 1.0)
	require.True(t, ok)
	assert.Equal(t, byte(0x90), frame[0])
	assert.NotZero(t, frame[2]&0x40)
	assert.True(t, b.State("button/f1"))

	frame, ok = b.Set("button/f1", 0, 1.0)
	require.True(t, ok)
	assert.Zero(t, frame[2]&0x40)
	assert.False(t, b.State("button/f1"))
}

func TestButtonLEDUnknownAddress(t *testing.T) {
	b := NewButtonLED(mapping.Control24Tree)
	_, ok := b.Set("button/nonexistent", 0, 1.0)
	assert.False(t, ok)
}

func TestButtonLEDCarriesTrackIndex(t *testing.T) {
	b := NewButtonLED(mapping.Control24Tree)
	frame, ok := b.Set("button/mute", 5, 1.0)
	require.True(t, ok)
	assert.Equal(t, byte(5)|0x40, frame[2])
}
