package mapping

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSplitRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "payload")
		commands := Split(payload)
		assert.Equal(t, payload, bytes.Join(commands, nil))
	})
}

func TestSplitStartsOnHighBit(t *testing.T) {
	commands := Split([]byte{0xB0, 0x01, 0x02, 0x90, 0x03})
	require.Len(t, commands, 2)
	assert.Equal(t, []byte{0xB0, 0x01, 0x02}, commands[0])
	assert.Equal(t, []byte{0x90, 0x03}, commands[1])
}

func TestSplitTerminatesOnSysExEnd(t *testing.T) {
	commands := Split([]byte{0xF0, 0x13, 0x01, 0xF7, 0xB0, 0x01})
	require.Len(t, commands, 2)
	assert.Equal(t, []byte{0xF0, 0x13, 0x01, 0xF7}, commands[0])
	assert.Equal(t, []byte{0xB0, 0x01}, commands[1])
}

func TestParseEmptyPayload(t *testing.T) {
	ev, err := Parse(Control24Tree, nil)
	require.NoError(t, err)
	assert.Equal(t, Event{}, ev)
}

func TestParseFaderMove(t *testing.T) {
	// B0 05 7F 25 70 -> track 5, handler fader, S2 scenario from the spec.
	ev, err := Parse(Control24Tree, []byte{0xB0, 0x05, 0x7F, 0x25, 0x70})
	require.NoError(t, err)
	assert.Equal(t, HandlerFader, ev.HandlerTag)
	assert.True(t, ev.HasTrack)
	assert.Equal(t, 5, ev.Track)
	assert.Equal(t, []string{"track", "6", "fader"}, ev.Path)
}

func TestParseVPotMove(t *testing.T) {
	ev, err := Parse(Control24Tree, []byte{0xB0, 0x45, 0x46, 0x10})
	require.NoError(t, err)
	assert.Equal(t, HandlerVPot, ev.HandlerTag)
	assert.True(t, ev.HasTrack)
	assert.Equal(t, 5, ev.Track)
	assert.True(t, ev.HasDirection)
	assert.EqualValues(t, int8(0x46)-64, ev.Direction)
}

func TestParseButtonPress(t *testing.T) {
	// 90 01 40 -> track button "mute" (select=0,mute=1,solo=2), track 0, press.
	ev, err := Parse(Control24Tree, []byte{0x90, 0x01, 0x40})
	require.NoError(t, err)
	assert.Equal(t, HandlerButtonLED, ev.HandlerTag)
	assert.True(t, ev.HasValue)
	assert.Equal(t, byte(0x40), ev.Value)
	assert.True(t, ev.Toggle)
	assert.True(t, ev.LED)
}

func TestParseUnmappedFirstByte(t *testing.T) {
	_, err := Parse(Control24Tree, []byte{0xC0, 0x01})
	assert.ErrorIs(t, err, ErrUnmappedFirstByte)
}

func TestMappingLeafTotality(t *testing.T) {
	for _, tree := range []*Node{Control24Tree, ProControlTree} {
		idx := BuildLeafIndex(tree)
		for _, leaf := range LEDLeaves(tree) {
			found := false
			for _, v := range idx {
				if v == leaf {
					found = true
					break
				}
			}
			assert.True(t, found, "LED leaf %q missing from reverse index", leaf.Address)
		}
	}
}
