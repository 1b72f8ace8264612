package oscbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phunkyg/ReaControl24/internal/control"
	"github.com/phunkyg/ReaControl24/internal/mapping"
	"github.com/phunkyg/ReaControl24/internal/surface"
)

type fakeSender struct {
	sent [][]byte
}

func (f *fakeSender) SendCommands(ncmds int, payload []byte) {
	f.sent = append(f.sent, payload)
}

func newTestBridge() (*Bridge, *fakeSender, *surface.Desk) {
	desk := surface.NewDesk(surface.Control24Profile)
	sender := &fakeSender{}
	b := New(desk, sender, "127.0.0.1:9000", "127.0.0.1", 9001, nil)
	return b, sender, desk
}

func TestHandleEventFaderEchoesOnThrottleElapsed(t *testing.T) {
	b, sender, desk := newTestBridge()
	ev, err := mapping.Parse(mapping.Control24Tree, []byte{0xB0, 0x05, 0x7F, 0x25, 0x70})
	require.NoError(t, err)

	b.HandleEvent(ev)
	require.Len(t, sender.sent, 1)
	assert.InDelta(t, desk.Track(5).Fader.Gain, float64(((0x7F<<3)|(0x70>>4)))/1024, 1e-9)
}

func TestHandleEventButtonTogglesLED(t *testing.T) {
	b, sender, desk := newTestBridge()
	ev, err := mapping.Parse(mapping.Control24Tree, []byte{0x90, 0x01, 0x40}) // mute, track 0, pressed
	require.NoError(t, err)

	b.HandleEvent(ev)
	require.Len(t, sender.sent, 1)
	assert.True(t, desk.Track(0).ButtonLED.State("button/mute"))
}

func TestButtonKeyReconstructsFromSplicedPath(t *testing.T) {
	assert.Equal(t, "button/mute", buttonKey([]string{"track", "6", "button", "mute"}))
	assert.Equal(t, "button/f1", buttonKey([]string{"button", "f1"}))
	assert.Equal(t, "", buttonKey([]string{"button"}))
}

func TestHandleEventRoutesJogTrackToJogWheel(t *testing.T) {
	b, _, desk := newTestBridge()
	desk.Jog.Mode = control.JogShuttle

	// B0 {28|0x40} {dir byte} {vel}: vpot wire shape on the virtual jog track.
	ev, err := mapping.Parse(mapping.Control24Tree, []byte{0xB0, 28 | 0x40, 84, 0x00})
	require.NoError(t, err)
	require.Equal(t, mapping.JogTrackIndex, ev.Track)

	b.HandleEvent(ev)
	// The jog wheel has no LED ring, so no command is sent back to the
	// device — only the OSC report to the DAW (verified via no panic and
	// desk.Jog's mode being left untouched by a move event).
	assert.Equal(t, control.JogShuttle, desk.Jog.Mode)
}

func TestHandleEventNavModeButtonTogglesOnPressOnly(t *testing.T) {
	b, _, desk := newTestBridge()
	zoneStart := byte(0x18) // Control|24 command-zone offset
	press, err := mapping.Parse(mapping.Control24Tree, []byte{0x90, zoneStart + 0x17, 0x40})
	require.NoError(t, err)

	b.HandleEvent(press)
	assert.Equal(t, control.NavZoom, desk.Nav.Mode)

	release, err := mapping.Parse(mapping.Control24Tree, []byte{0x90, zoneStart + 0x17, 0x00})
	require.NoError(t, err)
	b.HandleEvent(release)
	assert.Equal(t, control.NavZoom, desk.Nav.Mode, "release must not re-toggle the mode")
}

func TestHandleEventCursorKeyEmitsUnderCurrentNavPrefix(t *testing.T) {
	b, sender, desk := newTestBridge()
	desk.Nav.Mode = control.NavFXCursor
	zoneStart := byte(0x18)

	ev, err := mapping.Parse(mapping.Control24Tree, []byte{0x90, zoneStart + 0x19, 0x40}) // "up"
	require.NoError(t, err)
	assert.Equal(t, "up", ev.Path[len(ev.Path)-1])
	assert.Equal(t, "/reanav/fxcursor/up", desk.Nav.Cursor(ev.Path[len(ev.Path)-1]))

	b.HandleEvent(ev)
	require.Empty(t, sender.sent, "cursor keys report to the DAW, not the device")
}

func TestDispatchTrackFaderFromDAW(t *testing.T) {
	b, sender, desk := newTestBridge()
	b.dispatchTrack(desk.Track(2), 2, []string{"fader"}, []interface{}{float32(0.25)})
	require.Len(t, sender.sent, 1)
	assert.InDelta(t, 0.25, desk.Track(2).Fader.Gain, 1e-6)
}
