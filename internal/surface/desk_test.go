package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeskTrackCounts(t *testing.T) {
	d := NewDesk(Control24Profile)
	assert.Len(t, d.Tracks, 32)

	p := NewDesk(ProControlProfile)
	assert.Len(t, p.Tracks, 9)
}

func TestSetGlobalModePropagatesToEveryTrack(t *testing.T) {
	d := NewDesk(Control24Profile)
	for _, tr := range d.Tracks {
		tr.Scribble.WriteText("names", "trk")
	}
	frames := d.SetGlobalMode("values")
	require.Len(t, frames, len(d.Tracks))
	assert.Equal(t, "values", d.GlobalMode())
}

func TestWriteMarqueeChunksAcrossTracks(t *testing.T) {
	d := NewDesk(ProControlProfile) // width 8
	frames := d.WriteMarquee("hello world this is a marquee")
	require.Len(t, frames, len(d.Tracks))
	assert.Equal(t, []byte("hello wo"), frames[0][6:14])
}

func TestTrackOutOfRange(t *testing.T) {
	d := NewDesk(Control24Profile)
	assert.Nil(t, d.Track(-1))
	assert.Nil(t, d.Track(999))
	assert.NotNil(t, d.Track(0))
}
