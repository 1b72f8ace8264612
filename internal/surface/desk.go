// Package surface aggregates per-channel control objects into Track and
// Desk structures, one Desk per connected console.
package surface

import (
	"github.com/phunkyg/ReaControl24/internal/control"
	"github.com/phunkyg/ReaControl24/internal/mapping"
)

// Profile captures the parameters that differ between the Control|24 and
// Pro Control surfaces: channel counts and scribble-strip width. Both
// devices share the same frame shape and control-object algorithms; only
// these counts and the mapping tree's command-zone offset differ.
type Profile struct {
	Name            string
	RealChannels    int
	VirtualChannels int
	BusVUs          int
	ScribbleWidth   int
	Tree            *mapping.Node
}

var Control24Profile = Profile{
	Name:            "CNTRL|24",
	RealChannels:    24,
	VirtualChannels: 8,
	BusVUs:          1,
	ScribbleWidth:   4,
	Tree:            mapping.Control24Tree,
}

var ProControlProfile = Profile{
	Name:            "MAINUNIT",
	RealChannels:    8,
	VirtualChannels: 1,
	BusVUs:          1,
	ScribbleWidth:   8,
	Tree:            mapping.ProControlTree,
}

// Track owns the per-channel-strip control objects and knows its 0-based
// index.
type Track struct {
	Index     int
	Fader     *control.Fader
	VPot      *control.VPot
	VUMeter   *control.VUMeter
	Scribble  *control.Scribble
	AutoMode  *control.AutoMode
	ButtonLED *control.ButtonLED
}

// Desk owns the global controls (clock, nav, modifiers, desk-wide button
// LEDs), the immutable mapping tree, the current desk-wide display mode,
// and the ordered list of Tracks.
type Desk struct {
	Profile   Profile
	Tracks    []*Track
	Clock     *control.Clock
	Nav       *control.Nav
	Modifiers *control.Modifiers
	ButtonLED *control.ButtonLED
	Jog       *control.Jog

	globalMode string
}

// NewDesk builds a Desk for profile with one Track per real+virtual
// channel, each Track's Scribble sharing the desk's global-mode getter.
func NewDesk(profile Profile) *Desk {
	d := &Desk{
		Profile:    profile,
		Clock:      control.NewClock(),
		Nav:        &control.Nav{},
		Modifiers:  &control.Modifiers{},
		ButtonLED:  control.NewButtonLED(profile.Tree),
		Jog:        &control.Jog{},
		globalMode: "names",
	}
	total := profile.RealChannels + profile.VirtualChannels
	d.Tracks = make([]*Track, total)
	for i := 0; i < total; i++ {
		d.Tracks[i] = &Track{
			Index:     i,
			Fader:     control.NewFader(i),
			VPot:      control.NewVPot(i),
			VUMeter:   control.NewVUMeter(i),
			Scribble:  control.NewScribble(i, profile.ScribbleWidth, d.GlobalMode),
			AutoMode:  control.NewAutoMode(i),
			ButtonLED: control.NewButtonLED(profile.Tree),
		}
	}
	return d
}

// GlobalMode returns the desk-wide scribble display mode; it is handed to
// every Track's Scribble as its restore target.
func (d *Desk) GlobalMode() string { return d.globalMode }

// SetGlobalMode changes the desk-wide mode and re-renders every track's
// scribble display for it, returning one frame per track.
func (d *Desk) SetGlobalMode(mode string) [][]byte {
	d.globalMode = mode
	frames := make([][]byte, 0, len(d.Tracks))
	for _, tr := range d.Tracks {
		frames = append(frames, tr.Scribble.SetGlobalMode(mode))
	}
	return frames
}

// WriteMarquee splits text into one chunk per track's scribble width and
// writes each chunk to that track's current global-mode display, forming
// a single long message across the whole desk.
func (d *Desk) WriteMarquee(text string) [][]byte {
	frames := make([][]byte, 0, len(d.Tracks))
	runes := []rune(text)
	pos := 0
	for _, tr := range d.Tracks {
		w := tr.Scribble.Width
		end := pos + w
		if end > len(runes) {
			end = len(runes)
		}
		var chunk string
		if pos < len(runes) {
			chunk = string(runes[pos:end])
		}
		frames = append(frames, tr.Scribble.WriteText(d.globalMode, chunk))
		pos = end
	}
	return frames
}

// Track returns the track at 0-based index, or nil if out of range.
func (d *Desk) Track(index int) *Track {
	if index < 0 || index >= len(d.Tracks) {
		return nil
	}
	return d.Tracks[index]
}
