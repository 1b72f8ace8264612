package control

import (
	"bytes"
	"time"
)

const ScribbleRestoreDelay = 1 * time.Second

// Scribble is a small alphanumeric channel-strip display: a fixed-width
// character buffer, one text per display mode, and a restore timer that
// reverts a transient off-mode write back to the desk's global mode.
type Scribble struct {
	Track int
	Width int // 4 (Control|24) or 8 (Pro Control)

	texts  map[string]string
	active string

	// GlobalMode returns the desk-wide mode to restore to.
	GlobalMode func() string
	// OnRestore is invoked with the rendered frame when the restore timer
	// fires.
	OnRestore func(frame []byte)

	// AfterFunc is overridable in tests; defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) *time.Timer

	timer *time.Timer
}

func NewScribble(track, width int, globalMode func() string) *Scribble {
	return &Scribble{
		Track:      track,
		Width:      width,
		texts:      map[string]string{},
		active:     "",
		GlobalMode: globalMode,
	}
}

func (s *Scribble) afterFunc(d time.Duration, f func()) *time.Timer {
	if s.AfterFunc != nil {
		return s.AfterFunc(d, f)
	}
	return time.AfterFunc(d, f)
}

// WriteText stores text for mode and returns the frame to send. If mode is
// the currently active mode, or no mode is active yet, the write takes
// effect immediately with no timer and mode becomes active. Otherwise mode becomes active transiently and a restore timer is
// armed to fall back to the desk's global mode.
func (s *Scribble) WriteText(mode, text string) []byte {
	s.texts[mode] = text
	if mode == s.active || s.active == "" {
		s.active = mode
		return s.render(text)
	}
	s.active = mode
	s.armRestore()
	return s.render(text)
}

func (s *Scribble) armRestore() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.afterFunc(ScribbleRestoreDelay, func() {
		global := s.GlobalMode()
		s.active = global
		frame := s.render(s.texts[global])
		if s.OnRestore != nil {
			s.OnRestore(frame)
		}
	})
}

// SetGlobalMode is called when the desk-wide mode selector changes; it
// re-renders the display for the new mode immediately.
func (s *Scribble) SetGlobalMode(mode string) []byte {
	s.active = mode
	return s.render(s.texts[mode])
}

func (s *Scribble) render(text string) []byte {
	packed := compactDots(text)
	buf := make([]byte, s.Width)
	for i := range buf {
		buf[i] = ' '
	}
	n := len(packed)
	if n > s.Width {
		n = s.Width
	}
	copy(buf, packed[:n])
	out := make([]byte, 0, 7+s.Width)
	out = append(out, 0xF0, 0x13, 0x01, 0x40, byte(s.Track), 0x00)
	out = append(out, buf...)
	out = append(out, 0xF7)
	return out
}

// compactDots implements the dot-digit compaction: only a '.' at index 3
// (the fixed prefix width the original format reserves before it) is
// eligible. The digit immediately after the dot is re-encoded at code-26
// into the dot's slot; the digit itself is left in place, so the string
// keeps its length and the width truncation below is what actually
// recovers the saved display cell.
func compactDots(s string) []byte {
	b := []byte(s)
	dpp := bytes.IndexByte(b, '.')
	if dpp != 3 || dpp+1 >= len(b) {
		return b
	}
	nco := b[dpp+1]
	if nco == '0' {
		return b
	}
	out := make([]byte, 0, len(b))
	out = append(out, b[:dpp]...)
	out = append(out, nco-26)
	out = append(out, b[dpp+1:]...)
	return out
}
