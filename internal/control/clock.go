package control

// sevenSeg maps a display character to its 7-segment bit pattern (bit 0..6
// = segments a..g, bit 7 unused). It covers digits, hyphen, space, and a
// handful of letters; any other character renders as a blank cell.
var sevenSeg = map[rune]byte{
	'0': 0x3F, '1': 0x06, '2': 0x5B, '3': 0x4F, '4': 0x66,
	'5': 0x6D, '6': 0x7D, '7': 0x07, '8': 0x7F, '9': 0x6F,
	'-': 0x40, ' ': 0x00,
	'A': 0x77, 'B': 0x7F, 'C': 0x39, 'F': 0x71, 'H': 0x76, 'L': 0x38, 'P': 0x73,
}

// ClockMode selects which transport quantity the 8-digit display shows.
type ClockMode int

const (
	ClockTime ClockMode = iota
	ClockFrames
	ClockSamples
	ClockBeat
)

// clockModeOrder is the cycle order used by the single mode-toggle button.
var clockModeOrder = []ClockMode{ClockTime, ClockFrames, ClockSamples, ClockBeat}

// clockAddress preserves, verbatim, the leading space the original
// implementation's clockmodes table carries on every address except
// "time". It reads as an unintentional typo upstream but spec.md's design
// notes direct that it be preserved rather than silently normalized.
var clockAddress = map[ClockMode]string{
	ClockTime:    "/clock/time",
	ClockFrames:  " /clock/frames",
	ClockSamples: " /clock/samples",
	ClockBeat:    " /clock/beat",
}

// Clock is the desk-wide 8x7-segment timecode display.
type Clock struct {
	Mode ClockMode
	Dots byte
	LED  byte
}

func NewClock() *Clock {
	return &Clock{Mode: ClockTime}
}

// ToggleMode advances to the next mode in {time, frames, samples, beat}.
func (c *Clock) ToggleMode() {
	for i, m := range clockModeOrder {
		if m == c.Mode {
			c.Mode = clockModeOrder[(i+1)%len(clockModeOrder)]
			return
		}
	}
	c.Mode = ClockTime
}

// Address returns the OSC address for the current mode.
func (c *Clock) Address() string {
	return clockAddress[c.Mode]
}

// Render formats text according to the current mode and builds the
// 15-byte wire frame: F0 13 01 30 19 {dots} {8x7seg} F7.
func (c *Clock) Render(text string) []byte {
	var formatted string
	switch c.Mode {
	case ClockTime:
		formatted = formatClockTime(text)
	case ClockBeat:
		formatted = formatClockBeat(text)
	default:
		formatted = formatClockDefault(text)
	}
	digits := make([]byte, 8)
	runes := []rune(formatted)
	for i := 0; i < 8; i++ {
		var r rune = ' '
		if i < len(runes) {
			r = runes[i]
		}
		digits[i] = sevenSeg[r]
	}
	out := make([]byte, 0, 14)
	out = append(out, 0xF0, 0x13, 0x01, 0x30, 0x19, c.Dots)
	out = append(out, digits...)
	out = append(out, 0xF7)
	return out
}

// formatClockTime keeps the last 13 characters of the source string before
// the display squeezes it into 8 cells.
func formatClockTime(s string) string {
	r := []rune(s)
	if len(r) > 13 {
		r = r[len(r)-13:]
	}
	return formatClockDefault(string(r))
}

// formatClockBeat inserts a space four characters from the right when the
// fifth-from-last character is a dot (bar/beat separator spacing).
func formatClockBeat(s string) string {
	r := []rune(s)
	if len(r) >= 5 && r[len(r)-5] == '.' {
		pos := len(r) - 4
		out := append([]rune{}, r[:pos]...)
		out = append(out, ' ')
		out = append(out, r[pos:]...)
		r = out
	}
	return formatClockDefault(string(r))
}

// formatClockDefault right-pads to 8 characters, truncating longer input.
func formatClockDefault(s string) string {
	r := []rune(s)
	if len(r) > 8 {
		return string(r[:8])
	}
	for len(r) < 8 {
		r = append(r, ' ')
	}
	return string(r)
}
