package control

// AutoModeName is one of the five automation states.
type AutoModeName string

const (
	AutoWrite AutoModeName = "write"
	AutoTouch AutoModeName = "touch"
	AutoLatch AutoModeName = "latch"
	AutoTrim  AutoModeName = "trim"
	AutoRead  AutoModeName = "read"
)

var autoModeOrder = []AutoModeName{AutoWrite, AutoTouch, AutoLatch, AutoTrim, AutoRead}

var autoModeBits = map[AutoModeName]byte{
	AutoWrite: 0x40,
	AutoTouch: 0x20,
	AutoLatch: 0x10,
	AutoTrim:  0x08,
	AutoRead:  0x04,
}

// AutoMode is the per-track automation-mode selector: at most one of
// {write, touch, latch, trim, read} is active, and a press advances to the
// next one in order with wraparound.
type AutoMode struct {
	Track  int
	Active AutoModeName // "" means none active
}

func NewAutoMode(track int) *AutoMode {
	return &AutoMode{Track: track}
}

// AutoModeUpdate mirrors a mode transition to the DAW: one OSC message per
// mode whose active state changed.
type AutoModeUpdate struct {
	Address string
	Value   float64
}

// Advance rotates to the next mode, wrapping, and reports the OSC updates
// for both the mode that turned off and the one that turned on.
func (a *AutoMode) Advance() []AutoModeUpdate {
	var updates []AutoModeUpdate
	prev := a.Active
	if prev == "" {
		a.Active = autoModeOrder[0]
	} else {
		idx := 0
		for i, m := range autoModeOrder {
			if m == prev {
				idx = i
				break
			}
		}
		a.Active = autoModeOrder[(idx+1)%len(autoModeOrder)]
	}
	if prev != "" {
		updates = append(updates, AutoModeUpdate{Address: addr(a.Track, prev), Value: 0.0})
	}
	updates = append(updates, AutoModeUpdate{Address: addr(a.Track, a.Active), Value: 1.0})
	return updates
}

func addr(track int, mode AutoModeName) string {
	return "/track/" + itoaSimple(track+1) + "/automode/" + string(mode)
}

func itoaSimple(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// ByteValue composes the device byte: bit-OR of whichever mode is active
// (or 0 if none is).
func (a *AutoMode) ByteValue() byte {
	if a.Active == "" {
		return 0
	}
	return autoModeBits[a.Active]
}
