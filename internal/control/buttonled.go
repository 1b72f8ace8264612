package control

import "github.com/phunkyg/ReaControl24/internal/mapping"

// ButtonLED drives every LED-carrying button on a desk or track from a
// single reverse index built once from the mapping tree, rather than
// walking the tree again on every press.
type ButtonLED struct {
	templates map[string]mapping.ButtonTemplate
	state     map[string]bool
}

func NewButtonLED(tree *mapping.Node) *ButtonLED {
	return &ButtonLED{
		templates: mapping.ButtonTemplates(tree),
		state:     map[string]bool{},
	}
}

// Set applies value to address (optionally carrying a track index) and
// returns the 3-byte device template to send: 0x90 <wire-byte> <state>.
// If the leaf toggles, a nonzero value flips the stored state instead of
// adopting it directly.
func (b *ButtonLED) Set(address string, track int, value float64) ([]byte, bool) {
	tmpl, ok := b.templates[address]
	if !ok {
		return nil, false
	}
	var on bool
	if tmpl.Toggle && value != 0 {
		on = !b.state[address]
	} else {
		on = value != 0
	}
	b.state[address] = on

	byte2 := byte(0)
	if tmpl.HasTrack {
		byte2 |= byte(track) & 0x1F
	}
	if on {
		byte2 |= 0x40
	}
	return []byte{0x90, tmpl.WireByte, byte2}, true
}

// State reports the current latched state of address, if known.
func (b *ButtonLED) State(address string) bool {
	return b.state[address]
}
