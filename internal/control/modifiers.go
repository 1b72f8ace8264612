package control

// Modifiers holds the four momentary modifier latches. Other code (the
// vpot fine-step selection) reads these rather than the modifier object
// dispatching to them directly.
type Modifiers struct {
	Shift   bool
	Option  bool
	Control bool
	Command bool
}

// Set latches or unlatches one of the four modifiers by name.
func (m *Modifiers) Set(name string, on bool) {
	switch name {
	case "shift":
		m.Shift = on
	case "option":
		m.Option = on
	case "control":
		m.Control = on
	case "command":
		m.Command = on
	}
}

// NavMode selects which cursor-key OSC prefix is active.
type NavMode int

const (
	NavScroll NavMode = iota
	NavZoom
	NavFXCursor
)

var navOrder = []NavMode{NavScroll, NavZoom, NavFXCursor}

var navPrefix = map[NavMode]string{
	NavScroll:   "/reanav/scroll",
	NavZoom:     "/reanav/zoom",
	NavFXCursor: "/reanav/fxcursor",
}

// Nav is the navigation-mode selector driving which prefix cursor-key
// presses are emitted under.
type Nav struct {
	Mode NavMode
}

// ToggleMode cycles nav -> zoom -> seladj -> nav.
func (n *Nav) ToggleMode() {
	for i, m := range navOrder {
		if m == n.Mode {
			n.Mode = navOrder[(i+1)%len(navOrder)]
			return
		}
	}
}

// Cursor builds the OSC address for a cursor-key press in the current mode.
func (n *Nav) Cursor(direction string) string {
	return navPrefix[n.Mode] + "/" + direction
}
