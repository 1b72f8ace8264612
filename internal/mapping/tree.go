package mapping

// The trees below are built once at package init and shared read-only
// across every session, matching the "immutable after construction" design
// note. Control|24 and Pro Control share the same frame shape; they differ
// in channel counts and in the byte offset where the command-button zone
// begins (0x18 vs 0x08), since Pro Control exposes fewer real channels.

// Control24Tree is the command-byte trie for the Control|24 surface.
var Control24Tree = buildTree(0x18)

// ProControlTree is the command-byte trie for the Pro Control surface.
var ProControlTree = buildTree(0x08)

func buildTree(zoneStart byte) *Node {
	root := &Node{Children: map[byte]*Node{}}

	root.Children[0xB0] = buildFaderVpotBranch()
	root.Children[0x90] = buildButtonBranch(zoneStart)

	return root
}

// buildFaderVpotBranch models:
//   Fader move (device->host): B0 {trk&0x1F} {hi7} {0x20|trk} {lo3<<4}
//   VPot move  (device->host): B0 {trk&0x1F|0x40} {dir_byte} {vel}
// The branch is selected by bit 0x40 of byte[1]; the low 5 bits of byte[1]
// are always the track index.
func buildFaderVpotBranch() *Node {
	b1 := 1
	d2 := 2
	return &Node{
		Address:   "track",
		ChildByte: &b1,
		ChildMask: 0x40,
		TrackByte: &b1,
		TrackMask: 0x1F,
		Children: map[byte]*Node{
			0x00: {Address: "fader", HandlerTag: HandlerFader},
			0x40: {Address: "vpot", HandlerTag: HandlerVPot, DirectionByte: &d2},
		},
	}
}

// buildButtonBranch models:
//   90 {zone_or_track} {value_byte}
// byte[1] < zoneStart selects a per-track button (select/mute/solo);
// byte[1] >= zoneStart selects a command-zone button (F-keys, transport,
// automation-mode select, navigation, modifiers). byte[2] carries the
// track index in its low 5 bits and the press/release bit at 0x40.
func buildButtonBranch(zoneStart byte) *Node {
	b1 := 1
	b2 := 2
	node := &Node{
		Address:   "button",
		ChildByte: &b1,
		Children:  map[byte]*Node{},
	}

	trackButtons := map[byte]string{
		0x00: "select",
		0x01: "mute",
		0x02: "solo",
	}
	for key, name := range trackButtons {
		node.Children[key] = &Node{
			Address:   name,
			ValueByte: &b2,
			ValueMask: 0x40,
			TrackByte: &b2,
			TrackMask: 0x1F,
			Toggle:    true,
			LED:       true,
			HandlerTag: HandlerButtonLED,
		}
	}

	commandButtons := []struct {
		offset byte
		name   string
		tag    HandlerTag
		toggle bool
		led    bool
	}{
		{0x00, "f1", HandlerButtonLED, true, true},
		{0x01, "f2", HandlerButtonLED, true, true},
		{0x02, "f3", HandlerButtonLED, true, true},
		{0x03, "f4", HandlerButtonLED, true, true},
		{0x04, "f5", HandlerButtonLED, true, true},
		{0x05, "f6", HandlerButtonLED, true, true},
		{0x06, "f7", HandlerButtonLED, true, true},
		{0x07, "f8", HandlerButtonLED, true, true},
		{0x08, "f9", HandlerButtonLED, true, true},
		{0x09, "f10", HandlerButtonLED, true, true},
		{0x0A, "master_rec", HandlerButtonLED, true, true},
		{0x0B, "ins_bypass", HandlerButtonLED, true, true},
		{0x0C, "edit_bypass", HandlerButtonLED, true, true},
		{0x0D, "write", HandlerAutomode, false, true},
		{0x0E, "touch", HandlerAutomode, false, true},
		{0x0F, "latch", HandlerAutomode, false, true},
		{0x10, "trim", HandlerAutomode, false, true},
		{0x11, "read", HandlerAutomode, false, true},
		{0x12, "shift", HandlerModifier, true, true},
		{0x13, "option", HandlerModifier, true, true},
		{0x14, "control", HandlerModifier, true, true},
		{0x15, "command", HandlerModifier, true, true},
		{0x16, "nav", HandlerNav, true, true},
		{0x17, "zoom", HandlerNav, true, true},
		{0x18, "seladj", HandlerNav, true, true},
		{0x19, "up", HandlerNav, false, false},
		{0x1A, "down", HandlerNav, false, false},
		{0x1B, "left", HandlerNav, false, false},
		{0x1C, "right", HandlerNav, false, false},
		{0x1D, "default", HandlerButtonLED, false, false},
	}
	for _, cb := range commandButtons {
		node.Children[zoneStart+cb.offset] = &Node{
			Address:    cb.name,
			ValueByte:  &b2,
			ValueMask:  0x40,
			Toggle:     cb.toggle,
			LED:        cb.led,
			HandlerTag: cb.tag,
		}
	}
	return node
}
