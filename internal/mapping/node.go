// Package mapping holds the static command-byte tries for each supported
// console family and the parser/splitter that walks them.
package mapping

// Node is one level of the immutable mapping trie. A node that carries
// Address contributes a path token to the event being built; a node with
// ChildByte descends further into the payload, otherwise it is a leaf.
type Node struct {
	Address string

	// HandlerTag names the control-object kind that owns this leaf,
	// replacing runtime string dispatch with a compile-time tag.
	HandlerTag HandlerTag

	// TrackByte/TrackMask locate the 0-based track index once the walk
	// reaches this node. A nil TrackByte means "inherited from an
	// ancestor node", so a child may omit it once a parent has set it.
	TrackByte *int
	TrackMask byte

	// ValueByte/ValueMask locate a boolean or continuous value.
	ValueByte *int
	ValueMask byte

	// DirectionByte locates a signed encoder delta (vpot/jog).
	DirectionByte *int

	LED    bool
	Toggle bool

	// SetMode names a desk-global mode this leaf causes the desk to
	// adopt (e.g. a scribble-strip bank switch).
	SetMode string

	// ChildByte, if non-nil, is the payload offset inspected to select
	// the next-level child. ChildMask, if non-zero, is applied to the
	// inspected byte before the Children lookup.
	ChildByte *int
	ChildMask byte
	Children  map[byte]*Node
}

// HandlerTag is a compile-time-known control-object kind, replacing the
// original dynamic "lowercase class name" dispatch.
type HandlerTag string

const (
	HandlerFader     HandlerTag = "reafader"
	HandlerVPot      HandlerTag = "reavpot"
	HandlerJog       HandlerTag = "reajpot"
	HandlerButtonLED HandlerTag = "reabuttonled"
	HandlerAutomode  HandlerTag = "reaautomode"
	HandlerScribble  HandlerTag = "reascribstrip"
	HandlerClock     HandlerTag = "reaclock"
	HandlerNav       HandlerTag = "reanav"
	HandlerModifier  HandlerTag = "reamodifier"
	HandlerVUMeter   HandlerTag = "reavumeter"
)

func intp(v int) *int { return &v }

// LeafIndex is a reverse index from OSC-style address path to the leaf
// node that produced it, checked by the totality property in §8. Button-LED
// output uses ButtonTemplates instead.
type LeafIndex map[string]*Node

// BuildLeafIndex walks the whole tree once and records every node that
// carries a non-empty Address, keyed by its full slash-joined path from
// the root. This is the static equivalent of ReaButtonLed.walk().
func BuildLeafIndex(root *Node) LeafIndex {
	idx := LeafIndex{}
	var walk func(n *Node, path []string)
	walk = func(n *Node, path []string) {
		if n.Address != "" {
			path = append(path, n.Address)
		}
		if len(path) > 0 {
			key := joinPath(path)
			if _, exists := idx[key]; !exists {
				idx[key] = n
			}
		}
		for _, child := range n.Children {
			walk(child, append([]string{}, path...))
		}
	}
	walk(root, nil)
	return idx
}

func joinPath(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "/" + p
	}
	return out
}

// LEDLeaves returns every node in the tree with LED set, for the mapping
// leaf totality property (§8 property 3).
func LEDLeaves(root *Node) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Address != "" && n.LED {
			out = append(out, n)
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return out
}

// JogTrackIndex is the virtual track index the jog wheel's encoder moves
// arrive on. It shares the vpot branch's wire shape (B0 {trk|0x40} dir vel)
// so it isn't a distinct trie node; callers distinguish it from an ordinary
// vpot by comparing Event.Track against this constant.
const JogTrackIndex = 28

// ButtonTemplate is the reverse-index entry ReaButtonLed.walk() builds: the
// wire byte that selects a button leaf under the 0x90 branch, and whether
// a track index should be OR-ed into the outgoing template.
type ButtonTemplate struct {
	Path     string
	WireByte byte
	HasTrack bool
	Toggle   bool
}

// ButtonTemplates walks the button branch of root (keyed 0x90) and returns
// a template for every LED-carrying leaf, keyed by its "button/<name>"
// address.
func ButtonTemplates(root *Node) map[string]ButtonTemplate {
	btn, ok := root.Children[0x90]
	if !ok {
		return nil
	}
	out := map[string]ButtonTemplate{}
	for key, child := range btn.Children {
		if !child.LED {
			continue
		}
		path := "button"
		if child.Address != "" {
			path += "/" + child.Address
		}
		out[path] = ButtonTemplate{
			Path:     path,
			WireByte: key,
			HasTrack: child.TrackByte != nil,
			Toggle:   child.Toggle,
		}
	}
	return out
}
