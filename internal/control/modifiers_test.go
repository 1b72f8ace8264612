package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModifiersSetLatchesByName(t *testing.T) {
	m := &Modifiers{}
	m.Set("shift", true)
	m.Set("command", true)
	assert.True(t, m.Shift)
	assert.True(t, m.Command)
	assert.False(t, m.Option)
	assert.False(t, m.Control)

	m.Set("shift", false)
	assert.False(t, m.Shift)
}

func TestNavCursorUsesCurrentModePrefix(t *testing.T) {
	n := &Nav{Mode: NavScroll}
	assert.Equal(t, "/reanav/scroll/up", n.Cursor("up"))

	n.ToggleMode()
	assert.Equal(t, "/reanav/zoom/left", n.Cursor("left"))

	n.ToggleMode()
	assert.Equal(t, "/reanav/fxcursor/right", n.Cursor("right"))
}
