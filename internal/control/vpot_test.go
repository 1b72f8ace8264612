package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestVPotSaturation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := NewVPot(1)
		moves := rapid.SliceOfN(rapid.Int8Range(-64, 63), 0, 200).Draw(t, "moves")
		fine := rapid.Bool().Draw(t, "fine")
		for _, m := range moves {
			v.FromDevice(m, fine)
		}
		assert.GreaterOrEqual(t, v.Pan, 0.0)
		assert.LessOrEqual(t, v.Pan, 1.0)
	})
}

func TestVPotCoarseFineStep(t *testing.T) {
	v := NewVPot(0)
	v.Pan = 0.5
	v.FromDevice(1, false)
	assert.InDelta(t, 0.5+VPotStepCoarse, v.Pan, 1e-9)

	v2 := NewVPot(0)
	v2.Pan = 0.5
	v2.FromDevice(1, true)
	assert.InDelta(t, 0.5+VPotStepFine, v2.Pan, 1e-9)
}
