package control

import "math"

type meterLevel struct {
	msb byte
	lsb byte
}

// meterScale is the console's documented 15-step VU scale: lsb fills in by
// doubling-plus-one (0, 1, 3, 7, 15, 31, 63, 127) while msb stays 0, then
// msb takes over the same doubling sequence while lsb saturates at 127.
var meterScale = [15]meterLevel{
	{0, 0},
	{0, 1},
	{0, 3},
	{0, 7},
	{0, 15},
	{0, 31},
	{0, 63},
	{0, 127},
	{1, 127},
	{3, 127},
	{7, 127},
	{15, 127},
	{31, 127},
	{63, 127},
	{127, 127},
}

// Speaker selects which VU channel a level update is for.
type Speaker int

const (
	SpeakerLeft Speaker = iota
	SpeakerRight
)

// VUMeter tracks the current (L, R) level for one track, only emitting a
// wire update when a speaker's level actually changes.
type VUMeter struct {
	Track int
	left  int
	right int
}

func NewVUMeter(track int) *VUMeter {
	return &VUMeter{Track: track, left: -1, right: -1}
}

// Update sets the level (0..1) for one speaker and, if it changed, returns
// the 8-byte SysEx-style frame to send: F0 13 01 10 {32*spkr+trk} msb lsb F7.
func (v *VUMeter) Update(spkr Speaker, val float64) (frame []byte, changed bool) {
	idx := int(math.Floor(clamp01(val) * 15))
	if idx > 14 {
		idx = 14
	}
	switch spkr {
	case SpeakerLeft:
		if idx == v.left {
			return nil, false
		}
		v.left = idx
	case SpeakerRight:
		if idx == v.right {
			return nil, false
		}
		v.right = idx
	}
	lvl := meterScale[idx]
	addr := byte(int(spkr)*32 + v.Track)
	return []byte{0xF0, 0x13, 0x01, 0x10, addr, lvl.msb, lvl.lsb, 0xF7}, true
}
