// Package frame packs and unpacks the EtherType-0x885F wire frame used by
// the console link: an Ethernet header, a fixed device header, and a
// variable command payload.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// EtherType is the non-IP protocol number carried by every console frame.
const EtherType = 0x885F

// Console commands carried in the device header's Command byte.
const (
	CmdData   = 0x00
	CmdACK    = 0xA0
	CmdOnline = 0xE2
)

// HeaderLen is the size in bytes of the device header (not the Ethernet
// header). total_bytes on the wire equals len(payload) + HeaderLen.
const HeaderLen = 16

// EthHeaderLen is the size of the leading Ethernet header (dst+src+type).
const EthHeaderLen = 14

// MinFrameLen rejects anything shorter than an Ethernet header plus an
// empty device header.
const MinFrameLen = EthHeaderLen + HeaderLen

var ErrShort = errors.New("frame: buffer shorter than minimum frame length")

// MAC is a 6-octet hardware address, split logically into a 3-byte vendor
// prefix and a 3-byte device id.
type MAC [6]byte

// ConsoleVendor is the OUI recognized as a console peer (00:A0:7E).
var ConsoleVendor = [3]byte{0x00, 0xA0, 0x7E}

// Broadcast is the all-ones MAC used for beacon frames.
var Broadcast = MAC{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

func (m MAC) IsBroadcast() bool { return m == Broadcast }

func (m MAC) IsVendor() bool {
	return m[0] == ConsoleVendor[0] && m[1] == ConsoleVendor[1] && m[2] == ConsoleVendor[2]
}

func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Header is the 16-byte device header that follows the Ethernet header on
// every console frame.
type Header struct {
	TotalBytes  uint16
	Reserved    [2]byte
	SendCounter uint32
	CmdCounter  uint32
	Retry       uint16
	Command     byte
	NumCommands byte
}

func (h Header) IsRetry() bool { return h.Retry != 0 }

// Frame is a decoded console frame: source/destination MAC, device header,
// and a zero-copy view into the payload bytes.
type Frame struct {
	Dst     MAC
	Src     MAC
	Header  Header
	Payload []byte
}

func (f Frame) IsBroadcast() bool { return f.Dst.IsBroadcast() }

// Decode parses a raw captured Ethernet frame. The returned Frame's Payload
// aliases buf; callers must not mutate buf while the Frame is in use.
func Decode(buf []byte) (Frame, error) {
	if len(buf) < MinFrameLen {
		return Frame{}, ErrShort
	}
	var f Frame
	copy(f.Dst[:], buf[0:6])
	copy(f.Src[:], buf[6:12])
	etherType := binary.BigEndian.Uint16(buf[12:14])
	if etherType != EtherType {
		return Frame{}, fmt.Errorf("frame: unexpected ethertype %#04x", etherType)
	}
	hdr := buf[EthHeaderLen : EthHeaderLen+HeaderLen]
	f.Header = Header{
		TotalBytes:  binary.BigEndian.Uint16(hdr[0:2]),
		SendCounter: binary.BigEndian.Uint32(hdr[4:8]),
		CmdCounter:  binary.BigEndian.Uint32(hdr[8:12]),
		Retry:       binary.BigEndian.Uint16(hdr[12:14]),
		Command:     hdr[14],
		NumCommands: hdr[15],
	}
	copy(f.Header.Reserved[:], hdr[2:4])
	f.Payload = buf[EthHeaderLen+HeaderLen:]
	return f, nil
}

// Encode serializes f into a fresh byte slice suitable for NIC injection.
// TotalBytes is recomputed from len(f.Payload) rather than trusted from the
// caller.
func Encode(f Frame) []byte {
	total := len(f.Payload) + HeaderLen
	buf := make([]byte, EthHeaderLen+HeaderLen+len(f.Payload))
	copy(buf[0:6], f.Dst[:])
	copy(buf[6:12], f.Src[:])
	binary.BigEndian.PutUint16(buf[12:14], EtherType)
	hdr := buf[EthHeaderLen : EthHeaderLen+HeaderLen]
	binary.BigEndian.PutUint16(hdr[0:2], uint16(total))
	copy(hdr[2:4], f.Header.Reserved[:])
	binary.BigEndian.PutUint32(hdr[4:8], f.Header.SendCounter)
	binary.BigEndian.PutUint32(hdr[8:12], f.Header.CmdCounter)
	binary.BigEndian.PutUint16(hdr[12:14], f.Header.Retry)
	hdr[14] = f.Header.Command
	hdr[15] = f.Header.NumCommands
	copy(buf[EthHeaderLen+HeaderLen:], f.Payload)
	return buf
}

// ClockClearMarker is written into the device header's reserved bytes on
// the clock-clear frame sent during session initialization, matching the
// original firmware's own handshake byte pair.
var ClockClearMarker = [2]byte{0x02, 0x44}

// Beacon is the 33-byte broadcast payload a console sends to announce
// itself: 15 reserved bytes, a 9-byte ASCII version, a 9-byte ASCII device
// type ("CNTRL|24" or "MAINUNIT").
type Beacon struct {
	Version string
	Device  string
}

const BeaconLen = 33

var ErrNotBeacon = errors.New("frame: not a beacon frame")

// DecodeBeacon parses the broadcast payload of f. It is only meaningful
// when f.IsBroadcast() is true.
func DecodeBeacon(f Frame) (Beacon, error) {
	if !f.IsBroadcast() {
		return Beacon{}, ErrNotBeacon
	}
	if len(f.Payload) < BeaconLen {
		return Beacon{}, ErrShort
	}
	version := trimNUL(f.Payload[15:24])
	device := trimNUL(f.Payload[24:33])
	return Beacon{Version: version, Device: device}, nil
}

func trimNUL(b []byte) string {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return string(b[:i])
}

const (
	DeviceControl24 = "CNTRL|24"
	DeviceProControl = "MAINUNIT"
)
