// Package network implements the leader task: one capture+inject endpoint
// per host interface, demultiplexing received frames to sessions by
// source MAC and creating new sessions on unrecognized beacons.
package network

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"github.com/phunkyg/ReaControl24/internal/frame"
	"github.com/phunkyg/ReaControl24/internal/session"
)

// captureTimeout bounds how long a single pcap read blocks, so the
// capture loop can observe context cancellation promptly on shutdown.
const captureTimeout = 1 * time.Second

// NICInjector wraps a pcap handle as a session.Injector, serializing
// concurrent sends from every session with a single mutex (§5: "the NIC
// injector is shared across sessions").
type NICInjector struct {
	mu     sync.Mutex
	handle *pcap.Handle
}

func (n *NICInjector) Inject(raw []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.handle.WritePacketData(raw)
}

// SessionFactory builds a new Session for a beacon observed from peer.
// It returns nil if the device type in the beacon is not supported,
// signaling the handler to log and ignore it.
type SessionFactory func(beacon frame.Beacon, peer frame.MAC, sessionIndex int) *session.Session

// Handler is the per-interface capture leader.
type Handler struct {
	hostMAC frame.MAC
	handle  *pcap.Handle
	inj     *NICInjector
	logger  *log.Logger

	NewSession SessionFactory

	mu               sync.Mutex
	sessions         map[frame.MAC]*session.Session
	nextSessionIndex int
}

// Open starts a capture session on iface with the BPF filter
// "(ether dst <hostMAC> or broadcast) and ether[12:2]=0x885f".
func Open(iface string, hostMAC frame.MAC, logger *log.Logger) (*Handler, error) {
	if logger == nil {
		logger = log.Default()
	}
	handle, err := pcap.OpenLive(iface, 65536, true, captureTimeout)
	if err != nil {
		return nil, fmt.Errorf("network: open %s: %w", iface, err)
	}
	filter := fmt.Sprintf("(ether dst %s or broadcast) and ether[12:2]=0x885f", hostMAC.String())
	if err := handle.SetBPFFilter(filter); err != nil {
		handle.Close()
		return nil, fmt.Errorf("network: set filter: %w", err)
	}
	return &Handler{
		hostMAC:  hostMAC,
		handle:   handle,
		inj:      &NICInjector{handle: handle},
		logger:   logger.With("component", "network"),
		sessions: map[frame.MAC]*session.Session{},
	}, nil
}

// Injector returns the shared NIC injector sessions should send frames
// through.
func (h *Handler) Injector() *NICInjector { return h.inj }

// Close releases the capture handle.
func (h *Handler) Close() error {
	h.handle.Close()
	return nil
}

// Run reads frames until ctx is done, dispatching each to its session or
// creating a new one on an unrecognized vendor beacon. This is the single
// task that mutates the session map.
func (h *Handler) Run(ctx context.Context) {
	src := gopacket.NewPacketSource(h.handle, h.handle.LinkType())
	packets := src.Packets()
	for {
		select {
		case <-ctx.Done():
			return
		case pkt, ok := <-packets:
			if !ok {
				return
			}
			h.handlePacket(pkt)
		}
	}
}

func (h *Handler) handlePacket(pkt gopacket.Packet) {
	f, err := frame.Decode(pkt.Data())
	if err != nil {
		h.logger.Debug("dropping malformed frame", "err", err)
		return
	}

	h.mu.Lock()
	sess, known := h.sessions[f.Src]
	h.mu.Unlock()
	if known {
		sess.HandleFrame(f)
		return
	}

	if !f.IsBroadcast() {
		h.logger.Debug("dropping non-beacon from unknown source", "src", f.Src.String())
		return
	}
	if !f.Src.IsVendor() {
		return
	}
	beacon, err := frame.DecodeBeacon(f)
	if err != nil {
		h.logger.Debug("dropping malformed beacon", "err", err)
		return
	}
	if h.NewSession == nil {
		return
	}

	h.mu.Lock()
	h.nextSessionIndex++
	idx := h.nextSessionIndex
	h.mu.Unlock()

	newSess := h.NewSession(beacon, f.Src, idx)
	if newSess == nil {
		h.logger.Warn("unsupported device type, ignoring", "device", beacon.Device)
		return
	}
	h.mu.Lock()
	h.sessions[f.Src] = newSess
	h.mu.Unlock()
	h.logger.Info("new session", "peer", f.Src.String(), "device", beacon.Device, "index", idx)
}

// Sessions returns a snapshot of the currently known sessions, for
// shutdown and metrics.
func (h *Handler) Sessions() []*session.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*session.Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}
