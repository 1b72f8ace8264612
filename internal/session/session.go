// Package session implements the per-device session supervisor: counters,
// retry/backoff, keep-alive, the ACK protocol, the initialization
// handshake, and the inbound/outbound pipe to the OSC worker.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/xid"

	"github.com/phunkyg/ReaControl24/internal/frame"
	"github.com/phunkyg/ReaControl24/internal/mapping"
	"github.com/phunkyg/ReaControl24/internal/surface"
)

// Timing constants, from §5 of the design this package implements.
const (
	KeepAliveInterval = 1 * time.Second
	KeepAliveIdle     = 10 * time.Second
	Backoff           = 300 * time.Millisecond
	AckDelay          = 800 * time.Microsecond
	GatePoll          = 100 * time.Millisecond
)

// Injector sends a raw Ethernet frame out the shared NIC. Implementations
// must serialize concurrent callers (§5: "the NIC injector is shared
// across sessions — a mutex serializes send_packet").
type Injector interface {
	Inject(raw []byte) error
}

// OutgoingBatch is what the OSC worker hands to the session's send path: a
// pre-split, already-encoded run of device commands.
type OutgoingBatch struct {
	NumCommands int
	Payload     []byte
}

// Session is the per-device supervisor: source MAC, counters, send-gate,
// and the owned Desk aggregate.
type Session struct {
	ID      string // opaque correlation id, distinct from SessionIndex
	Peer    frame.MAC
	HostMAC frame.MAC

	// SessionIndex is the 1-based protocol session id used to offset the
	// DAW OSC port.
	SessionIndex int

	Desk *surface.Desk
	Tree *mapping.Node

	Injector Injector
	Logger   *log.Logger

	// EventHandler is invoked by the pipe-reader task for every parsed
	// inbound event, decoupling the mapping/control layer from the OSC
	// bridge that actually owns UDP I/O.
	EventHandler func(mapping.Event)

	Inbound  chan []byte
	Outbound chan OutgoingBatch

	mu              sync.Mutex
	sendCounter     uint32
	cmdCounter      uint32
	lastSentAt      time.Time
	inBackoff       bool
	supported       bool
	closing         chan struct{}
	closeOnce       sync.Once
	gate            *gate
	metricsObserver Observer
}

// Observer receives session lifecycle/counter events for metrics export.
// A nil Observer is valid and simply means "no metrics wired".
type Observer interface {
	FrameSent()
	FrameReceived()
	RetrySeen()
	AckSent()
	GateClosedFor(d time.Duration)
}

// New builds a Session for a freshly discovered peer. Start must be called
// to launch its background tasks.
func New(peer, hostMAC frame.MAC, sessionIndex int, desk *surface.Desk, injector Injector, logger *log.Logger, obs Observer) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		ID:              xid.New().String(),
		Peer:            peer,
		HostMAC:         hostMAC,
		SessionIndex:    sessionIndex,
		Desk:            desk,
		Tree:            desk.Profile.Tree,
		Injector:        injector,
		Logger:          logger.With("session", peer.String()),
		Inbound:         make(chan []byte, 64),
		Outbound:        make(chan OutgoingBatch, 64),
		closing:         make(chan struct{}),
		gate:            newGate(),
		supported:       true,
		metricsObserver: obs,
	}
}

func (s *Session) observe() Observer {
	if s.metricsObserver != nil {
		return s.metricsObserver
	}
	return noopObserver{}
}

// Start launches the keep-alive, pipe-reader, and sender tasks.
func (s *Session) Start(ctx context.Context) {
	go s.runKeepAlive(ctx)
	go s.runPipeReader(ctx)
	go s.runSender(ctx)
}

// Close marks the session as closing; background tasks observe this and
// exit at their next loop iteration.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closing)
	})
}

// Init sends the initialization handshake: an ONLINE frame followed by a
// clock-clear frame, per §4.5.
func (s *Session) Init() {
	s.mu.Lock()
	s.sendCounter = 1
	online := frame.Header{Command: frame.CmdOnline, SendCounter: s.sendCounter, CmdCounter: s.cmdCounter}
	s.mu.Unlock()
	s.injectFrame(online, nil)

	clockClear := []byte{0xF0, 0x13, 0x01, 0x30, 0x19, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF7}
	s.mu.Lock()
	s.sendCounter++
	hdr := frame.Header{
		Command:     frame.CmdData,
		NumCommands: 1,
		SendCounter: s.sendCounter,
		CmdCounter:  s.cmdCounter,
		Reserved:    frame.ClockClearMarker,
	}
	s.mu.Unlock()
	s.injectFrame(hdr, clockClear)
}

func (s *Session) injectFrame(hdr frame.Header, payload []byte) {
	f := frame.Frame{Dst: s.Peer, Src: s.HostMAC, Header: hdr, Payload: payload}
	if err := s.Injector.Inject(frame.Encode(f)); err != nil {
		s.Logger.Error("nic send failed", "err", err)
		return
	}
	s.mu.Lock()
	s.lastSentAt = time.Now()
	s.mu.Unlock()
	s.observe().FrameSent()
}

// HandleFrame implements the receive path (§4.5): ACK handling, send-gate
// control, retry/backoff, counter bookkeeping, and handing the payload off
// to the pipe-reader task.
func (s *Session) HandleFrame(f frame.Frame) {
	s.observe().FrameReceived()
	switch {
	case f.Header.Command == frame.CmdACK:
		s.mu.Lock()
		backoff := s.inBackoff
		s.mu.Unlock()
		if !backoff {
			s.gate.SetOpen(true)
		}
	case f.Header.NumCommands > 0:
		s.gate.SetOpen(false)
		if f.Header.IsRetry() {
			s.observe().RetrySeen()
			s.Logger.Warn("retry requested by device", "retry", f.Header.Retry)
			s.armBackoff()
		}
		s.mu.Lock()
		s.cmdCounter = f.Header.SendCounter
		s.mu.Unlock()

		payload := append([]byte(nil), f.Payload...)
		select {
		case s.Inbound <- payload:
		case <-s.closing:
			return
		}

		go s.ackAfterDelay(f.Header.SendCounter)
	default:
		s.Logger.Warn("unrecognized frame", "command", f.Header.Command)
	}
}

func (s *Session) armBackoff() {
	s.mu.Lock()
	s.inBackoff = true
	s.mu.Unlock()
	started := time.Now()
	time.AfterFunc(Backoff, func() {
		s.mu.Lock()
		s.inBackoff = false
		s.mu.Unlock()
		s.gate.SetOpen(true)
		s.observe().GateClosedFor(time.Since(started))
	})
}

func (s *Session) ackAfterDelay(sendCounter uint32) {
	select {
	case <-time.After(AckDelay):
	case <-s.closing:
		return
	}
	s.mu.Lock()
	hdr := frame.Header{Command: frame.CmdACK, NumCommands: 0, CmdCounter: sendCounter, SendCounter: s.sendCounter}
	backoff := s.inBackoff
	s.mu.Unlock()
	// The gate closed for this inbound frame reopens with its ACK, unless a
	// retry backoff is holding it shut until the backoff timer fires.
	if !backoff {
		s.gate.SetOpen(true)
	}
	s.injectFrame(hdr, nil)
	s.observe().AckSent()
}

// SendCommands queues ncmds worth of outbound payload for transmission.
// Called by the OSC worker.
func (s *Session) SendCommands(ncmds int, payload []byte) {
	select {
	case s.Outbound <- OutgoingBatch{NumCommands: ncmds, Payload: payload}:
	case <-s.closing:
	}
}

func (s *Session) runPipeReader(ctx context.Context) {
	for {
		select {
		case payload := <-s.Inbound:
			for _, cmd := range mapping.Split(payload) {
				ev, err := mapping.Parse(s.Tree, cmd)
				if err != nil {
					s.Logger.Debug("dropping unmapped command", "err", err, "bytes", cmd)
					continue
				}
				if s.EventHandler != nil {
					s.EventHandler(ev)
				}
			}
		case <-s.closing:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) runSender(ctx context.Context) {
	for {
		select {
		case batch := <-s.Outbound:
			if !s.gate.WaitOpen(ctx, GatePoll, func() {
				s.Logger.Debug("waiting for send-gate to open")
			}) {
				return
			}
			s.mu.Lock()
			s.sendCounter += uint32(batch.NumCommands)
			hdr := frame.Header{
				Command:     frame.CmdData,
				NumCommands: byte(batch.NumCommands),
				SendCounter: s.sendCounter,
				CmdCounter:  s.cmdCounter,
			}
			s.mu.Unlock()
			s.injectFrame(hdr, batch.Payload)
		case <-s.closing:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) runKeepAlive(ctx context.Context) {
	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			idle := time.Since(s.lastSentAt) >= KeepAliveIdle
			s.mu.Unlock()
			if idle && s.gate.Open() {
				s.SendCommands(1, []byte{0x00})
			}
		case <-s.closing:
			return
		case <-ctx.Done():
			return
		}
	}
}

// SendCounter and CmdCounter expose the current counters for tests and
// metrics; they are not part of the public send/receive contract.
func (s *Session) SendCounter() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendCounter
}

func (s *Session) CmdCounter() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmdCounter
}

func (s *Session) GateOpen() bool { return s.gate.Open() }

type noopObserver struct{}

func (noopObserver) FrameSent()                    {}
func (noopObserver) FrameReceived()                {}
func (noopObserver) RetrySeen()                     {}
func (noopObserver) AckSent()                       {}
func (noopObserver) GateClosedFor(time.Duration)    {}
