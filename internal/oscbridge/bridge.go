// Package oscbridge is the per-session OSC worker: it turns parsed device
// events into outbound OSC messages for the DAW, and inbound OSC messages
// from the DAW into device byte sequences handed back to the session.
package oscbridge

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hypebeast/go-osc/osc"

	"github.com/phunkyg/ReaControl24/internal/control"
	"github.com/phunkyg/ReaControl24/internal/mapping"
	"github.com/phunkyg/ReaControl24/internal/surface"
)

// reconnectInterval is how often a disconnected OSC client retries.
const reconnectInterval = 1 * time.Second

// Sender is the subset of *session.Session the bridge needs, so tests can
// supply a fake.
type Sender interface {
	SendCommands(ncmds int, payload []byte)
}

// Bridge is the per-session OSC translator described in §4.7.
type Bridge struct {
	Desk    *surface.Desk
	Session Sender
	Logger  *log.Logger

	listenAddr string
	dawHost    string
	dawPort    int

	mu           sync.Mutex
	client       *osc.Client
	connected    bool
	server       *osc.Server
}

// New builds a Bridge listening on listenAddr (host:port for the DAW to
// send OSC to) and sending to daw host/port.
func New(desk *surface.Desk, sess Sender, listenAddr, dawHost string, dawPort int, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	return &Bridge{
		Desk:       desk,
		Session:    sess,
		Logger:     logger.With("component", "osc"),
		listenAddr: listenAddr,
		dawHost:    dawHost,
		dawPort:    dawPort,
	}
}

// routerDispatcher forwards every inbound OSC packet to the bridge,
// rather than requiring one registered pattern per address.
type routerDispatcher struct{ b *Bridge }

func (d routerDispatcher) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		d.b.handleInbound(p.Address, p.Arguments)
	case *osc.Bundle:
		for _, m := range p.Messages {
			d.b.handleInbound(m.Address, m.Arguments)
		}
	}
}

// Start opens the UDP listener and sender. ListenAndServe runs until the
// listener's connection is closed.
func (b *Bridge) Start() {
	host, portStr, _ := splitAddr(b.listenAddr)
	port, _ := strconv.Atoi(portStr)
	b.mu.Lock()
	b.client = osc.NewClient(b.dawHost, b.dawPort)
	b.connected = true
	b.server = &osc.Server{Addr: fmt.Sprintf("%s:%d", host, port), Dispatcher: routerDispatcher{b: b}}
	srv := b.server
	b.mu.Unlock()

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			b.Logger.Error("osc listener stopped", "err", err)
		}
	}()
}

func splitAddr(addr string) (host, port string, err error) {
	parts := strings.Split(addr, ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("oscbridge: malformed address %q", addr)
	}
	return parts[0], parts[1], nil
}

// sendOSC marshals and sends one OSC message to the DAW, marking the
// client disconnected and scheduling a reconnect on failure.
func (b *Bridge) sendOSC(address string, value float32) {
	msg := osc.NewMessage(address)
	msg.Append(value)

	b.mu.Lock()
	client := b.client
	connected := b.connected
	b.mu.Unlock()
	if client == nil {
		return
	}
	if err := client.Send(msg); err != nil {
		b.Logger.Warn("osc send failed, marking disconnected", "err", err)
		b.mu.Lock()
		b.connected = false
		b.mu.Unlock()
		if connected {
			go b.reconnectLoop()
		}
		return
	}
}

func (b *Bridge) reconnectLoop() {
	for {
		time.Sleep(reconnectInterval)
		b.mu.Lock()
		if b.connected {
			b.mu.Unlock()
			return
		}
		b.client = osc.NewClient(b.dawHost, b.dawPort)
		b.connected = true
		b.mu.Unlock()
		return
	}
}

// HandleEvent is the session's EventHandler: it turns one parsed inbound
// device event into control-object state changes, an outbound OSC
// message, and (where applicable) an echo/LED/ring frame back to the
// device.
func (b *Bridge) HandleEvent(ev mapping.Event) {
	switch ev.HandlerTag {
	case mapping.HandlerFader:
		b.handleFader(ev)
	case mapping.HandlerVPot:
		b.handleVPot(ev)
	case mapping.HandlerButtonLED:
		b.handleButton(ev)
	case mapping.HandlerAutomode:
		b.handleAutomode(ev)
	case mapping.HandlerNav:
		b.handleNav(ev)
	case mapping.HandlerModifier:
		if len(ev.Path) > 0 {
			b.Desk.Modifiers.Set(ev.Path[len(ev.Path)-1], ev.HasValue && ev.Value != 0)
		}
	}
}

func (b *Bridge) handleFader(ev mapping.Event) {
	if !ev.HasTrack {
		return
	}
	trk := b.Desk.Track(ev.Track)
	if trk == nil {
		return
	}
	upd := trk.Fader.FromDevice(ev.Raw)
	b.sendOSC(fmt.Sprintf("/track/%d/fader", ev.Track+1), float32(upd.Gain))
	if upd.Echo {
		b.Session.SendCommands(1, upd.EchoData)
	}
}

func (b *Bridge) handleVPot(ev mapping.Event) {
	if !ev.HasTrack || !ev.HasDirection {
		return
	}
	if ev.Track == mapping.JogTrackIndex {
		b.handleJog(ev)
		return
	}
	trk := b.Desk.Track(ev.Track)
	if trk == nil {
		return
	}
	fine := b.Desk.Modifiers.Command
	pan, ring := trk.VPot.FromDevice(ev.Direction, fine)
	b.sendOSC(fmt.Sprintf("/track/%d/pan", ev.Track+1), float32(pan))
	b.Session.SendCommands(1, []byte{0xB0, byte(ev.Track)&0x1F | 0x40, ring})
}

// handleJog handles an encoder move on the virtual jog-wheel track (28),
// which shares the vpot branch's wire shape but has no LED ring: scrub mode
// reports a unit tick, shuttle mode reports a continuous playback-rate
// factor, both computed from the same raw direction byte.
func (b *Bridge) handleJog(ev mapping.Event) {
	raw := byte(int(ev.Direction) + 64)
	upd := b.Desk.Jog.FromDevice(ev.Direction, raw)
	b.sendOSC(upd.Address, float32(upd.Value))
}

// buttonKey recovers the "button/<name>" lookup key regardless of whether
// a track index was spliced into the front of the path.
func buttonKey(path []string) string {
	if len(path) < 2 {
		return ""
	}
	return path[len(path)-2] + "/" + path[len(path)-1]
}

func (b *Bridge) handleButton(ev mapping.Event) {
	key := buttonKey(ev.Path)
	if key == "" {
		return
	}
	val := float32(0)
	if ev.HasValue && ev.Value != 0 {
		val = 1
	}

	var led *control.ButtonLED
	var oscAddr string
	if ev.HasTrack {
		trk := b.Desk.Track(ev.Track)
		if trk == nil {
			return
		}
		led = trk.ButtonLED
		oscAddr = fmt.Sprintf("/track/%d/%s", ev.Track+1, key)
	} else {
		led = b.Desk.ButtonLED
		oscAddr = "/" + key
	}
	if frame, ok := led.Set(key, ev.Track, float64(val)); ok {
		b.Session.SendCommands(1, frame)
	}
	b.sendOSC(oscAddr, val)
}

// handleNav implements ReaNav's d_c dispatch: the three mode-select buttons
// (nav/zoom/seladj) switch the active prefix on press; every other button
// routed here is a cursor key, emitted as OSC under that prefix.
func (b *Bridge) handleNav(ev mapping.Event) {
	if len(ev.Path) == 0 {
		return
	}
	name := ev.Path[len(ev.Path)-1]
	switch name {
	case "nav", "zoom", "seladj":
		if ev.HasValue && ev.Value != 0 {
			b.Desk.Nav.ToggleMode()
		}
	default:
		val := float32(0)
		if ev.HasValue && ev.Value != 0 {
			val = 1
		}
		b.sendOSC(b.Desk.Nav.Cursor(name), val)
	}
}

func (b *Bridge) handleAutomode(ev mapping.Event) {
	if !ev.HasTrack {
		return
	}
	trk := b.Desk.Track(ev.Track)
	if trk == nil {
		return
	}
	updates := trk.AutoMode.Advance()
	b.Session.SendCommands(1, encodeAutomode(ev.Track, trk.AutoMode.ByteValue()))
	for _, u := range updates {
		b.sendOSC(u.Address, float32(u.Value))
	}
}

// encodeAutomode builds "F0 13 01 20 {trk&0x1F} {bits} F7".
func encodeAutomode(track int, bits byte) []byte {
	return []byte{0xF0, 0x13, 0x01, 0x20, byte(track) & 0x1F, bits, 0xF7}
}

// handleInbound implements the DAW->device direction: split the address,
// locate a track (if the path names one) or a desk-level attribute, and
// invoke the matching control object.
func (b *Bridge) handleInbound(address string, args []interface{}) {
	parts := strings.Split(strings.Trim(address, "/ "), "/")
	if idx := indexOf(parts, "track"); idx >= 0 && idx+2 < len(parts) {
		n, err := strconv.Atoi(parts[idx+1])
		if err != nil {
			return
		}
		trk := b.Desk.Track(n - 1)
		if trk == nil {
			return
		}
		b.dispatchTrack(trk, n-1, parts[idx+2:], args)
		return
	}
	if len(parts) >= 1 {
		b.dispatchDesk(parts, args)
	}
}

func (b *Bridge) dispatchTrack(trk *surface.Track, track0 int, rest []string, args []interface{}) {
	if len(rest) == 0 || len(args) == 0 {
		return
	}
	switch rest[0] {
	case "fader":
		gain, ok := floatArg(args[0])
		if !ok {
			return
		}
		b.Session.SendCommands(1, trk.Fader.FromDAW(gain))
	case "pan", "vpot":
		pan, ok := floatArg(args[0])
		if !ok {
			return
		}
		ring := trk.VPot.FromDAW(pan)
		b.Session.SendCommands(1, []byte{0xB0, byte(track0)&0x1F | 0x40, ring})
	case "button":
		if len(rest) < 2 {
			return
		}
		key := "button/" + rest[1]
		val, _ := floatArg(args[0])
		if f, ok := trk.ButtonLED.Set(key, track0, val); ok {
			b.Session.SendCommands(1, f)
		}
	case "automode":
		if len(rest) < 2 {
			return
		}
		trk.AutoMode.Active = control.AutoModeName(rest[1])
		b.Session.SendCommands(1, encodeAutomode(track0, trk.AutoMode.ByteValue()))
	}
}

func (b *Bridge) dispatchDesk(parts []string, args []interface{}) {
	if len(parts) < 2 {
		return
	}
	switch parts[0] {
	case "clock":
		text, ok := stringArg(args)
		if !ok {
			return
		}
		b.Session.SendCommands(1, b.Desk.Clock.Render(text))
	case "reanav":
		b.Desk.Nav.ToggleMode()
	case "jpot":
		// shuttle/scrub transport control is device->host only in this
		// implementation; DAW-originated jog moves are not modeled.
	}
}

func floatArg(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func stringArg(args []interface{}) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok
}

func indexOf(parts []string, token string) int {
	for i, p := range parts {
		if p == token {
			return i
		}
	}
	return -1
}
