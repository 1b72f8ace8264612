// Command reacontrol24d bridges a Control|24 or Pro Control console to a
// DAW speaking OSC over UDP.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/phunkyg/ReaControl24/internal/config"
	"github.com/phunkyg/ReaControl24/internal/frame"
	"github.com/phunkyg/ReaControl24/internal/metrics"
	"github.com/phunkyg/ReaControl24/internal/network"
	"github.com/phunkyg/ReaControl24/internal/oscbridge"
	"github.com/phunkyg/ReaControl24/internal/session"
	"github.com/phunkyg/ReaControl24/internal/surface"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		iface       = pflag.StringP("interface", "n", "", "capture interface name")
		oscListen   = pflag.StringP("listen", "l", "", "OSC listen host:port base")
		dawConnect  = pflag.StringP("connect", "c", "", "DAW host:port base")
		debug       = pflag.BoolP("debug", "d", false, "enable debug logging")
		logDir      = pflag.StringP("logdir", "o", "", "log file directory")
		metricsAddr = pflag.String("metrics-addr", "", "Prometheus metrics listen address")
		configPath  = pflag.String("config", "", "optional YAML config file")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	applyFlagOverrides(&cfg, *iface, *oscListen, *dawConnect, *debug, *logDir, *metricsAddr)

	logger := log.New(os.Stderr)
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if cfg.LogDir != "" {
		f, err := os.OpenFile(filepath.Join(cfg.LogDir, "reacontrol24d.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("cannot open log directory/file", "err", err)
			return 1
		}
		defer f.Close()
		logger = log.New(f)
	}

	reg := metrics.NewRegistry(prometheus.DefaultRegisterer)
	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	ifi, err := net.InterfaceByName(cfg.Interface)
	if err != nil {
		logger.Error("cannot resolve interface", "interface", cfg.Interface, "err", err)
		return 1
	}
	var hostMAC frame.MAC
	copy(hostMAC[:], ifi.HardwareAddr)

	handler, err := network.Open(cfg.Interface, hostMAC, logger)
	if err != nil {
		logger.Error("cannot open capture", "err", err)
		return 1
	}
	defer handler.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler.NewSession = func(beacon frame.Beacon, peer frame.MAC, sessionIndex int) *session.Session {
		profile, ok := profileFor(beacon.Device)
		if !ok {
			return nil
		}
		desk := surface.NewDesk(profile)
		sess := session.New(peer, hostMAC, sessionIndex, desk, handler.Injector(), logger, reg)
		reg.SessionOpened()

		listenAddr := fmt.Sprintf("%s:%d", cfg.OSCListen, cfg.ListenBase+sessionIndex-1)
		bridge := oscbridge.New(desk, sess, listenAddr, cfg.DAWHost, cfg.DAWBasePort+sessionIndex-1, logger)
		sess.EventHandler = bridge.HandleEvent
		bridge.Start()

		sess.Start(ctx)
		sess.Init()
		return sess
	}

	go handler.Run(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	<-sig

	logger.Info("shutting down")
	for _, s := range handler.Sessions() {
		s.Close()
		reg.SessionClosed()
	}
	cancel()
	return 0
}

func profileFor(device string) (surface.Profile, bool) {
	switch device {
	case frame.DeviceControl24:
		return surface.Control24Profile, true
	case frame.DeviceProControl:
		return surface.ProControlProfile, true
	default:
		return surface.Profile{}, false
	}
}

func applyFlagOverrides(cfg *config.Config, iface, oscListen, dawConnect string, debug bool, logDir, metricsAddr string) {
	if iface != "" {
		cfg.Interface = iface
	}
	if oscListen != "" {
		cfg.OSCListen = oscListen
		if host, port, err := net.SplitHostPort(oscListen); err == nil {
			cfg.OSCListen = host
			if p, err := strconv.Atoi(port); err == nil {
				cfg.ListenBase = p
			}
		}
	}
	if dawConnect != "" {
		cfg.DAWHost = dawConnect
		if host, port, err := net.SplitHostPort(dawConnect); err == nil {
			cfg.DAWHost = host
			if p, err := strconv.Atoi(port); err == nil {
				cfg.DAWBasePort = p
			}
		}
	}
	if debug {
		cfg.Debug = true
	}
	if logDir != "" {
		cfg.LogDir = logDir
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
}
