// Command gnss-hub is the thin driver over internal/hub: it opens the
// serial device, binds the inter-node TCP listener and optional outgoing
// peer, and runs the hub loop until a Quit control frame, signal, or fatal
// serial error ends it. This driver does not set up Bluetooth (Hub.Bt
// stays nil).
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/hub"
	"github.com/bramburn/gnsshub/internal/serialio"
	"github.com/bramburn/gnsshub/internal/transport"
)

const defaultTCPPort = 9165

func main() {
	var (
		serialPort, connect string
		baud, tcpPort       int
		daemon              bool
	)
	flag.StringVar(&serialPort, "s", "", "serial device path (e.g. /dev/ttyACM0)")
	flag.StringVar(&serialPort, "serial", "", "serial device path (e.g. /dev/ttyACM0)")
	flag.IntVar(&baud, "b", serialio.DefaultBaud, "serial baud rate")
	flag.IntVar(&baud, "baud", serialio.DefaultBaud, "serial baud rate")
	flag.IntVar(&tcpPort, "p", defaultTCPPort, "inter-node TCP listen port")
	flag.IntVar(&tcpPort, "port", defaultTCPPort, "inter-node TCP listen port")
	flag.StringVar(&connect, "c", "", "outgoing TCP peer address (host:port); empty parks the outgoing client")
	flag.StringVar(&connect, "connect", "", "outgoing TCP peer address (host:port); empty parks the outgoing client")
	flag.BoolVar(&daemon, "D", false, "daemonize: log as JSON for a supervisor")
	flag.BoolVar(&daemon, "daemon", false, "daemonize: log as JSON for a supervisor")
	flag.Parse()

	logger := logrus.New()
	if daemon {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if serialPort == "" {
		logger.Fatal("gnss-hub: -s/--serial is required")
	}

	cfg := serialio.DefaultConfig(serialPort)
	cfg.BaudRate = baud
	device, err := serialio.Open(cfg)
	if err != nil {
		logger.WithError(err).Fatal("gnss-hub: opening serial device")
	}
	defer device.Close()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", tcpPort))
	if err != nil {
		logger.WithError(err).Fatal("gnss-hub: binding TCP listener")
	}
	pool := transport.NewPool(ln, logger)
	defer pool.Close()

	outgoing := transport.NewOutgoing(connect, logger)
	defer outgoing.Close()

	h := hub.New(device, pool, outgoing, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := h.Run(ctx); err != nil {
		logger.WithError(err).Error("gnss-hub: hub loop exited with error")
		os.Exit(1)
	}
}
