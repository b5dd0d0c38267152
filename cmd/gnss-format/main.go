// Command gnss-format bridges the binary envelope protocol spoken between
// hub nodes to the legacy JSON-encoded GpsMsg payload format spoken by
// older peers: it dials one upstream hub with raw wire-byte envelopes and
// hosts a pool of downstream peers that exchange JSON envelopes instead.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/msg"
	"github.com/bramburn/gnsshub/internal/transport"
)

const defaultTCPPort = 9166

func main() {
	var (
		hostAddr, connect string
		port              int
		daemon            bool
	)
	flag.StringVar(&hostAddr, "h", "0.0.0.0", "address to host the JSON-peer server on")
	flag.StringVar(&hostAddr, "host", "0.0.0.0", "address to host the JSON-peer server on")
	flag.IntVar(&port, "p", defaultTCPPort, "port to host the JSON-peer server on")
	flag.IntVar(&port, "port", defaultTCPPort, "port to host the JSON-peer server on")
	flag.StringVar(&connect, "c", "", "upstream hub address (host:port), raw-bytes envelopes")
	flag.StringVar(&connect, "connect", "", "upstream hub address (host:port), raw-bytes envelopes")
	flag.BoolVar(&daemon, "D", false, "daemonize: log as JSON for a supervisor")
	flag.BoolVar(&daemon, "daemon", false, "daemonize: log as JSON for a supervisor")
	flag.Parse()

	logger := logrus.New()
	if daemon {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if connect == "" {
		logger.Fatal("gnss-format: -c/--connect ADDRESS is required")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", hostAddr, port))
	if err != nil {
		logger.WithError(err).Fatal("gnss-format: binding JSON-peer listener")
	}
	pool := transport.NewPool(ln, logger)
	defer pool.Close()

	outgoing := transport.NewOutgoing(connect, logger)
	defer outgoing.Close()

	if err := run(outgoing, pool, logger); err != nil {
		logger.WithError(err).Error("gnss-format: exited with error")
		os.Exit(1)
	}
}

// run mirrors the upstream server's select loop: raw bytes arriving from
// outgoing are parsed and re-offered to the JSON pool; JSON payloads
// arriving from the pool are decoded and re-offered to outgoing as raw
// wire bytes. Connections merely accepting is enough to keep the pool
// alive even when a peer never sends.
func run(outgoing *transport.Outgoing, pool *transport.Pool, logger logrus.FieldLogger) error {
	for {
		select {
		case raw, ok := <-outgoing.Messages():
			if !ok {
				return fmt.Errorf("gnss-format: upstream connection channel closed")
			}
			m, _, err := msg.Parse(raw)
			if err != nil {
				logger.WithError(err).Warn("gnss-format: error parsing message from upstream")
				continue
			}
			encoded, err := msg.ToJSON(m)
			if err != nil {
				logger.WithError(err).Warn("gnss-format: error serializing message to JSON")
				continue
			}
			if err := pool.Broadcast(encoded); err != nil {
				logger.WithError(err).Debug("gnss-format: broadcast to JSON peers skipped")
			}

		case payload, ok := <-pool.Source():
			if !ok {
				return fmt.Errorf("gnss-format: JSON-peer pool channel closed")
			}
			m, err := msg.FromJSON(payload)
			if err != nil {
				logger.WithError(err).Warn("gnss-format: error deserializing incoming JSON message")
				continue
			}
			outgoing.TrySendMessage(m.ParseWrite())
		}
	}
}
