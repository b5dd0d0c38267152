// Command gnss-config queries and updates receiver configuration through a
// running hub: it connects to the hub's inter-node TCP port, ships
// CFG-VALSET/VALGET transactions over the framed connection, and correlates
// the ACK/NAK traffic the hub relays back from the receiver.
//
// Subcommands:
//
//	get KEY...    print the current value of each named catalogue key
//	set FILE      apply the JSON configuration file to the receiver
//	reset KEY...  restore the named keys to their default-layer values
//	reconnect     ask the hub to close and reopen its serial link
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/cfgfile"
	"github.com/bramburn/gnsshub/internal/cfgtxn"
	"github.com/bramburn/gnsshub/internal/cfgval"
	"github.com/bramburn/gnsshub/internal/msg"
	"github.com/bramburn/gnsshub/internal/transport"
)

func main() {
	var addr, logLevel string
	flag.StringVar(&addr, "c", "127.0.0.1:9165", "hub address (host:port)")
	flag.StringVar(&addr, "connect", "127.0.0.1:9165", "hub address (host:port)")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	args := flag.Args()
	if len(args) == 0 {
		logger.Fatal("gnss-config: a subcommand is required: get, set, reset, or reconnect")
	}

	raw, err := net.Dial("tcp", addr)
	if err != nil {
		logger.WithError(err).Fatal("gnss-config: connecting to hub")
	}
	conn := transport.NewConnection(raw)
	defer conn.Close()

	txn := cfgtxn.New(hubDevice{conn}, parseIncoming(conn, logger), logger)
	ctx := context.Background()

	switch args[0] {
	case "get":
		keys, err := resolveKeys(args[1:])
		if err != nil {
			logger.Fatalf("gnss-config: %v", err)
		}
		values, err := txn.Get(ctx, cfgval.LayerRAM, keys)
		if err != nil {
			logger.WithError(err).Fatal("gnss-config: get failed")
		}
		printValues(values)

	case "set":
		if len(args) != 2 {
			logger.Fatal("gnss-config: set requires exactly one FILE argument")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			logger.WithError(err).Fatal("gnss-config: reading configuration file")
		}
		values, err := cfgfile.Decode(data)
		if err != nil {
			logger.WithError(err).Fatal("gnss-config: parsing configuration file")
		}
		if err := txn.Set(ctx, cfgval.BitLayerRAM, values); err != nil {
			logger.WithError(err).Fatal("gnss-config: set failed")
		}
		logger.Infof("applied %d configuration values", len(values))

	case "reset":
		keys, err := resolveKeys(args[1:])
		if err != nil {
			logger.Fatalf("gnss-config: %v", err)
		}
		defaults, err := txn.Get(ctx, cfgval.LayerDefault, keys)
		if err != nil {
			logger.WithError(err).Fatal("gnss-config: reading default-layer values")
		}
		if err := txn.Set(ctx, cfgval.BitLayerRAM, defaults); err != nil {
			logger.WithError(err).Fatal("gnss-config: writing defaults back")
		}
		logger.Infof("restored %d keys to their defaults", len(defaults))

	case "reconnect":
		frame := (&msg.Server{Op: msg.ServerResetPort}).ParseWrite()
		if err := conn.WriteMessage(frame); err != nil {
			logger.WithError(err).Fatal("gnss-config: sending reset-port frame")
		}
		logger.Info("asked the hub to reopen its serial link")

	default:
		logger.Fatalf("gnss-config: unknown subcommand %q", args[0])
	}
}

// hubDevice adapts the framed hub connection to cfgtxn's write contract:
// each raw UBX frame travels to the hub as one envelope payload, and the
// hub writes it through to the serial device verbatim.
type hubDevice struct {
	conn *transport.Connection
}

func (d hubDevice) Write(p []byte) (int, error) {
	if err := d.conn.WriteMessage(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// parseIncoming turns the hub's relayed device traffic into typed messages
// for ACK correlation. Payloads that fail to parse are logged and skipped —
// the hub forwards everything the receiver emits, not just UBX.
func parseIncoming(conn *transport.Connection, logger logrus.FieldLogger) <-chan msg.Message {
	out := make(chan msg.Message)
	go func() {
		defer close(out)
		for payload := range conn.Messages() {
			m, _, err := msg.Parse(payload)
			if err != nil {
				logger.WithError(err).Debug("gnss-config: skipping unparseable payload")
				continue
			}
			out <- m
		}
	}()
	return out
}

func resolveKeys(names []string) ([]cfgval.Key, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one KEY argument is required")
	}
	keys := make([]cfgval.Key, 0, len(names))
	for _, name := range names {
		k, _, ok := cfgval.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown configuration key %q", name)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func printValues(values []cfgval.Value) {
	for _, v := range values {
		rendered, err := cfgfile.Render(v)
		if err != nil {
			fmt.Printf("%s = % x\n", v.Key, v.Raw)
			continue
		}
		fmt.Printf("%s = %v\n", v.Key, rendered)
	}
}
