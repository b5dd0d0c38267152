// Command gnss-ntrip pulls an RTCM correction stream from an NTRIP caster
// and feeds it into a running hub, which writes it through to the receiver.
// Two transports are available: the built-in HTTP ingestor (tolerant of
// HTTP/0.9 casters) and, with -via-gnssgo, the gnssgo stream layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/bramburn/gnssgo/pkg/gnssgo"
	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/msg"
	"github.com/bramburn/gnsshub/internal/ntrip"
	"github.com/bramburn/gnsshub/internal/transport"
)

func main() {
	var (
		hubAddr, logLevel  string
		username, password string
		mountpoint         string
		viaGnssgo, daemon  bool
		listSourcetable    bool
	)
	flag.StringVar(&hubAddr, "c", "127.0.0.1:9165", "hub address (host:port)")
	flag.StringVar(&hubAddr, "connect", "127.0.0.1:9165", "hub address (host:port)")
	flag.StringVar(&username, "u", "", "caster username")
	flag.StringVar(&password, "P", "", "caster password")
	flag.StringVar(&mountpoint, "m", "", "caster mountpoint (may also be part of the URL path)")
	flag.BoolVar(&viaGnssgo, "via-gnssgo", false, "pull the stream through the gnssgo stream layer instead of the built-in HTTP client")
	flag.BoolVar(&listSourcetable, "list", false, "print the caster's sourcetable and exit")
	flag.BoolVar(&daemon, "D", false, "daemonize: log as JSON for a supervisor")
	flag.BoolVar(&daemon, "daemon", false, "daemonize: log as JSON for a supervisor")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	if daemon {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if flag.NArg() != 1 {
		logger.Fatal("gnss-ntrip: exactly one caster URL argument is required")
	}
	casterURL := flag.Arg(0)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if listSourcetable {
		st, err := ntrip.GetSourcetable(ctx, casterURL)
		if err != nil {
			logger.WithError(err).Fatal("gnss-ntrip: fetching sourcetable")
		}
		for _, m := range st.Mounts {
			fmt.Printf("%s\t%s\t%s\n", m.Name, m.Identifier, m.Format)
		}
		return
	}

	raw, err := net.Dial("tcp", hubAddr)
	if err != nil {
		logger.WithError(err).Fatal("gnss-ntrip: connecting to hub")
	}
	conn := transport.NewConnection(raw)
	defer conn.Close()

	// Drain the hub's own traffic; the bridge only pushes corrections.
	go func() {
		for range conn.Messages() {
		}
	}()

	if viaGnssgo {
		err = runViaGnssgo(ctx, conn, casterURL, username, password, mountpoint, logger)
	} else {
		err = runIngestor(ctx, conn, casterURL, username, password, mountpoint, logger)
	}
	if err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("gnss-ntrip: correction stream ended")
	}
}

func runIngestor(ctx context.Context, conn *transport.Connection, casterURL, username, password, mountpoint string, logger logrus.FieldLogger) error {
	ig := ntrip.NewIngestor(casterURL, username, password, mountpoint, logger)
	out := make(chan *msg.RtcmFrame, 16)

	errc := make(chan error, 1)
	go func() { errc <- ig.Run(ctx, out) }()

	for frame := range out {
		if err := conn.WriteMessage(frame.ParseWrite()); err != nil {
			return fmt.Errorf("writing rtcm frame to hub: %w", err)
		}
		logger.WithField("type", frame.MessageType).Debug("gnss-ntrip: forwarded frame")
	}
	return <-errc
}

// runViaGnssgo opens the caster through gnssgo's stream layer, which speaks
// the NTRIP client protocol natively, then applies the same frame-by-frame
// resync before forwarding.
func runViaGnssgo(ctx context.Context, conn *transport.Connection, casterURL, username, password, mountpoint string, logger logrus.FieldLogger) error {
	path, err := gnssgoPath(casterURL, username, password, mountpoint)
	if err != nil {
		return err
	}

	var stream gnssgo.Stream
	stream.InitStream()
	if r := stream.OpenStream(gnssgo.STR_NTRIPCLI, gnssgo.STR_MODE_R, path); r <= 0 || stream.State <= 0 {
		return fmt.Errorf("opening ntrip stream %q: %s", path, stream.Msg)
	}
	defer stream.StreamClose()
	logger.WithField("path", path).Info("gnss-ntrip: connected via gnssgo")

	var accum []byte
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n := stream.StreamRead(buf, len(buf))
		if n <= 0 {
			if stream.State <= 0 {
				return fmt.Errorf("ntrip stream closed: %s", stream.Msg)
			}
			continue
		}
		accum = append(accum, buf[:n]...)

		for {
			skipped := 0
			for len(accum) > 0 && !msg.RtcmContainsPrefix(accum) {
				accum = accum[1:]
				skipped++
			}
			if skipped > 0 {
				logger.WithField("skipped_bytes", skipped).Debug("gnss-ntrip: resync discarded garbage")
			}
			frameLen, ok := msg.RtcmMessageUsage(accum)
			if !ok || len(accum) < frameLen {
				break
			}
			frame := accum[:frameLen]
			accum = accum[frameLen:]
			if err := conn.WriteMessage(frame); err != nil {
				return fmt.Errorf("writing rtcm frame to hub: %w", err)
			}
		}
	}
}

// gnssgoPath renders the user:pass@host:port/mount form gnssgo's NTRIP
// client expects.
func gnssgoPath(casterURL, username, password, mountpoint string) (string, error) {
	u, err := url.Parse(casterURL)
	if err != nil {
		return "", fmt.Errorf("parsing caster URL: %w", err)
	}
	host := u.Host
	if u.Port() == "" {
		host += ":2101"
	}
	mount := mountpoint
	if mount == "" {
		mount = u.Path
		for len(mount) > 0 && mount[0] == '/' {
			mount = mount[1:]
		}
	}
	if mount == "" {
		return "", fmt.Errorf("a mountpoint is required (flag -m or URL path)")
	}
	if username != "" {
		return fmt.Sprintf("%s:%s@%s/%s", username, password, host, mount), nil
	}
	return fmt.Sprintf("%s/%s", host, mount), nil
}
