// Command gnss-monitor attaches to a running hub and prints a decoded line
// for every message the receiver emits. It uses the reconnecting outgoing
// client, so a hub restart only pauses the output instead of ending it.
package main

import (
	"flag"
	"fmt"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/msg"
	"github.com/bramburn/gnsshub/internal/transport"
)

func main() {
	var addr, logLevel string
	flag.StringVar(&addr, "c", "127.0.0.1:9165", "hub address (host:port)")
	flag.StringVar(&addr, "connect", "127.0.0.1:9165", "hub address (host:port)")
	flag.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	out := transport.NewOutgoing(addr, logger)
	defer out.Close()

	for payload := range out.Messages() {
		m, _, err := msg.Parse(payload)
		if err != nil {
			logger.WithError(err).Debug("gnss-monitor: skipping unparseable payload")
			continue
		}
		fmt.Println(describe(m))
	}
}

func describe(m msg.Message) string {
	switch v := m.(type) {
	case *msg.UbxFrame:
		return describeUbx(v)
	case *msg.UbxPoll:
		return fmt.Sprintf("UBX-POLL class=%#02x id=%#02x", v.Class, v.ID)
	case *msg.RtcmFrame:
		if decoded, err := v.Deserialize(); err == nil {
			return fmt.Sprintf("RTCM %d (%T, %d bytes)", v.MessageType, decoded, len(v.Raw))
		}
		return fmt.Sprintf("RTCM %d (%d bytes)", v.MessageType, len(v.Raw))
	case *msg.NmeaSentence:
		return describeNmea(v)
	case *msg.Server:
		return fmt.Sprintf("SERVER op=%d", v.Op)
	default:
		return fmt.Sprintf("%s message", m.Kind())
	}
}

func describeUbx(f *msg.UbxFrame) string {
	switch b := f.Body.(type) {
	case *msg.NavPvt:
		return fmt.Sprintf("NAV-PVT fix=%d sv=%d lat=%.7f lon=%.7f hMSL=%.3fm hAcc=%.3fm",
			b.FixType, b.NumSV,
			float64(b.Lat)*1e-7, float64(b.Lon)*1e-7,
			float64(b.HeightMSL)*1e-3, float64(b.HAcc)*1e-3)
	case *msg.Ack:
		verb := "NAK"
		if f.ID == msg.AckAck {
			verb = "ACK"
		}
		return fmt.Sprintf("ACK-%s for class=%#02x id=%#02x", verb, b.ClsID, b.MsgID)
	case *msg.MonVer:
		return fmt.Sprintf("MON-VER sw=%q hw=%q ext=%d", b.SwVersion, b.HwVersion, len(b.Extensions))
	case *msg.RxmRtcm:
		return fmt.Sprintf("RXM-RTCM type=%d refStation=%d flags=%#02x", b.MsgType, b.RefStation, b.Flags)
	case *msg.Inf:
		return fmt.Sprintf("INF[%d] %s", b.Level, b.Text)
	case *msg.CfgValGet:
		return fmt.Sprintf("CFG-VALGET keys=%d values=%d", len(b.Keys), len(b.Values))
	default:
		return fmt.Sprintf("UBX class=%#02x id=%#02x", f.Class, f.ID)
	}
}

func describeNmea(s *msg.NmeaSentence) string {
	decoded, err := s.Sentence()
	if err != nil {
		return fmt.Sprintf("NMEA %s", trimmed(s.Raw))
	}
	if decoded.DataType() == nmea.TypeGGA {
		gga := decoded.(nmea.GGA)
		return fmt.Sprintf("NMEA GGA lat=%.6f lon=%.6f sats=%d fix=%s",
			gga.Latitude, gga.Longitude, gga.NumSatellites, gga.FixQuality)
	}
	return fmt.Sprintf("NMEA %s %s", decoded.DataType(), trimmed(s.Raw))
}

func trimmed(raw string) string {
	if len(raw) >= 2 && raw[len(raw)-2] == '\r' {
		return raw[:len(raw)-2]
	}
	return raw
}
