package ntrip

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bramburn/gnsshub/internal/msg"
)

const (
	userAgent     = "NTRIP gps/0.1"
	ntripVersion  = "Ntrip/2.0"
	wantCT        = "gnss/data"
	dialTimeout   = 10 * time.Second
	readChunkSize = 4096
)

// Ingestor connects to an NTRIP caster and yields framed RTCM messages:
// the response body is a continuous RTCM stream, accumulated and popped a
// whole frame at a time, skipping (and counting) leading garbage bytes.
type Ingestor struct {
	URL        string
	Username   string
	Password   string
	Mountpoint string
	Logger     logrus.FieldLogger
}

// NewIngestor constructs an Ingestor for casterURL (which may already
// include the mountpoint path).
func NewIngestor(casterURL, username, password, mountpoint string, logger logrus.FieldLogger) *Ingestor {
	return &Ingestor{
		URL:        casterURL,
		Username:   username,
		Password:   password,
		Mountpoint: mountpoint,
		Logger:     logger,
	}
}

// Run connects to the caster and sends framed *msg.RtcmFrame values to out until
// ctx is cancelled or the connection ends, at which point it closes out and
// returns.
func (ig *Ingestor) Run(ctx context.Context, out chan<- *msg.RtcmFrame) error {
	defer close(out)

	body, err := ig.connect(ctx)
	if err != nil {
		return err
	}
	defer body.Close()

	var accum []byte
	buf := make([]byte, readChunkSize)
	skipped := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, rerr := body.Read(buf)
		if n > 0 {
			accum = append(accum, buf[:n]...)
			for {
				resynced := resyncRtcm(accum)
				if skip := len(accum) - len(resynced); skip > 0 {
					skipped += skip
				}
				accum = resynced

				frameLen, ok := msg.RtcmMessageUsage(accum)
				if !ok || len(accum) < frameLen {
					break
				}
				frame, rest := accum[:frameLen], accum[frameLen:]
				accum = rest

				m, _, perr := msg.ParseReadRtcm(frame)
				if perr != nil {
					ig.Logger.WithError(perr).Warn("ntrip: dropping frame that failed CRC")
					continue
				}
				if skipped > 0 {
					ig.Logger.WithField("skipped_bytes", skipped).Debug("ntrip: resync discarded garbage before frame")
					skipped = 0
				}
				select {
				case out <- m:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return nil
			}
			return fmt.Errorf("ntrip: reading caster stream: %w", rerr)
		}
	}
}

func resyncRtcm(b []byte) []byte {
	for len(b) > 0 && !msg.RtcmContainsPrefix(b) {
		b = b[1:]
	}
	return b
}

// connect performs the NTRIP GET and returns the response body, tolerating
// casters that reply with bare HTTP/0.9 (no status line, no headers — body
// starts immediately): when the first four reply bytes are not "HTTP", the
// raw connection is returned as the body without any header check.
func (ig *Ingestor) connect(ctx context.Context) (bodyCloser, error) {
	u, err := url.Parse(ig.fullURL())
	if err != nil {
		return nil, fmt.Errorf("ntrip: parsing caster URL: %w", err)
	}
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return nil, fmt.Errorf("ntrip: dialing %s: %w", host, err)
	}

	req := ig.buildRequest(u)
	if _, err := conn.Write(req); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ntrip: sending request: %w", err)
	}

	br := bufio.NewReader(conn)
	peek, err := br.Peek(4)
	if err != nil && len(peek) == 0 {
		conn.Close()
		return nil, fmt.Errorf("ntrip: reading caster response: %w", err)
	}
	if string(peek) != "HTTP" {
		// HTTP/0.9 caster: no status line, body starts immediately.
		ig.Logger.Debug("ntrip: caster replied without a status line, treating as HTTP/0.9")
		return readCloser{br, conn}, nil
	}

	resp, err := http.ReadResponse(br, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ntrip: parsing caster response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		conn.Close()
		return nil, fmt.Errorf("ntrip: caster returned status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != wantCT {
		resp.Body.Close()
		conn.Close()
		return nil, fmt.Errorf("ntrip: unexpected content-type %q, want %q", ct, wantCT)
	}
	return wrapConnCloser{resp.Body, conn}, nil
}

func (ig *Ingestor) fullURL() string {
	fullURL := ig.URL
	if ig.Mountpoint != "" && !strings.Contains(fullURL, ig.Mountpoint) {
		if !strings.HasSuffix(fullURL, "/") {
			fullURL += "/"
		}
		fullURL += ig.Mountpoint
	}
	return fullURL
}

// buildRequest hand-renders the GET request line and headers: net/http's
// Request.Write lower-cases and reorders headers, but some casters require
// the exact title-cased header names and ordering this builds explicitly.
func (ig *Ingestor) buildRequest(u *url.URL) []byte {
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	var b strings.Builder
	fmt.Fprintf(&b, "GET %s HTTP/1.1\r\n", path)
	fmt.Fprintf(&b, "Host: %s\r\n", u.Host)
	fmt.Fprintf(&b, "User-Agent: %s\r\n", userAgent)
	fmt.Fprintf(&b, "Accept: */*\r\n")
	fmt.Fprintf(&b, "Ntrip-Version: %s\r\n", ntripVersion)
	if ig.Username != "" {
		fmt.Fprintf(&b, "Authorization: Basic %s\r\n", basicAuth(ig.Username, ig.Password))
	}
	b.WriteString("Connection: close\r\n")
	b.WriteString("\r\n")
	return []byte(b.String())
}

func basicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// bodyCloser is the minimal contract the ingestor loop needs from either an
// *http.Response body or a raw HTTP/0.9 connection.
type bodyCloser interface {
	Read(p []byte) (int, error)
	Close() error
}

type wrapConnCloser struct {
	body bodyCloser
	conn net.Conn
}

func (w wrapConnCloser) Read(p []byte) (int, error) { return w.body.Read(p) }
func (w wrapConnCloser) Close() error {
	w.body.Close()
	return w.conn.Close()
}

type readCloser struct {
	r    *bufio.Reader
	conn net.Conn
}

func (r readCloser) Read(p []byte) (int, error) { return r.r.Read(p) }
func (r readCloser) Close() error               { return r.conn.Close() }
