// Package valkeysession owns the TCP connection to a server: the
// connect-and-handshake sequence, single-writer/single-reader command
// execution, and pipelined execution.
//
// Grounded on go-client/client.go and go-client/server.go for the
// net.Conn-plus-bufio shape, and on
// original_source/src/utils/valkey/valkey_client.rs for the exact
// handshake sequence, deadlines, and read-loop retry semantics.
package valkeysession

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akashmaji946/valkeycli/internal/resp"
	"github.com/akashmaji946/valkeycli/internal/tokenizer"
	"github.com/akashmaji946/valkeycli/internal/valkeyerrors"
	"github.com/akashmaji946/valkeycli/internal/valkeyurl"
	"github.com/akashmaji946/valkeycli/internal/vklog"
)

const (
	connectTimeout = 5 * time.Second
	ioTimeout      = 10 * time.Second
	readChunkSize  = 8192
	maxWouldBlock  = 3
)

var minServerVersion = [3]int{8, 0, 0}

var (
	supportedServers          = map[string]bool{"valkey": true}
	partiallySupportedServers = map[string]bool{"redis": true}
)

// Event is a session lifecycle notification delivered to an Observer.
type Event struct {
	Kind    EventKind
	Message string
}

// EventKind enumerates the notifications a Session can emit while
// connecting and running.
type EventKind int

const (
	EventConnecting EventKind = iota
	EventUnsupportedServer
	EventConnected
)

// Observer receives best-effort session lifecycle notifications. It
// must not block the caller.
type Observer interface {
	Notify(Event)
}

// ChannelObserver delivers events over a buffered channel, dropping
// (and logging) any event that would block because the channel is
// full — mirroring the source tool's fire-and-forget sender.Send.
type ChannelObserver struct {
	Events chan Event
}

// NewChannelObserver allocates a ChannelObserver with the given buffer size.
func NewChannelObserver(buffer int) *ChannelObserver {
	return &ChannelObserver{Events: make(chan Event, buffer)}
}

func (o *ChannelObserver) Notify(ev Event) {
	select {
	case o.Events <- ev:
	default:
		vklog.Default.Warn("session observer channel full, dropping event: %+v", ev)
	}
}

// Session is a single connection to a server, guarded by a mutex so
// Exec/ExecPipelined calls from multiple goroutines serialize onto one
// underlying net.Conn.
type Session struct {
	mu         sync.Mutex
	conn       net.Conn
	url        valkeyurl.ValkeyUrl
	serverType string
	observer   Observer
}

// ServerType returns the "mode" field HELLO reported (e.g. "standalone"),
// or "unknown" if the server didn't report one.
func (s *Session) ServerType() string { return s.serverType }

// URL returns the connection URL this session was opened with.
func (s *Session) URL() valkeyurl.ValkeyUrl { return s.url }

// Open dials url, performs the AUTH/SELECT/PING/HELLO handshake, and
// returns a ready-to-use Session. observer may be nil.
func Open(url valkeyurl.ValkeyUrl, observer Observer) (*Session, error) {
	notify(observer, Event{Kind: EventConnecting, Message: "connecting to " + url.Address()})

	conn, err := net.DialTimeout("tcp", url.Address(), connectTimeout)
	if err != nil {
		return nil, valkeyerrors.NewNetwork("dial %s: %v", url.Address(), err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			conn.Close()
			return nil, valkeyerrors.NewIO(err)
		}
	}

	s := &Session{conn: conn, url: url, serverType: "unknown", observer: observer}

	if err := s.handshake(); err != nil {
		conn.Close()
		return nil, err
	}

	notify(observer, Event{Kind: EventConnected, Message: "connected to " + url.Address()})
	return s, nil
}

func notify(o Observer, ev Event) {
	if o != nil {
		o.Notify(ev)
	}
}

func (s *Session) handshake() error {
	if s.url.Username != nil || s.url.Password != nil {
		user := deref(s.url.Username)
		pass := deref(s.url.Password)

		var argv [][]byte
		if user != "" {
			argv = [][]byte{[]byte("AUTH"), []byte(user), []byte(pass)}
		} else {
			argv = [][]byte{[]byte("AUTH"), []byte(pass)}
		}
		reply, err := s.roundTrip(resp.EncodeCommand(argv), nil)
		if err != nil {
			return err
		}
		if reply.String() != "OK" {
			return valkeyerrors.NewNetwork("authentication failed")
		}
	}

	if s.url.DB != nil {
		dbStr := strconv.FormatUint(uint64(*s.url.DB), 10)
		reply, err := s.roundTrip(resp.EncodeCommand([][]byte{[]byte("SELECT"), []byte(dbStr)}), nil)
		if err != nil {
			return err
		}
		if reply.String() != "OK" {
			return valkeyerrors.NewNetwork("SELECT %s failed", dbStr)
		}
	}

	pingReply, err := s.roundTrip(resp.EncodeCommand([][]byte{[]byte("PING")}), nil)
	if err != nil {
		return err
	}
	if pingReply.String() != "PONG" {
		return valkeyerrors.NewNetwork("server did not respond to PING")
	}

	helloReply, err := s.roundTrip(resp.EncodeCommand([][]byte{[]byte("HELLO"), []byte("3")}), nil)
	if err != nil {
		return err
	}
	return s.checkHello(helloReply)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Session) checkHello(reply resp.Value) error {
	if reply.Kind != resp.KindMap {
		return valkeyerrors.NewNetwork("unsupported server: expected HELLO reply to be a map")
	}

	lookup := func(key string) (resp.Value, bool) {
		for _, pair := range reply.Pairs {
			if pair.Key.Kind == resp.KindBulkString && string(pair.Key.Bulk) == key {
				return pair.Value, true
			}
		}
		return resp.Value{}, false
	}

	serverVal, ok := lookup("server")
	if !ok {
		return valkeyerrors.NewNetwork("server did not report its identity")
	}
	server := serverVal.String()

	if modeVal, ok := lookup("mode"); ok {
		s.serverType = modeVal.String()
	}

	versionVal, ok := lookup("version")
	if !ok {
		return valkeyerrors.NewNetwork("server did not report its version")
	}
	version, err := parseVersion(versionVal.String())
	if err != nil {
		return err
	}

	if versionLess(version, minServerVersion) {
		return valkeyerrors.NewNetwork(
			"server version %s is below the minimum supported %d.%d.%d",
			versionVal.String(), minServerVersion[0], minServerVersion[1], minServerVersion[2])
	}

	if !supportedServers[server] {
		if !partiallySupportedServers[server] {
			return valkeyerrors.NewNetwork("unsupported server: %s", server)
		}
		notify(s.observer, Event{
			Kind:    EventUnsupportedServer,
			Message: fmt.Sprintf("%s is only partially supported (minimum %d.%d.%d, RESP3)", server, minServerVersion[0], minServerVersion[1], minServerVersion[2]),
		})
	}

	return nil
}

func parseVersion(version string) ([3]int, error) {
	parts := strings.Split(version, ".")
	var out [3]int
	for i := 0; i < 3; i++ {
		if i >= len(parts) {
			break
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return out, valkeyerrors.NewNetwork("invalid server version %q", version)
		}
		out[i] = n
	}
	return out, nil
}

func versionLess(a, b [3]int) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Exec tokenizes line into a single command, sends it, and returns the
// reply flattened into its constituent strings (spec.md §7: ToFlatList).
func (s *Session) Exec(line string) ([]string, error) {
	tokens := tokenizer.Tokenize(strings.TrimSpace(line))
	if len(tokens) == 0 {
		return nil, valkeyerrors.NewInvalidInput("empty command")
	}

	argv := make([][]byte, len(tokens))
	for i, t := range tokens {
		argv[i] = []byte(t)
	}

	reply, err := s.roundTrip(resp.EncodeCommand(argv), nil)
	if err != nil {
		return nil, err
	}
	return reply.ToFlatList(), nil
}

// ExecPipelined tokenizes and sends every line in lines as one batch
// write, then reads back len(lines) replies and flattens each in turn.
func (s *Session) ExecPipelined(lines []string) ([]string, error) {
	var buf []byte
	for _, line := range lines {
		tokens := tokenizer.Tokenize(strings.TrimSpace(line))
		if len(tokens) == 0 {
			return nil, valkeyerrors.NewInvalidInput("empty command in pipeline")
		}
		argv := make([][]byte, len(tokens))
		for i, t := range tokens {
			argv[i] = []byte(t)
		}
		buf = append(buf, resp.EncodeCommand(argv)...)
	}

	expected := len(lines)
	raw, err := s.roundTripRaw(buf, &expected)
	if err != nil {
		return nil, err
	}

	var out []string
	pos := 0
	for i := 0; i < expected; i++ {
		value, consumed, err := resp.Parse(raw, pos)
		if err != nil {
			return nil, valkeyerrors.NewNetwork("malformed pipelined reply: %v", err)
		}
		out = append(out, value.ToFlatList()...)
		pos = consumed
	}
	return out, nil
}

// roundTrip writes payload and parses exactly one reply value from the
// raw bytes returned.
func (s *Session) roundTrip(payload []byte, expectedCount *int) (resp.Value, error) {
	raw, err := s.roundTripRaw(payload, expectedCount)
	if err != nil {
		return resp.Value{}, err
	}
	value, _, err := resp.Parse(raw, 0)
	if err != nil {
		return resp.Value{}, valkeyerrors.NewNetwork("malformed reply: %v", err)
	}
	return value, nil
}

// roundTripRaw writes payload and reads bytes until the accumulated
// buffer holds expectedCount complete frames (or, if nil, exactly one
// complete frame). This faithfully reproduces the read-loop retry
// semantics of the source tool's read_stream: a bounded would-block
// retry count, EOF distinguishing an empty vs. partial accumulator,
// connection-reset/aborted surfaced distinctly, and any other I/O error
// propagated as-is rather than folded into one of those three cases.
// A malformed frame ends the read at once: the bytes read so far are
// returned and the caller's parse reports the error.
func (s *Session) roundTripRaw(payload []byte, expectedCount *int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(ioTimeout)); err != nil {
		return nil, valkeyerrors.NewIO(err)
	}
	if _, err := s.conn.Write(payload); err != nil {
		return nil, valkeyerrors.NewNetwork("write: %v", err)
	}

	var response []byte
	buffer := make([]byte, readChunkSize)
	consecutiveWouldBlock := 0

	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(ioTimeout)); err != nil {
			return nil, valkeyerrors.NewIO(err)
		}

		n, err := s.conn.Read(buffer)
		if n > 0 {
			consecutiveWouldBlock = 0
			response = append(response, buffer[:n]...)

			if expectedCount != nil {
				if resp.CountCompleteFrames(response) >= *expectedCount {
					return response, nil
				}
			} else if resp.IsComplete(response) {
				return response, nil
			}

			for pos := 0; pos < len(response); {
				_, next, perr := resp.Parse(response, pos)
				var malformed *resp.MalformedError
				if errors.As(perr, &malformed) {
					return response, nil
				}
				if perr != nil {
					break
				}
				pos = next
			}
		}

		if err == nil {
			continue
		}

		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			consecutiveWouldBlock++
			if consecutiveWouldBlock >= maxWouldBlock {
				if len(response) == 0 {
					return nil, valkeyerrors.NewNetwork("server did not respond within the timeout period")
				}
				return nil, valkeyerrors.NewNetwork("server response incomplete: timed out waiting for more data")
			}
			continue
		}

		if isClosedConnErr(err) {
			return nil, valkeyerrors.NewNetwork("connection lost to server: %v", err)
		}

		if errors.Is(err, io.EOF) {
			if len(response) > 0 {
				return response, nil
			}
			return nil, valkeyerrors.NewNetwork("connection closed by server without response")
		}

		return nil, valkeyerrors.NewIO(err)
	}
}

func isClosedConnErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "reset by peer") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "use of closed network connection")
}

// Close releases the underlying connection.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
