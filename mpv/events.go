package mpv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/yamanami-choir/yamanami/log"
)

// Event is a notification read from mpv. Property changes carry Name and Data,
// other events (end-file, file-loaded, ...) carry their kind in Kind and Reason where mpv sets one.
type Event struct {
	Kind   string
	Name   string
	Data   interface{}
	Reason string
}

// listener owns a persistent connection that observes properties. Observation is per connection
// in mpv, so the observe commands are written on the same connection that is read.
type listener struct {
	conn     net.Conn
	callback func(Event)
	done     chan struct{}
	once     sync.Once
}

func listen(socket string, properties []string, callback func(Event)) (*listener, error) {
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range properties {
		payload, err := json.Marshal(ipcCommand{Command: []interface{}{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return nil, fmt.Errorf("observe %s: %w", name, err)
		}
	}

	l := &listener{conn: conn, callback: callback, done: make(chan struct{})}
	go l.readLoop()

	log.WithFields(log.Fields{"socket": socket, "properties": strings.Join(properties, ",")}).Debug("mpv event listener started")
	return l, nil
}

// Close stops the listener and waits for its read loop to exit.
func (l *listener) Close() {
	l.once.Do(func() {
		_ = l.conn.Close()
	})
	<-l.done
}

func (l *listener) readLoop() {
	defer close(l.done)

	scanner := bufio.NewScanner(l.conn)
	for scanner.Scan() {
		if ev, ok := parseEvent(scanner.Bytes()); ok {
			l.callback(ev)
		}
	}

	if err := scanner.Err(); err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
		log.Warnf("event listener read error: %v", err)
	}
}

// parseEvent decodes one line. Command replies and unparseable lines are skipped.
func parseEvent(line []byte) (Event, bool) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil || msg.Event == "" {
		return Event{}, false
	}

	if msg.Event == "property-change" {
		if msg.Name == "" {
			return Event{}, false
		}
		return Event{Kind: msg.Event, Name: msg.Name, Data: msg.Data}, true
	}

	return Event{Kind: msg.Event, Reason: msg.Reason, Data: msg.Data}, true
}
