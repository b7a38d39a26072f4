// Package ws serves a websocket feed of marker changes and field lifecycle
// events, one subscription per zone. A connection that names a player also
// joins the zone as that player and sends commands as {"cmd","params"} frames.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/arenafield/internal/objects"
)

// Message types sent to observers.
const (
	TypeSnapshot = "snapshot"
	TypeMarkers  = "markers"
	TypeEvent    = "event"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
	queueSize    = 64
)

// Message is the envelope of every frame sent to observers.
type Message struct {
	Type     string           `json:"type"`
	Zone     string           `json:"zone"`
	PlayerID int32            `json:"player_id,omitempty"`
	Markers  []objects.Marker `json:"markers,omitempty"`
	Event    any              `json:"event,omitempty"`
}

// Frame is a client command frame: {"cmd":"field","params":"sting"}.
type Frame struct {
	Cmd    string `json:"cmd"`
	Params string `json:"params"`
}

// Text returns the frame as a command line.
func (f Frame) Text() string {
	return strings.TrimSpace(f.Cmd + " " + f.Params)
}

// Session is a player joined through a websocket connection.
type Session interface {
	Command(text string)
	Leave()
}

// Sessions admits players that connect with ?player=<name>.
type Sessions interface {
	Join(zone, player string) (Session, error)
}

// Snapshotter provides the current markers of a target.
type Snapshotter interface {
	Snapshot(target objects.Target) []objects.Marker
}

type client struct {
	zone string
	out  chan []byte
	once sync.Once
	done chan struct{}
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// Observer fans marker changes out to websocket clients.
// Implements objects.Sink.
type Observer struct {
	snap     Snapshotter
	sessions Sessions
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	zones map[string]map[*client]struct{}
}

// NewObserver creates an Observer. snap may be nil (no initial snapshot).
func NewObserver(snap Snapshotter) *Observer {
	return &Observer{
		snap: snap,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		zones: make(map[string]map[*client]struct{}, 8),
	}
}

// SetSessions enables player connections. Call before serving.
func (o *Observer) SetSessions(s Sessions) {
	o.sessions = s
}

// Handler upgrades GET /?zone=<name>[&player=<name>] requests to a zone
// subscription. With player set the connection also joins the zone.
func (o *Observer) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		zone := r.URL.Query().Get("zone")
		if zone == "" {
			http.Error(rw, "missing zone", http.StatusBadRequest)
			return
		}

		var sess Session
		if name := r.URL.Query().Get("player"); name != "" {
			if o.sessions == nil {
				http.Error(rw, "players not accepted", http.StatusForbidden)
				return
			}
			var err error
			sess, err = o.sessions.Join(zone, name)
			if err != nil {
				slog.Info("player join rejected", "zone", zone, "player", name, "err", err)
				http.Error(rw, err.Error(), http.StatusConflict)
				return
			}
			defer sess.Leave()
		}

		conn, err := o.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := &client{zone: zone, out: make(chan []byte, queueSize), done: make(chan struct{})}

		// Подписка до снимка: изменения между ними попадут в очередь после снимка.
		o.subscribe(c)
		defer o.unsubscribe(c)

		if o.snap != nil {
			msg := Message{Type: TypeSnapshot, Zone: zone, Markers: o.snap.Snapshot(objects.ZoneTarget(zone))}
			if err := writeJSON(conn, msg); err != nil {
				return
			}
		}

		go o.writeLoop(conn, c)

		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, b, err := conn.ReadMessage()
			if err != nil {
				c.close()
				return
			}
			// Наблюдатель без игрока только читает.
			if sess == nil {
				continue
			}
			var f Frame
			if err := json.Unmarshal(b, &f); err != nil || f.Cmd == "" {
				slog.Debug("bad command frame", "zone", zone, "err", err)
				continue
			}
			sess.Command(f.Text())
		}
	}
}

// MarkersChanged broadcasts marker changes to subscribers of target's zone.
func (o *Observer) MarkersChanged(target objects.Target, changed []objects.Marker) {
	o.broadcast(target.Zone, Message{
		Type:     TypeMarkers,
		Zone:     target.Zone,
		PlayerID: target.PlayerID,
		Markers:  changed,
	})
}

// Publish broadcasts an arbitrary event to subscribers of zone.
func (o *Observer) Publish(zone string, event any) {
	o.broadcast(zone, Message{Type: TypeEvent, Zone: zone, Event: event})
}

// Subscribers returns the number of clients watching zone.
func (o *Observer) Subscribers(zone string) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.zones[zone])
}

// Serve runs an HTTP server with the observer at /ws until ctx is canceled.
func (o *Observer) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", o.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("observer listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down observer: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("observer server: %w", err)
	}
}

func (o *Observer) broadcast(zone string, msg Message) {
	o.mu.RLock()
	subs := o.zones[zone]
	if len(subs) == 0 {
		o.mu.RUnlock()
		return
	}
	clients := make([]*client, 0, len(subs))
	for c := range subs {
		clients = append(clients, c)
	}
	o.mu.RUnlock()

	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal observer message", "err", err)
		return
	}

	for _, c := range clients {
		select {
		case c.out <- b:
		default:
			slog.Debug("observer client too slow, disconnecting", "zone", zone)
			c.close()
		}
	}
}

func (o *Observer) subscribe(c *client) {
	o.mu.Lock()
	defer o.mu.Unlock()
	subs, ok := o.zones[c.zone]
	if !ok {
		subs = make(map[*client]struct{}, 4)
		o.zones[c.zone] = subs
	}
	subs[c] = struct{}{}
}

func (o *Observer) unsubscribe(c *client) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if subs, ok := o.zones[c.zone]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(o.zones, c.zone)
		}
	}
}

func (o *Observer) writeLoop(conn *websocket.Conn, c *client) {
	for {
		select {
		case <-c.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
			return
		case b := <-c.out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				c.close()
				_ = conn.Close()
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
