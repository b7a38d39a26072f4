package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenafield/internal/objects"
)

func dial(t *testing.T, srv *httptest.Server, zone string) *websocket.Conn {
	t.Helper()
	return dialQuery(t, srv, "zone="+zone)
}

func dialQuery(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, b, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(b, &msg))
	return msg
}

func TestObserver_SnapshotThenChanges(t *testing.T) {
	tracker := objects.NewTracker()
	tracker.Toggle(objects.ZoneTarget("pub"), 5, true)

	obs := NewObserver(tracker)
	tracker.AddSink(obs)
	srv := httptest.NewServer(obs.Handler())
	defer srv.Close()

	conn := dial(t, srv, "pub")

	snap := readMessage(t, conn)
	assert.Equal(t, TypeSnapshot, snap.Type)
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, int16(5), snap.Markers[0].ID)

	require.Eventually(t, func() bool { return obs.Subscribers("pub") == 1 }, 2*time.Second, 10*time.Millisecond)

	tracker.Toggle(objects.ZoneTarget("other"), 1, true)
	tracker.ToggleSet(objects.ZoneTarget("pub"), []int16{5, 6}, []bool{false, true})

	msg := readMessage(t, conn)
	assert.Equal(t, TypeMarkers, msg.Type)
	assert.Equal(t, "pub", msg.Zone, "other zones are not forwarded")
	require.Len(t, msg.Markers, 2)
	assert.False(t, msg.Markers[0].On)
	assert.True(t, msg.Markers[1].On)

	obs.Publish("pub", map[string]string{"kind": "spawn"})
	ev := readMessage(t, conn)
	assert.Equal(t, TypeEvent, ev.Type)
}

func TestObserver_UnsubscribesOnClose(t *testing.T) {
	obs := NewObserver(nil)
	srv := httptest.NewServer(obs.Handler())
	defer srv.Close()

	conn := dial(t, srv, "pub")
	require.Eventually(t, func() bool { return obs.Subscribers("pub") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return obs.Subscribers("pub") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestObserver_RequiresZone(t *testing.T) {
	obs := NewObserver(nil)
	srv := httptest.NewServer(obs.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// changingSnapshot toggles a marker right after taking the snapshot, as a
// concurrent change would.
type changingSnapshot struct {
	tracker *objects.Tracker
	change  func()
}

func (s *changingSnapshot) Snapshot(target objects.Target) []objects.Marker {
	snap := s.tracker.Snapshot(target)
	s.change()
	return snap
}

func TestObserver_ChangeDuringSnapshotDelivered(t *testing.T) {
	tracker := objects.NewTracker()
	tracker.Toggle(objects.ZoneTarget("pub"), 5, true)

	snap := &changingSnapshot{tracker: tracker}
	obs := NewObserver(snap)
	snap.change = func() { tracker.Toggle(objects.ZoneTarget("pub"), 6, true) }
	tracker.AddSink(obs)
	srv := httptest.NewServer(obs.Handler())
	defer srv.Close()

	conn := dial(t, srv, "pub")

	first := readMessage(t, conn)
	assert.Equal(t, TypeSnapshot, first.Type)
	require.Len(t, first.Markers, 1)

	next := readMessage(t, conn)
	assert.Equal(t, TypeMarkers, next.Type)
	require.Len(t, next.Markers, 1)
	assert.Equal(t, int16(6), next.Markers[0].ID)
	assert.True(t, next.Markers[0].On)
}

type fakeSession struct {
	s    *fakeSessions
	name string
}

func (f *fakeSession) Command(text string) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.commands = append(f.s.commands, f.name+": "+text)
}

func (f *fakeSession) Leave() {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.left = append(f.s.left, f.name)
}

type fakeSessions struct {
	mu       sync.Mutex
	reject   error
	joined   []string
	commands []string
	left     []string
}

func (s *fakeSessions) Join(zone, player string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject != nil {
		return nil, s.reject
	}
	s.joined = append(s.joined, zone+"/"+player)
	return &fakeSession{s: s, name: player}, nil
}

func (s *fakeSessions) snapshot() (joined, commands, left []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.joined), slices.Clone(s.commands), slices.Clone(s.left)
}

func TestObserver_PlayerCommands(t *testing.T) {
	sessions := &fakeSessions{}
	obs := NewObserver(nil)
	obs.SetSessions(sessions)
	srv := httptest.NewServer(obs.Handler())
	defer srv.Close()

	conn := dialQuery(t, srv, "zone=pub&player=alpha")
	require.Eventually(t, func() bool { return obs.Subscribers("pub") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(Frame{Cmd: "ship", Params: "shark 1"}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(Frame{Params: "ignored"}))
	require.NoError(t, conn.WriteJSON(Frame{Cmd: "field", Params: "sting"}))
	require.NoError(t, conn.WriteJSON(Frame{Cmd: "?field"}))

	require.Eventually(t, func() bool {
		_, commands, _ := sessions.snapshot()
		return len(commands) == 3
	}, 2*time.Second, 10*time.Millisecond)

	joined, commands, _ := sessions.snapshot()
	assert.Equal(t, []string{"pub/alpha"}, joined)
	assert.Equal(t, []string{"alpha: ship shark 1", "alpha: field sting", "alpha: ?field"}, commands)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		_, _, left := sessions.snapshot()
		return len(left) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestObserver_PlayerJoinRefused(t *testing.T) {
	tests := []struct {
		name     string
		sessions Sessions
		want     int
	}{
		{"players disabled", nil, http.StatusForbidden},
		{"join rejected", &fakeSessions{reject: errors.New("name taken")}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := NewObserver(nil)
			if tt.sessions != nil {
				obs.SetSessions(tt.sessions)
			}
			srv := httptest.NewServer(obs.Handler())
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/?zone=pub&player=alpha")
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Zero(t, obs.Subscribers("pub"))
		})
	}
}
