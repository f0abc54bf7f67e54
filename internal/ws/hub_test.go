package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/cuetable/internal/config"
	"github.com/playmatatu/cuetable/internal/game"
)

type received struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	MatchID string          `json:"match_id"`
}

func setupHub(t *testing.T) (*game.Manager, *Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mgr := game.NewManager(nil, &config.Config{TickRateHz: 60, MatchIdleMinutes: 30, ReaperPollSeconds: 30})
	hub := NewHub(mgr)
	go hub.Run()

	r := gin.New()
	r.GET("/matches/:id/ws", HandleWebSocket(hub))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return mgr, hub, srv
}

func dial(t *testing.T, srv *httptest.Server, matchID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/matches/" + matchID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg received
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestJoinSendsSnapshot(t *testing.T) {
	mgr, _, srv := setupHub(t)
	s, _ := mgr.CreateMatch(config.VariantPool)

	conn := dial(t, srv, s.ID)
	msg := readMessage(t, conn)
	if msg.Type != "snapshot" {
		t.Fatalf("first message type = %q, want snapshot", msg.Type)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(msg.Data, &snap); err != nil || len(snap.Balls) != 16 {
		t.Errorf("snapshot balls = %d (%v)", len(snap.Balls), err)
	}
}

func TestPointerMessageBroadcastsCueState(t *testing.T) {
	mgr, _, srv := setupHub(t)
	s, _ := mgr.CreateMatch(config.VariantPool)

	conn := dial(t, srv, s.ID)
	readMessage(t, conn)

	conn.WriteJSON(map[string]interface{}{
		"type": "pointer",
		"data": PointerData{Action: game.PointerActionDown, X: 100, Y: 250},
	})
	msg := readMessage(t, conn)
	if msg.Type != "snapshot" {
		t.Fatalf("reply type = %q (%s)", msg.Type, msg.Message)
	}
	var snap game.Snapshot
	json.Unmarshal(msg.Data, &snap)
	if !snap.Cue.Aiming {
		t.Errorf("cue not aiming after pointer down")
	}
}

func TestUnknownMessageType(t *testing.T) {
	mgr, _, srv := setupHub(t)
	s, _ := mgr.CreateMatch(config.VariantPool)

	conn := dial(t, srv, s.ID)
	readMessage(t, conn)

	conn.WriteJSON(map[string]string{"type": "take_shot"})
	if msg := readMessage(t, conn); msg.Type != "error" {
		t.Errorf("reply type = %q, want error", msg.Type)
	}
}

func TestCloseMatchNotifiesRoom(t *testing.T) {
	mgr, hub, srv := setupHub(t)
	s, _ := mgr.CreateMatch(config.VariantPool)

	conn := dial(t, srv, s.ID)
	readMessage(t, conn)

	hub.CloseMatch(game.ClosedNotice{Type: "match_closed", MatchID: s.ID, Reason: "idle"})
	msg := readMessage(t, conn)
	if msg.Type != "match_closed" || msg.MatchID != s.ID {
		t.Errorf("notice = %+v", msg)
	}
	if hub.RoomSize(s.ID) != 0 {
		t.Errorf("room not emptied")
	}
}

func TestUnknownMatchRejected(t *testing.T) {
	_, _, srv := setupHub(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/matches/match_missing/ws"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Errorf("dial to a missing match succeeded")
	}
}

func TestRemovedMatchClosesRoom(t *testing.T) {
	mgr, hub, srv := setupHub(t)
	mgr.OnClosed(hub.CloseMatch)
	s, _ := mgr.CreateMatch(config.VariantPool)

	conn := dial(t, srv, s.ID)
	readMessage(t, conn)

	if err := mgr.Remove(s.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Type != "match_closed" || msg.MatchID != s.ID {
		t.Errorf("notice = %+v", msg)
	}
}
