package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"slideboard/internal/annotation"
	"slideboard/internal/handlers"
	"slideboard/internal/message"
	"slideboard/internal/middleware"
	"slideboard/internal/room"
	"slideboard/internal/user"

	"github.com/gorilla/websocket"
)

func setupServer(t *testing.T) (*httptest.Server, *room.Manager) {
	t.Helper()
	srv, rooms, _ := setupServerWith(t, func(m *room.Manager) RoomLookup { return m })
	return srv, rooms
}

func setupServerWith(t *testing.T, lookup func(*room.Manager) RoomLookup) (*httptest.Server, *room.Manager, *Hub) {
	t.Helper()

	hub := NewHub(10)
	rooms := room.NewManager(hub, room.Options{WhiteboardEnabled: true})
	parser := message.NewParser()
	limits := middleware.NewLimits(64*1024, 6, 2000)
	sessions := user.NewSessionManager(100, 100, time.Hour)
	router := handlers.NewMessageRouter(parser, annotation.NewSanitizer(), limits, rooms, hub)

	h := NewHandler(Options{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      16,
		AuthTimeout:     2 * time.Second,
	}, hub, lookup(rooms), router, NewAuthenticator(sessions, parser), sessions, limits)

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(func() {
		srv.Close()
		rooms.Shutdown()
	})
	return srv, rooms, hub
}

// stopAfterLookup ends the meeting right after the first successful lookup,
// as a concurrent stop would.
type stopAfterLookup struct {
	rooms *room.Manager
}

func (s stopAfterLookup) GetRoom(meetingID string) (*room.Room, error) {
	rm, err := s.rooms.GetRoom(meetingID)
	if err == nil {
		s.rooms.RemoveRoom(meetingID)
	}
	return rm, err
}

func dial(t *testing.T, srv *httptest.Server, meetingID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?meeting=" + meetingID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func expect(t *testing.T, conn *websocket.Conn, msgType string) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]interface{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Waiting for %s: %v", msgType, err)
	}
	if msg["type"] != msgType {
		t.Fatalf("Expected %s, got %v", msgType, msg)
	}
	return msg
}

func join(t *testing.T, srv *httptest.Server, meetingID, token string) (*websocket.Conn, map[string]interface{}) {
	t.Helper()
	conn := dial(t, srv, meetingID)
	if err := conn.WriteJSON(map[string]string{"type": "authenticate", "token": token}); err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}
	auth := expect(t, conn, message.TypeAuthenticated)
	joined := expect(t, conn, message.TypeJoined)
	if joined["userId"] != auth["userId"] || joined["color"] == "" {
		t.Errorf("Unexpected joined message: %v", joined)
	}
	return conn, auth
}

func TestWebSocketSession(t *testing.T) {
	srv, rooms := setupServer(t)
	rooms.AddRoom("m1")

	presenter, auth := join(t, srv, "m1", "")
	viewer, _ := join(t, srv, "m1", "")

	presenter.WriteJSON(map[string]interface{}{
		"type": "setActivePresentation", "presentationID": "deck", "numberOfSlides": 4,
	})
	for _, conn := range []*websocket.Conn{presenter, viewer} {
		msg := expect(t, conn, message.TypePresentationChanged)
		if msg["presentationID"] != "deck" || msg["numberOfPages"] != 4.0 {
			t.Errorf("Unexpected presentationChanged: %v", msg)
		}
	}

	viewer.WriteJSON(map[string]interface{}{"type": "setActivePage", "pageNum": 9})
	if msg := expect(t, viewer, message.TypeError); msg["code"] != message.CodePageNotFound {
		t.Errorf("Expected PAGE_NOT_FOUND, got %v", msg)
	}

	// a returning participant keeps its identity
	presenter.Close()
	_, again := join(t, srv, "m1", auth["token"].(string))
	if again["userId"] != auth["userId"] {
		t.Errorf("Expected resumed user %v, got %v", auth["userId"], again["userId"])
	}
}

func TestWebSocketUnknownMeeting(t *testing.T) {
	srv, _ := setupServer(t)

	conn := dial(t, srv, "missing")
	conn.WriteJSON(map[string]string{"type": "authenticate"})
	expect(t, conn, message.TypeAuthenticated)
	if msg := expect(t, conn, message.TypeError); msg["code"] != message.CodeRoomNotFound {
		t.Errorf("Expected ROOM_NOT_FOUND, got %v", msg)
	}
}

func TestWebSocketRequiresAuthenticateFirst(t *testing.T) {
	srv, rooms := setupServer(t)
	rooms.AddRoom("m1")

	conn := dial(t, srv, "m1")
	conn.WriteJSON(map[string]string{"type": "undo"})
	if msg := expect(t, conn, message.TypeError); msg["code"] != message.CodeValidation {
		t.Errorf("Expected VALIDATION_ERROR, got %v", msg)
	}
}

func TestWebSocketRequiresMeeting(t *testing.T) {
	srv, _ := setupServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Expected dial without meeting to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %v", resp)
	}
}

func TestWebSocketJoinRacingStop(t *testing.T) {
	srv, rooms, hub := setupServerWith(t, func(m *room.Manager) RoomLookup { return stopAfterLookup{rooms: m} })
	rooms.AddRoom("m1")

	conn := dial(t, srv, "m1")
	conn.WriteJSON(map[string]string{"type": "authenticate"})
	expect(t, conn, message.TypeAuthenticated)
	if msg := expect(t, conn, message.TypeError); msg["code"] != message.CodeRoomNotFound {
		t.Errorf("Expected ROOM_NOT_FOUND, got %v", msg)
	}

	hub.mu.Lock()
	_, leaked := hub.meetings["m1"]
	hub.mu.Unlock()
	if leaked {
		t.Error("Expected the stopped meeting's hub entry to be released")
	}
}
