package transport

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"slideboard/internal/handlers"
	"slideboard/internal/message"
	"slideboard/internal/middleware"
	"slideboard/internal/room"
	"slideboard/internal/user"

	"github.com/gorilla/websocket"
)

// hard cap on a single frame; larger frames close the connection
const maxFrameSize = 1024 * 1024

// Options configures the WebSocket endpoint.
type Options struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	AuthTimeout     time.Duration
}

// RoomLookup resolves the room of a running meeting.
type RoomLookup interface {
	GetRoom(meetingID string) (*room.Room, error)
}

// Handler upgrades participant connections and runs their read loops.
type Handler struct {
	upgrader   websocket.Upgrader
	opts       Options
	hub        *Hub
	rooms      RoomLookup
	router     *handlers.MessageRouter
	auth       *Authenticator
	sessionMgr *user.SessionManager
	limits     *middleware.Limits
}

func NewHandler(
	opts Options,
	hub *Hub,
	rooms RoomLookup,
	router *handlers.MessageRouter,
	auth *Authenticator,
	sessionMgr *user.SessionManager,
	limits *middleware.Limits,
) *Handler {
	h := &Handler{
		opts:       opts,
		hub:        hub,
		rooms:      rooms,
		router:     router,
		auth:       auth,
		sessionMgr: sessionMgr,
		limits:     limits,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  opts.ReadBufferSize,
		WriteBufferSize: opts.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin allows every origin when no domains are configured.
func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range h.opts.AllowedOrigins {
		if origin == strings.TrimSpace(allowed) {
			return true
		}
	}
	return false
}

// HandleWebSocket authenticates the connection, joins it to the meeting
// named by the "meeting" query parameter and routes its messages.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	meetingID := r.URL.Query().Get("meeting")
	if meetingID == "" {
		http.Error(w, "meeting is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}
	conn.SetReadLimit(maxFrameSize)

	session, err := h.auth.Authenticate(conn, h.opts.AuthTimeout)
	if err != nil {
		log.Printf("[WS] authentication failed: %v", err)
		closeWith(conn, message.NewError(message.CodeValidation, err.Error(), message.TypeAuthenticate))
		return
	}

	u := &user.User{ID: session.UserID, Session: session}
	if err := writeNow(conn, message.NewAuthenticated(u.ID, session.SessionToken)); err != nil {
		log.Printf("[WS] failed to send auth response to %s: %v", u.ID, err)
		conn.Close()
		return
	}

	if _, err := h.rooms.GetRoom(meetingID); err != nil {
		log.Printf("[WS] user %s rejected: %v", u.ID, err)
		closeWith(conn, message.NewError(message.CodeRoomNotFound, err.Error(), ""))
		return
	}

	client := newClient(conn, u, meetingID, h.opts.SendBuffer)
	color, err := h.hub.Join(client)
	if err != nil {
		log.Printf("[WS] user %s could not join meeting %s: %v", u.ID, meetingID, err)
		closeWith(conn, message.NewError(message.CodeMeetingFull, err.Error(), ""))
		return
	}
	defer h.hub.Leave(client)

	// the meeting may have stopped between lookup and join; the join
	// recreated its hub entry, so release it again
	if _, err := h.rooms.GetRoom(meetingID); err != nil {
		h.hub.CloseMeeting(meetingID)
		closeWith(conn, message.NewError(message.CodeRoomNotFound, err.Error(), ""))
		return
	}

	h.sessionMgr.Touch(u.ID, meetingID)

	go client.writePump()
	h.hub.Send(client, message.NewJoined(meetingID, u.ID, color))

	h.readPump(client)
}

// readPump feeds the client's messages to the router until the
// connection drops.
func (h *Handler) readPump(c *Client) {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	u := c.User
	dropped := 0

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Meeting %s] read from user %s failed: %v", c.MeetingID, u.ID, err)
			}
			return
		}

		if !h.limits.ValidateMessageSize(len(raw)) {
			log.Printf("[Meeting %s] message too large from user %s: %d bytes", c.MeetingID, u.ID, len(raw))
			h.hub.Send(c, message.NewError(message.CodeValidation, "message too large", ""))
			continue
		}

		if !u.Allow() {
			dropped++
			if dropped%100 == 1 {
				log.Printf("[Meeting %s] rate limit exceeded for user %s (dropped %d)", c.MeetingID, u.ID, dropped)
			}
			continue
		}

		if err := h.router.Route(c.MeetingID, u, raw); err != nil {
			log.Printf("[Meeting %s] rejected message from user %s: %v", c.MeetingID, u.ID, err)
		}
	}
}

// writeNow writes msg before the write pump has started.
func writeNow(conn *websocket.Conn, msg message.Outbound) error {
	data, err := message.Encode(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// closeWith sends a final error message and closes the connection.
func closeWith(conn *websocket.Conn, msg *message.ErrorReply) {
	if err := writeNow(conn, msg); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		log.Printf("[WS] failed to send %s: %v", msg.Code, err)
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, msg.Code),
		time.Now().Add(writeWait))
	conn.Close()
}
