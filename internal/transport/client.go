package transport

import (
	"log"
	"time"

	"slideboard/internal/user"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one participant connection inside a meeting.
type Client struct {
	User      *user.User
	MeetingID string
	Color     string

	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn, u *user.User, meetingID string, sendBuffer int) *Client {
	return &Client{
		User:      u,
		MeetingID: meetingID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}
}

// writePump is the only writer on the connection once the client has
// joined. It exits when the send queue is closed.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[Meeting %s] write to user %s failed: %v", c.MeetingID, c.User.ID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
