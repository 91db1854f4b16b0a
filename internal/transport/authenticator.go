package transport

import (
	"fmt"
	"log"
	"time"

	"slideboard/internal/message"
	"slideboard/internal/user"

	"github.com/gorilla/websocket"
)

// Authenticator runs the first exchange on a new connection.
type Authenticator struct {
	sessionMgr *user.SessionManager
	parser     *message.Parser
}

func NewAuthenticator(sessionMgr *user.SessionManager, parser *message.Parser) *Authenticator {
	return &Authenticator{
		sessionMgr: sessionMgr,
		parser:     parser,
	}
}

// Authenticate waits up to timeout for an authenticate message. A known
// token resumes its session; anything else starts a new one.
func (a *Authenticator) Authenticate(conn *websocket.Conn, timeout time.Duration) (*user.UserSession, error) {
	conn.SetReadDeadline(time.Now().Add(timeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to receive auth message: %w", err)
	}
	conn.SetReadDeadline(time.Time{})

	session, resumed, err := a.authenticate(raw)
	if err != nil {
		return nil, err
	}

	if resumed {
		log.Printf("[Auth] returning user %s", session.UserID)
	} else {
		log.Printf("[Auth] new user %s", session.UserID)
	}
	return session, nil
}

func (a *Authenticator) authenticate(raw []byte) (*user.UserSession, bool, error) {
	req, err := a.parser.Parse(raw)
	if err != nil {
		return nil, false, fmt.Errorf("invalid auth message: %w", err)
	}

	auth, ok := req.(*message.Authenticate)
	if !ok {
		return nil, false, fmt.Errorf("expected %s message, got: %s", message.TypeAuthenticate, req.MessageType())
	}

	session, resumed := a.sessionMgr.Resume(auth.Token)
	return session, resumed, nil
}
