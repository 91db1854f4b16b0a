package user

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SessionManager maps resume tokens to participant sessions.
type SessionManager struct {
	sessions      map[string]*UserSession // userID -> session
	tokenToUserID map[string]string       // token -> userID
	perSecond     rate.Limit
	burst         int
	ttl           time.Duration
	mu            sync.RWMutex
}

// NewSessionManager creates sessions limited to messagesPerSecond with the
// given burst. Sessions idle for longer than ttl are dropped by Cleanup.
func NewSessionManager(messagesPerSecond float64, burst int, ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions:      make(map[string]*UserSession),
		tokenToUserID: make(map[string]string),
		perSecond:     rate.Limit(messagesPerSecond),
		burst:         burst,
		ttl:           ttl,
	}
}

// Resume returns the session for token, or a new session with a fresh user
// id and token if token is empty or unknown. The bool reports whether an
// existing session was resumed.
func (sm *SessionManager) Resume(token string) (*UserSession, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if token != "" {
		if userID, ok := sm.tokenToUserID[token]; ok {
			if session, ok := sm.sessions[userID]; ok {
				session.LastSeen = time.Now()
				return session, true
			}
		}
	}

	session := &UserSession{
		UserID:       GenerateUUID(),
		SessionToken: GenerateSessionToken(),
		LastSeen:     time.Now(),
		RateLimiter:  rate.NewLimiter(sm.perSecond, sm.burst),
	}
	sm.sessions[session.UserID] = session
	sm.tokenToUserID[session.SessionToken] = session.UserID
	return session, false
}

// Touch records activity for userID, optionally in a meeting.
func (sm *SessionManager) Touch(userID, meetingID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if session, exists := sm.sessions[userID]; exists {
		session.LastSeen = time.Now()
		if meetingID != "" {
			session.LastMeeting = meetingID
		}
	}
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Cleanup removes expired sessions
func (sm *SessionManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for userID, session := range sm.sessions {
		if now.Sub(session.LastSeen) > sm.ttl {
			delete(sm.tokenToUserID, session.SessionToken)
			delete(sm.sessions, userID)
		}
	}
}
