package user

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// UserSession outlives a single connection so a client can reconnect with
// its token and keep its identity.
type UserSession struct {
	UserID       string
	SessionToken string
	LastMeeting  string
	LastSeen     time.Time
	RateLimiter  *rate.Limiter
}

// User is an authenticated participant on one connection.
type User struct {
	ID      string
	Session *UserSession
}

// Allow reports whether the user may send another message now. Users
// without a session are not limited.
func (u *User) Allow() bool {
	if u.Session == nil || u.Session.RateLimiter == nil {
		return true
	}
	return u.Session.RateLimiter.Allow()
}

// GenerateUUID returns a new participant id.
func GenerateUUID() string {
	return uuid.NewString()
}

// GenerateSessionToken returns a new opaque resume token.
func GenerateSessionToken() string {
	return uuid.NewString()
}
