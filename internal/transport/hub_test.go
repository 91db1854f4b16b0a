package transport

import (
	"encoding/json"
	"errors"
	"testing"

	"slideboard/internal/message"
	"slideboard/internal/user"
)

func testClient(meetingID, userID string, buffer int) *Client {
	return &Client{
		User:      &user.User{ID: userID},
		MeetingID: meetingID,
		send:      make(chan []byte, buffer),
	}
}

func readType(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatalf("send queue of %s closed", c.User.ID)
		}
		var head message.Header
		if err := json.Unmarshal(data, &head); err != nil {
			t.Fatalf("Failed to decode message: %v", err)
		}
		return head.Type
	default:
		t.Fatalf("Expected a queued message for %s", c.User.ID)
	}
	return ""
}

func closed(c *Client) bool {
	for {
		select {
		case _, ok := <-c.send:
			if !ok {
				return true
			}
		default:
			return false
		}
	}
}

func TestHubJoinAssignsStableColors(t *testing.T) {
	hub := NewHub(0)

	alice := testClient("m1", "alice", 4)
	bob := testClient("m1", "bob", 4)
	colorA, err := hub.Join(alice)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	colorB, _ := hub.Join(bob)
	if colorA == colorB {
		t.Errorf("Expected distinct colors, both got %s", colorA)
	}

	hub.Leave(alice)
	again := testClient("m1", "alice", 4)
	if color, _ := hub.Join(again); color != colorA {
		t.Errorf("Expected returning user to keep %s, got %s", colorA, color)
	}
	if n := hub.ClientCount("m1"); n != 2 {
		t.Errorf("Expected 2 clients, got %d", n)
	}
}

func TestHubBroadcastAndDirect(t *testing.T) {
	hub := NewHub(0)

	alice := testClient("m1", "alice", 4)
	aliceTab := testClient("m1", "alice", 4)
	bob := testClient("m1", "bob", 4)
	outsider := testClient("m2", "carol", 4)
	for _, c := range []*Client{alice, aliceTab, bob, outsider} {
		hub.Join(c)
	}

	hub.Broadcast("m1", message.NewClear())
	for _, c := range []*Client{alice, aliceTab, bob} {
		if got := readType(t, c); got != message.TypeClear {
			t.Errorf("Expected clear, got %s", got)
		}
	}
	if len(outsider.send) != 0 {
		t.Error("Broadcast leaked into another meeting")
	}

	hub.Direct("m1", "alice", message.NewUserIDReply("alice"))
	if readType(t, alice) != message.TypeUserID || readType(t, aliceTab) != message.TypeUserID {
		t.Error("Expected every connection of alice to get the reply")
	}
	if len(bob.send) != 0 {
		t.Error("Direct reached another user")
	}

	// unknown meetings are ignored
	hub.Broadcast("nope", message.NewClear())
	hub.Direct("nope", "alice", message.NewClear())
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(0)

	slow := testClient("m1", "slow", 1)
	fast := testClient("m1", "fast", 8)
	hub.Join(slow)
	hub.Join(fast)

	hub.Broadcast("m1", message.NewClear())
	hub.Broadcast("m1", message.NewUndo())

	if n := hub.ClientCount("m1"); n != 1 {
		t.Fatalf("Expected slow client dropped, %d clients remain", n)
	}
	if !closed(slow) {
		t.Error("Expected slow client's queue closed")
	}
	if readType(t, fast) != message.TypeClear || readType(t, fast) != message.TypeUndo {
		t.Error("Fast client should receive both messages in order")
	}

	// leaving after being dropped must not close twice
	hub.Leave(slow)
}

func TestHubMaxRoomSize(t *testing.T) {
	hub := NewHub(2)

	hub.Join(testClient("m1", "a", 1))
	hub.Join(testClient("m1", "b", 1))
	if _, err := hub.Join(testClient("m1", "c", 1)); !errors.Is(err, ErrMeetingFull) {
		t.Errorf("Expected ErrMeetingFull, got %v", err)
	}
	if _, err := hub.Join(testClient("m2", "c", 1)); err != nil {
		t.Errorf("Other meetings are unaffected: %v", err)
	}
}

func TestHubCloseMeeting(t *testing.T) {
	hub := NewHub(0)

	a := testClient("m1", "a", 1)
	b := testClient("m1", "b", 1)
	hub.Join(a)
	hub.Join(b)

	hub.CloseMeeting("m1")
	if !closed(a) || !closed(b) {
		t.Error("Expected every queue closed")
	}
	if n := hub.ClientCount("m1"); n != 0 {
		t.Errorf("Expected no clients, got %d", n)
	}

	hub.Leave(a)
	hub.CloseMeeting("m1")
	hub.Send(a, message.NewClear())
}
