package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestValidateDataComplexity(t *testing.T) {
	l := NewLimits(1024, 3, 5)

	tests := []struct {
		name    string
		data    map[string]interface{}
		wantErr bool
	}{
		{"nil", nil, false},
		{"flat", map[string]interface{}{"x": 1.0, "y": 2.0}, false},
		{"points", map[string]interface{}{"points": []interface{}{[]interface{}{1.0, 2.0}, []interface{}{3.0, 4.0}}}, false},
		{"too deep", map[string]interface{}{"a": map[string]interface{}{"b": map[string]interface{}{"c": map[string]interface{}{"d": 1.0}}}}, true},
		{"too many keys", map[string]interface{}{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5, "f": 6}, true},
		{"nested keys counted", map[string]interface{}{"a": 1, "b": map[string]interface{}{"c": 1, "d": 2, "e": 3, "f": 4}}, true},
	}

	for _, tt := range tests {
		err := l.ValidateDataComplexity(tt.data)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: wantErr=%v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestArrayLengthNotCounted(t *testing.T) {
	l := NewLimits(1024, 3, 2)

	points := make([]interface{}, 5000)
	for i := range points {
		points[i] = float64(i)
	}
	if err := l.ValidateDataComplexity(map[string]interface{}{"points": points}); err != nil {
		t.Errorf("Expected long arrays to be accepted, got %v", err)
	}
}

func TestValidateMessageSize(t *testing.T) {
	l := NewLimits(100, 3, 5)
	if !l.ValidateMessageSize(100) {
		t.Error("Expected 100 bytes to be accepted")
	}
	if l.ValidateMessageSize(101) {
		t.Error("Expected 101 bytes to be rejected")
	}
}

func TestIPRateLimit(t *testing.T) {
	iprl := NewIPRateLimit(1, 3, time.Hour)

	for i := 0; i < 3; i++ {
		if !iprl.Allow("10.0.0.1") {
			t.Fatalf("Connection %d should be within burst", i+1)
		}
	}
	if iprl.Allow("10.0.0.1") {
		t.Error("Expected connection beyond burst to be rejected")
	}
	if !iprl.Allow("10.0.0.2") {
		t.Error("Other addresses must not share the limit")
	}
}

func TestIPRateLimitMiddleware(t *testing.T) {
	iprl := NewIPRateLimit(1, 1, time.Hour)
	h := iprl.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 2)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.RemoteAddr = "192.0.2.7:5000"
		rec := httptest.NewRecorder()
		h(rec, req)
		codes[i] = rec.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("Expected [200 429], got %v", codes)
	}
}

func TestIPRateLimitCleanup(t *testing.T) {
	iprl := NewIPRateLimit(10, 5, 0)
	for i := 0; i < 4; i++ {
		iprl.Allow(fmt.Sprintf("10.0.0.%d", i))
	}
	time.Sleep(time.Millisecond)
	iprl.Cleanup()
	if n := iprl.Tracked(); n != 0 {
		t.Errorf("Expected idle limiters to be removed, %d left", n)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	if got := ClientIP(req); got != "2001:db8::1" {
		t.Errorf("Expected 2001:db8::1, got %s", got)
	}
}
