package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

const serviceKeyHeader = "X-Service-Key"

// MeetingRequest is the body of the meeting lifecycle hooks.
type MeetingRequest struct {
	MeetingID string `json:"meetingId" validate:"required,max=256"`
	Record    bool   `json:"record"`
}

// MeetingHandler exposes the meeting start/stop hooks called by the
// conferencing backend. Rooms exist exactly between start and stop.
type MeetingHandler struct {
	rooms      RoomRegistry
	closer     MeetingCloser
	sessions   SessionCounter
	recorder   ListenerFactory
	serviceKey string
	validate   *validator.Validate
}

// NewMeetingHandler builds the lifecycle endpoints. recorder may be nil
// when recording is disabled.
func NewMeetingHandler(rooms RoomRegistry, closer MeetingCloser, sessions SessionCounter, recorder ListenerFactory, serviceKey string) *MeetingHandler {
	return &MeetingHandler{
		rooms:      rooms,
		closer:     closer,
		sessions:   sessions,
		recorder:   recorder,
		serviceKey: serviceKey,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HandleStart: POST /api/meetings/start
func (h *MeetingHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	rm, created := h.rooms.AddRoom(req.MeetingID)

	// a repeated start keeps the room and its listeners
	recording := false
	if created && req.Record && h.recorder != nil {
		if err := rm.AddListener(h.recorder(req.MeetingID)); err != nil {
			log.Printf("[Meeting %s] failed to attach recorder: %v", req.MeetingID, err)
			errorResponse(w, http.StatusConflict, err.Error())
			return
		}
		recording = true
	}

	log.Printf("[Meeting %s] started (recording: %v)", req.MeetingID, recording)
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"meetingId": req.MeetingID,
		"recording": recording,
		"createdAt": rm.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// HandleStop: POST /api/meetings/stop
func (h *MeetingHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	h.rooms.RemoveRoom(req.MeetingID)
	h.closer.CloseMeeting(req.MeetingID)

	log.Printf("[Meeting %s] stopped", req.MeetingID)
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"meetingId": req.MeetingID,
		"stopped":   true,
	})
}

// HandleHealth: GET /health
func (h *MeetingHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"rooms":     h.rooms.RoomCount(),
		"sessions":  h.sessions.Count(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *MeetingHandler) decode(w http.ResponseWriter, r *http.Request) (*MeetingRequest, bool) {
	if r.Method != http.MethodPost {
		errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	if !h.authorized(r) {
		errorResponse(w, http.StatusUnauthorized, "invalid service key")
		return nil, false
	}

	var req MeetingRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if err := h.validate.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "meetingId is required")
		return nil, false
	}
	return &req, true
}

// authorized compares the service key in constant time. An unset key
// disables the hooks entirely.
func (h *MeetingHandler) authorized(r *http.Request) bool {
	if h.serviceKey == "" {
		return false
	}
	got := r.Header.Get(serviceKeyHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.serviceKey)) == 1
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, map[string]string{"error": msg})
}
