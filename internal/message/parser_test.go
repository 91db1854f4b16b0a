package message

import (
	"encoding/json"
	"errors"
	"testing"

	"slideboard/internal/annotation"
)

func TestParseSendAnnotation(t *testing.T) {
	p := NewParser()

	raw := []byte(`{"type":"sendAnnotation","annotation":{"id":"s1","type":"pencil","status":"DRAW_START","data":{"points":[1,2,3,4]}}}`)
	req, err := p.Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	send, ok := req.(*SendAnnotation)
	if !ok {
		t.Fatalf("Expected *SendAnnotation, got %T", req)
	}
	if send.Annotation.ID != "s1" || send.Annotation.Kind != annotation.KindPencil {
		t.Errorf("Unexpected annotation: %+v", send.Annotation)
	}
	if send.MessageType() != TypeSendAnnotation {
		t.Errorf("Expected type %s, got %s", TypeSendAnnotation, send.MessageType())
	}
}

func TestParseEveryType(t *testing.T) {
	p := NewParser()

	frames := map[string]string{
		TypeAuthenticate:             `{"type":"authenticate","token":"abc"}`,
		TypeGetUserID:                `{"type":"getUserId"}`,
		TypeSetActivePage:            `{"type":"setActivePage","pageNum":2}`,
		TypeRequestAnnotationHistory: `{"type":"requestAnnotationHistory","presentationID":"p","pageNumber":1}`,
		TypeClear:                    `{"type":"clear"}`,
		TypeUndo:                     `{"type":"undo"}`,
		TypeSetActivePresentation:    `{"type":"setActivePresentation","presentationID":"p","numberOfSlides":5}`,
		TypeEnableWhiteboard:         `{"type":"enableWhiteboard","enabled":false}`,
		TypeIsWhiteboardEnabled:      `{"type":"isWhiteboardEnabled"}`,
		TypeToggleGrid:               `{"type":"toggleGrid"}`,
	}

	for typ, frame := range frames {
		req, err := p.Parse([]byte(frame))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", typ, err)
			continue
		}
		if req.MessageType() != typ {
			t.Errorf("%s: got type %s", typ, req.MessageType())
		}
	}
}

func TestParseEnableWhiteboardFalse(t *testing.T) {
	p := NewParser()

	req, err := p.Parse([]byte(`{"type":"enableWhiteboard","enabled":false}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	enable := req.(*EnableWhiteboard)
	if enable.Enabled == nil || *enable.Enabled {
		t.Errorf("Expected enabled=false, got %v", enable.Enabled)
	}
}

func TestParseRejects(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name  string
		frame string
		field string
	}{
		{"unknown type", `{"type":"drawCircle"}`, "type"},
		{"missing type", `{"pageNum":1}`, "type"},
		{"malformed", `{"type":`, ""},
		{"unknown field", `{"type":"undo","extra":1}`, "extra"},
		{"missing page", `{"type":"setActivePage"}`, "pageNum"},
		{"missing page number", `{"type":"requestAnnotationHistory","presentationID":"p"}`, "pageNumber"},
		{"wrong field type", `{"type":"setActivePage","pageNum":"two"}`, "pageNum"},
		{"missing enabled", `{"type":"enableWhiteboard"}`, "enabled"},
		{"zero slides", `{"type":"setActivePresentation","presentationID":"p","numberOfSlides":0}`, "numberOfSlides"},
		{"missing presentation", `{"type":"requestAnnotationHistory","pageNumber":1}`, "presentationID"},
		{"unknown kind", `{"type":"sendAnnotation","annotation":{"id":"a","type":"circle","status":"DRAW_END"}}`, "annotation.type"},
		{"missing id", `{"type":"sendAnnotation","annotation":{"type":"line","status":"DRAW_END"}}`, "annotation.id"},
		{"unknown annotation field", `{"type":"sendAnnotation","annotation":{"id":"a","type":"line","status":"DRAW_END","z":1}}`, "z"},
	}

	for _, tt := range tests {
		_, err := p.Parse([]byte(tt.frame))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %T: %v", tt.name, err, err)
			continue
		}
		if tt.field != "" && ve.Field != tt.field {
			t.Errorf("%s: expected field %q, got %q (%v)", tt.name, tt.field, ve.Field, err)
		}
	}
}

func TestEncodeOutbound(t *testing.T) {
	data, err := Encode(NewPageChanged(3, 7))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got["type"] != TypePageChanged || got["pageNum"] != 3.0 || got["numAnnotations"] != 7.0 {
		t.Errorf("Unexpected encoding: %s", data)
	}

	data, _ = Encode(NewAnnotationHistory("p", 1, nil))
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if anns, ok := got["annotations"].([]interface{}); !ok || len(anns) != 0 {
		t.Errorf("Expected empty annotations array, got %s", data)
	}
}

func TestParseLeavesPageBoundsToRoom(t *testing.T) {
	p := NewParser()

	for _, frame := range []string{
		`{"type":"setActivePage","pageNum":0}`,
		`{"type":"setActivePage","pageNum":-1}`,
		`{"type":"requestAnnotationHistory","presentationID":"p","pageNumber":0}`,
	} {
		if _, err := p.Parse([]byte(frame)); err != nil {
			t.Errorf("%s: unexpected error: %v", frame, err)
		}
	}

	req, _ := p.Parse([]byte(`{"type":"setActivePage","pageNum":0}`))
	if page := req.(*SetActivePage).PageNum; page == nil || *page != 0 {
		t.Errorf("Expected explicit page 0, got %v", page)
	}
}
