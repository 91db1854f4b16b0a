package message

import "slideboard/internal/annotation"

// Inbound request types.
const (
	TypeAuthenticate             = "authenticate"
	TypeGetUserID                = "getUserId"
	TypeSendAnnotation           = "sendAnnotation"
	TypeSetActivePage            = "setActivePage"
	TypeRequestAnnotationHistory = "requestAnnotationHistory"
	TypeClear                    = "clear"
	TypeUndo                     = "undo"
	TypeSetActivePresentation    = "setActivePresentation"
	TypeEnableWhiteboard         = "enableWhiteboard"
	TypeIsWhiteboardEnabled      = "isWhiteboardEnabled"
	TypeToggleGrid               = "toggleGrid"
)

// Header carries the discriminator shared by every message.
type Header struct {
	Type string `json:"type" validate:"required"`
}

func (h Header) MessageType() string { return h.Type }

// Inbound is a validated client request.
type Inbound interface {
	MessageType() string
}

type Authenticate struct {
	Header
	Token string `json:"token,omitempty" validate:"omitempty,max=256"`
}

type GetUserID struct {
	Header
}

type SendAnnotation struct {
	Header
	Annotation annotation.Annotation `json:"annotation" validate:"required"`
}

type SetActivePage struct {
	Header
	PageNum *int `json:"pageNum" validate:"required"`
}

type RequestAnnotationHistory struct {
	Header
	PresentationID string `json:"presentationID" validate:"required,max=256"`
	PageNumber     *int   `json:"pageNumber" validate:"required"`
}

type ClearRequest struct {
	Header
}

type UndoRequest struct {
	Header
}

type SetActivePresentation struct {
	Header
	PresentationID string `json:"presentationID" validate:"required,max=256"`
	NumberOfSlides int    `json:"numberOfSlides" validate:"required,min=1,max=10000"`
}

type EnableWhiteboard struct {
	Header
	Enabled *bool `json:"enabled" validate:"required"`
}

type IsWhiteboardEnabled struct {
	Header
}

// ToggleGrid is accepted and ignored. Grid display is a client concern.
type ToggleGrid struct {
	Header
}

var inboundTypes = map[string]func() Inbound{
	TypeAuthenticate:             func() Inbound { return &Authenticate{} },
	TypeGetUserID:                func() Inbound { return &GetUserID{} },
	TypeSendAnnotation:           func() Inbound { return &SendAnnotation{} },
	TypeSetActivePage:            func() Inbound { return &SetActivePage{} },
	TypeRequestAnnotationHistory: func() Inbound { return &RequestAnnotationHistory{} },
	TypeClear:                    func() Inbound { return &ClearRequest{} },
	TypeUndo:                     func() Inbound { return &UndoRequest{} },
	TypeSetActivePresentation:    func() Inbound { return &SetActivePresentation{} },
	TypeEnableWhiteboard:         func() Inbound { return &EnableWhiteboard{} },
	TypeIsWhiteboardEnabled:      func() Inbound { return &IsWhiteboardEnabled{} },
	TypeToggleGrid:               func() Inbound { return &ToggleGrid{} },
}
