package annotation

// Kind is the shape of an annotation.
type Kind string

const (
	KindPencil    Kind = "pencil"
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindTriangle  Kind = "triangle"
	KindLine      Kind = "line"
	KindText      Kind = "text"
)

// Lifecycle statuses carried by annotation events. Clients may send
// other statuses; the commit policy only singles out these.
const (
	StatusDrawStart     = "DRAW_START"
	StatusDrawUpdate    = "DRAW_UPDATE"
	StatusDrawEnd       = "DRAW_END"
	StatusTextCreated   = "textCreated"
	StatusTextEdited    = "textEdited"
	StatusTextPublished = "textPublished"
)

var shapeKinds = map[Kind]bool{
	KindRectangle: true,
	KindEllipse:   true,
	KindTriangle:  true,
	KindLine:      true,
}

// IsShape reports whether k is a closed or straight shape that is only
// stored once its draw gesture ends.
func (k Kind) IsShape() bool {
	return shapeKinds[k]
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindPencil || k == KindText || shapeKinds[k]
}
