package annotation

// Decision is the effect a submitted annotation has on page history.
type Decision int

const (
	// Relay broadcasts the event without touching history.
	Relay Decision = iota
	// Append stores the annotation as a new history entry.
	Append
	// Modify replaces the payload of the stored entry with the same id.
	Modify
)

func (d Decision) String() string {
	switch d {
	case Append:
		return "append"
	case Modify:
		return "modify"
	default:
		return "relay"
	}
}

// Decide applies the commit policy to a.
//
//	text      + textCreated -> Append
//	pencil    + DRAW_START  -> Append
//	shape     + DRAW_END    -> Append
//	text      + other       -> Modify
//	otherwise               -> Relay
func Decide(a Annotation) Decision {
	switch {
	case a.Kind == KindText && a.Status == StatusTextCreated:
		return Append
	case a.Kind == KindPencil && a.Status == StatusDrawStart:
		return Append
	case a.Kind.IsShape() && a.Status == StatusDrawEnd:
		return Append
	case a.Kind == KindText:
		return Modify
	default:
		return Relay
	}
}
