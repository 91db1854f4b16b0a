package room

import "slideboard/internal/annotation"

// Outcome is what committing an annotation did to page history.
type Outcome int

const (
	// OutcomeRelayed left history untouched.
	OutcomeRelayed Outcome = iota
	// OutcomeAppended stored a new entry at the end of history.
	OutcomeAppended
	// OutcomeReplaced overwrote the stored entry with the same id.
	OutcomeReplaced
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAppended:
		return "appended"
	case OutcomeReplaced:
		return "replaced"
	default:
		return "relayed"
	}
}

// Page is the ordered annotation history of one slide. Insertion order is
// display order. Pages are guarded by their room's lock.
type Page struct {
	Number  int
	history []annotation.Annotation
	ids     map[string]struct{}
}

func newPage(number int) *Page {
	return &Page{
		Number: number,
		ids:    make(map[string]struct{}),
	}
}

// add stores a as a new entry. An entry already stored under the same id
// is replaced in place so history never holds two entries for one id.
func (p *Page) add(a annotation.Annotation) Outcome {
	if p.replace(a) {
		return OutcomeReplaced
	}
	p.history = append(p.history, a)
	p.ids[a.ID] = struct{}{}
	return OutcomeAppended
}

// replace overwrites the stored entry with a's id, keeping its position.
func (p *Page) replace(a annotation.Annotation) bool {
	if _, ok := p.ids[a.ID]; !ok {
		return false
	}
	for i := range p.history {
		if p.history[i].ID == a.ID {
			p.history[i] = a
			return true
		}
	}
	return false
}

// undo removes the most recently stored entry.
func (p *Page) undo() (annotation.Annotation, bool) {
	n := len(p.history)
	if n == 0 {
		return annotation.Annotation{}, false
	}
	last := p.history[n-1]
	p.history[n-1] = annotation.Annotation{}
	p.history = p.history[:n-1]
	delete(p.ids, last.ID)
	return last, true
}

func (p *Page) clear() {
	p.history = nil
	p.ids = make(map[string]struct{})
}

// NumAnnotations returns the stored history length.
func (p *Page) NumAnnotations() int {
	return len(p.history)
}

// Annotations returns a copy of the history in insertion order.
func (p *Page) Annotations() []annotation.Annotation {
	out := make([]annotation.Annotation, len(p.history))
	copy(out, p.history)
	return out
}
