package room

import (
	"fmt"

	"slideboard/internal/annotation"
	"slideboard/internal/message"
)

// AnnotationHistory returns a copy of the stored history of one page, in
// insertion order.
func (r *Room) AnnotationHistory(presentationID string, pageNumber int) ([]annotation.Annotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, err := r.lookupPage(presentationID, pageNumber)
	if err != nil {
		return nil, err
	}
	return page.Annotations(), nil
}

// SendAnnotationHistory replays one page's history to a single participant,
// typically a late joiner.
func (r *Room) SendAnnotationHistory(requesterID, presentationID string, pageNumber int) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, err := r.lookupPage(presentationID, pageNumber)
	if err != nil {
		return err
	}

	r.broadcaster.Direct(r.MeetingID, requesterID,
		message.NewAnnotationHistory(presentationID, pageNumber, page.Annotations()))
	return nil
}

// lookupPage resolves a page of any presentation. Callers hold mu.
func (r *Room) lookupPage(presentationID string, pageNumber int) (*Page, error) {
	if r.closed {
		return nil, r.errClosed()
	}
	pres, ok := r.presentations[presentationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s in meeting %s", ErrPresentationNotFound, presentationID, r.MeetingID)
	}
	return pres.Page(pageNumber)
}
