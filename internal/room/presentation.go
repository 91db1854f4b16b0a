package room

import "fmt"

// Presentation holds the pages of one slide deck and the active page.
type Presentation struct {
	ID         string
	pages      map[int]*Page
	pageCount  int
	activePage int
}

func newPresentation(id string, pageCount int) *Presentation {
	p := &Presentation{
		ID:         id,
		pages:      make(map[int]*Page, pageCount),
		pageCount:  pageCount,
		activePage: 1,
	}
	for n := 1; n <= pageCount; n++ {
		p.pages[n] = newPage(n)
	}
	return p
}

func (p *Presentation) PageCount() int {
	return p.pageCount
}

func (p *Presentation) ActivePageNumber() int {
	return p.activePage
}

// Page returns page n, or ErrPageNotFound if n is outside [1, PageCount].
func (p *Presentation) Page(n int) (*Page, error) {
	page, ok := p.pages[n]
	if !ok {
		return nil, fmt.Errorf("%w: page %d of presentation %s (1-%d)", ErrPageNotFound, n, p.ID, p.pageCount)
	}
	return page, nil
}

func (p *Presentation) activePageRef() *Page {
	return p.pages[p.activePage]
}

func (p *Presentation) setActivePage(n int) (*Page, error) {
	page, err := p.Page(n)
	if err != nil {
		return nil, err
	}
	p.activePage = n
	return page, nil
}
