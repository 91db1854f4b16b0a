package user

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

const goldenRatio = 0.618033988749895

// ColorGenerator hands out well separated participant colors for one
// meeting. A participant keeps its color for the life of the generator.
type ColorGenerator struct {
	counter  int
	assigned map[string]string
	mu       sync.Mutex
}

func NewColorGenerator() *ColorGenerator {
	return &ColorGenerator{assigned: make(map[string]string)}
}

// ColorFor returns userID's color, assigning the next one on first use.
func (cg *ColorGenerator) ColorFor(userID string) string {
	cg.mu.Lock()
	defer cg.mu.Unlock()

	if c, ok := cg.assigned[userID]; ok {
		return c
	}
	c := cg.next()
	cg.assigned[userID] = c
	return c
}

// next walks the hue circle by the golden ratio.
func (cg *ColorGenerator) next() string {
	hue := float64(cg.counter) * goldenRatio
	hue -= float64(int(hue))
	cg.counter++

	return colorful.Hsl(hue*360, 0.85, 0.55).Hex()
}
