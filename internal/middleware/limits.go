package middleware

import (
	"fmt"
)

// Limits bounds what a single connection may send.
type Limits struct {
	MaxMessageSize int
	MaxDataDepth   int
	MaxDataKeys    int
}

func NewLimits(maxMessageSize, maxDataDepth, maxDataKeys int) *Limits {
	return &Limits{
		MaxMessageSize: maxMessageSize,
		MaxDataDepth:   maxDataDepth,
		MaxDataKeys:    maxDataKeys,
	}
}

// ValidateMessageSize reports whether a frame of msgSize bytes is accepted.
func (l *Limits) ValidateMessageSize(msgSize int) bool {
	return msgSize <= l.MaxMessageSize
}

// ValidateDataComplexity bounds the nesting depth and total key count of an
// annotation payload. Array lengths are not counted.
func (l *Limits) ValidateDataComplexity(data map[string]interface{}) error {
	if data == nil {
		return nil
	}
	depth, keys := measure(data, 1)

	if depth > l.MaxDataDepth {
		return fmt.Errorf("nested too deep: %d levels (max %d)", depth, l.MaxDataDepth)
	}
	if keys > l.MaxDataKeys {
		return fmt.Errorf("too complex: %d keys (max %d)", keys, l.MaxDataKeys)
	}
	return nil
}

// measure returns the deepest level reached below value and the number of
// map keys it holds.
func measure(value interface{}, depth int) (int, int) {
	maxDepth := depth
	keyCount := 0

	visit := func(child interface{}) {
		d, k := measure(child, depth+1)
		if d > maxDepth {
			maxDepth = d
		}
		keyCount += k
	}

	switch v := value.(type) {
	case map[string]interface{}:
		keyCount = len(v)
		for _, child := range v {
			visit(child)
		}
	case []interface{}:
		for _, child := range v {
			visit(child)
		}
	default:
		return depth - 1, 0
	}

	return maxDepth, keyCount
}
