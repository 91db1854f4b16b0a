package annotation

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from the string values of annotation payloads
// before they are stored or relayed.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	// removes all HTML/scripts
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns a copy of a with markup removed from its id, status and
// data. The caller's map is left untouched.
func (s *Sanitizer) Sanitize(a Annotation) Annotation {
	a.ID = s.policy.Sanitize(a.ID)
	a.Status = s.policy.Sanitize(a.Status)
	if a.Data != nil {
		a.Data = s.sanitizeMap(a.Data)
	}
	return a
}

// sanitizeMap recursively sanitizes all string values in a map
func (s *Sanitizer) sanitizeMap(data map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(data))
	for key, value := range data {
		result[key] = s.sanitizeValue(value)
	}
	return result
}

func (s *Sanitizer) sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return s.policy.Sanitize(v)
	case map[string]interface{}:
		return s.sanitizeMap(v)
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = s.sanitizeValue(item)
		}
		return result
	default:
		// numbers, bools
		return value
	}
}
