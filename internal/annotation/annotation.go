package annotation

// Annotation is a single drawing operation on a presentation page.
// Data is opaque to the server apart from sanitization and is never
// mutated once the annotation has been committed to a page.
type Annotation struct {
	ID     string                 `json:"id" validate:"required,max=128"`
	Kind   Kind                   `json:"type" validate:"required,oneof=pencil rectangle ellipse triangle line text"`
	Status string                 `json:"status" validate:"required,max=64"`
	Data   map[string]interface{} `json:"data,omitempty"`
	Owner  string                 `json:"owner,omitempty"`
}

