// Package tool declares the capabilities a generation session may expose to
// the model: their names, argument schemas and human descriptions, plus the
// lenient argument parsing that turns weakly-typed model output into typed
// argument sets without ever failing a session.
package tool

// Descriptor declaratively exposes one callable capability to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset).
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
