package tool

import (
	"github.com/lessonforge/lessonforge/core"
	"github.com/lessonforge/lessonforge/internal/schema"
)

// DefaultImageCount is the image_search result count used when the model
// omits or mangles the count argument.
const DefaultImageCount = 4

// Registry holds the ordered, immutable set of capability descriptors for
// one generation session. It is built once per request from configuration
// flags and never mutated afterwards, so it is safe to share.
type Registry struct {
	descriptors []Descriptor
	names       map[string]struct{}
}

// NewRegistry builds the capability set for a session: the generic web
// search capability first (only when enabled), then image search, which is
// always available.
func NewRegistry(includeWebSearch bool) *Registry {
	var descriptors []Descriptor

	if includeWebSearch {
		descriptors = append(descriptors, Descriptor{
			Name:        core.CapabilityWebSearch,
			Description: "Search the web for up-to-date information on a topic.",
			Parameters:  schema.FromStruct(WebSearchArgs{}),
		})
	}

	descriptors = append(descriptors, Descriptor{
		Name:        core.CapabilityImageSearch,
		Description: "Look up openly licensed images illustrating a concept. Returns image URLs with their source pages.",
		Parameters:  schema.FromStruct(ImageSearchArgs{}),
	})

	names := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		names[d.Name] = struct{}{}
	}
	return &Registry{descriptors: descriptors, names: names}
}

// Descriptors returns the capability descriptors in declaration order. The
// returned slice is a copy; callers may not mutate registry state.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Has reports whether a capability with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.names[name]
	return ok
}
