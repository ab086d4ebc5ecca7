package core

import "github.com/google/uuid"

// Capability names understood by the orchestrator. The model addresses
// capabilities by these names in its function call requests.
const (
	CapabilityImageSearch = "image_search"
	CapabilityWebSearch   = "web_search"
)

// Invocation is a single capability execution request surfaced by the model
// mid-generation. Concrete variants implement the unexported isInvocation
// marker, forming a closed set: the two known capabilities plus Unknown.
// This makes the "unrecognized capability" path an explicit branch at every
// dispatch site rather than an implicit string-compare fallthrough.
type Invocation interface {
	isInvocation()

	// CallID returns the provider-assigned call identifier. May be empty
	// when the provider does not issue one.
	CallID() string

	// Capability returns the capability name the model addressed.
	Capability() string

	// Arguments returns the raw argument payload exactly as the model
	// produced it. It is weakly typed and possibly malformed; consumers
	// must tolerate garbage here without failing the session.
	Arguments() string
}

// ImageSearchInvocation requests an image lookup.
type ImageSearchInvocation struct {
	ID      string
	RawArgs string
}

func (ImageSearchInvocation) isInvocation() {}

// CallID implements Invocation.
func (i ImageSearchInvocation) CallID() string { return i.ID }

// Capability implements Invocation.
func (ImageSearchInvocation) Capability() string { return CapabilityImageSearch }

// Arguments implements Invocation.
func (i ImageSearchInvocation) Arguments() string { return i.RawArgs }

// WebSearchInvocation requests a generic web search. The capability is
// declared to the model when enabled, but search execution happens inside
// the model backend; a client-side invocation of it has no executor and is
// dropped by the session.
type WebSearchInvocation struct {
	ID      string
	RawArgs string
}

func (WebSearchInvocation) isInvocation() {}

// CallID implements Invocation.
func (i WebSearchInvocation) CallID() string { return i.ID }

// Capability implements Invocation.
func (WebSearchInvocation) Capability() string { return CapabilityWebSearch }

// Arguments implements Invocation.
func (i WebSearchInvocation) Arguments() string { return i.RawArgs }

// UnknownInvocation is any invocation whose capability name is not part of
// the registry. The session drops these without producing a result.
type UnknownInvocation struct {
	ID      string
	Name    string
	RawArgs string
}

func (UnknownInvocation) isInvocation() {}

// CallID implements Invocation.
func (i UnknownInvocation) CallID() string { return i.ID }

// Capability implements Invocation.
func (i UnknownInvocation) Capability() string { return i.Name }

// Arguments implements Invocation.
func (i UnknownInvocation) Arguments() string { return i.RawArgs }

// ParseInvocation classifies a raw provider function call into the
// invocation union. Arguments are carried through untouched; parsing them
// is deferred to execution time where capability defaults are available.
func ParseInvocation(id, name, rawArgs string) Invocation {
	switch name {
	case CapabilityImageSearch:
		return ImageSearchInvocation{ID: id, RawArgs: rawArgs}
	case CapabilityWebSearch:
		return WebSearchInvocation{ID: id, RawArgs: rawArgs}
	default:
		return UnknownInvocation{ID: id, Name: name, RawArgs: rawArgs}
	}
}

// InvocationResult is the outcome of exactly one executed invocation, fed
// back to the model on the next round.
type InvocationResult struct {
	ID         string         `json:"id,omitempty"`
	Capability string         `json:"capability"`
	Payload    map[string]any `json:"payload"`
}

// ImageResult is one normalized hit from the media search API. All three
// fields are always populated; entries without an image asset are filtered
// out before mapping.
type ImageResult struct {
	Title         string `json:"title"`
	ImageURL      string `json:"image_url"`
	SourcePageURL string `json:"source_page_url"`
}

// Citation is an opaque citation fragment attached to generated content,
// typically sourced from the model backend's grounding metadata.
type Citation struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri"`
}

// NewID generates a unique identifier for lesson records and internal
// correlation.
func NewID() string { return uuid.NewString() }
