package core

// UploadedFile is a single uploaded material carried alongside a generation
// request. Data is the raw file content; no type validation is performed and
// binary payloads are digested best-effort further up the stack.
type UploadedFile struct {
	Name string
	Data []byte
}

// GenerationRequest carries everything needed to produce one lesson plan.
// It is assembled once by the HTTP boundary (or a caller embedding the
// library) and treated as immutable afterwards.
type GenerationRequest struct {
	// Topic is the lesson subject, e.g. "Photosynthesis".
	Topic string
	// GradeLevel is a free-form grade or age indicator, e.g. "5".
	GradeLevel string
	// Duration is the intended lesson length, e.g. "45 minutes".
	Duration string
	// Objectives holds optional learning objectives, newline separated.
	Objectives string
	// IncludeWebSearch exposes the generic web search capability to the
	// model for the duration of this request.
	IncludeWebSearch bool
	// ImageQuery overrides the default image lookup query derived from
	// Topic. Empty means "derive from topic".
	ImageQuery string
	// VideoReference is an optional video URL to weave into the plan.
	VideoReference string
	// Uploads are supplementary materials, in submission order.
	Uploads []UploadedFile
}
