package prompt

import (
	"strings"

	"github.com/lessonforge/lessonforge/core"
)

// systemInstruction frames the model's role and the expected output shape.
// It is static; per-request detail lives entirely in the user instruction.
const systemInstruction = `You are an experienced curriculum designer who writes complete, classroom-ready lesson plans.

Produce a structured lesson plan with these sections: Overview, Learning Objectives, Materials, Lesson Flow (warm-up, instruction, guided practice, independent practice), Assessment, and Differentiation.

When illustrative images would help, call the image_search capability with a concise query instead of describing imaginary pictures. Reference any supplied materials and video explicitly where they fit the lesson flow.`

// ResolveImageQuery returns the image lookup query for a request: the
// caller-supplied override when present, otherwise a template derived from
// the topic.
func ResolveImageQuery(req core.GenerationRequest) string {
	if req.ImageQuery != "" {
		return req.ImageQuery
	}
	return req.Topic + " classroom diagram"
}

// Build assembles the system and user instructions from the request, the
// digested upload context and the resolved image query. It is a pure
// function: identical inputs yield byte-identical output, always embedding
// the same sections in the same order.
func Build(req core.GenerationRequest, uploadDigest, imageQuery string) (system, user string) {
	var b strings.Builder

	b.WriteString("Create a complete lesson plan for the class described below.\n\n")

	b.WriteString("Topic: ")
	b.WriteString(req.Topic)
	b.WriteString("\nGrade level: ")
	b.WriteString(req.GradeLevel)
	b.WriteString("\nDuration: ")
	b.WriteString(req.Duration)
	b.WriteString("\nLearning objectives: ")
	if req.Objectives != "" {
		b.WriteString(req.Objectives)
	} else {
		b.WriteString("(derive appropriate objectives from the topic and grade level)")
	}

	b.WriteString("\n\nSupplementary materials:\n")
	b.WriteString(uploadDigest)

	b.WriteString("\n\nSuggested image search query: ")
	b.WriteString(imageQuery)

	if req.VideoReference != "" {
		b.WriteString("\n\nVideo to incorporate: ")
		b.WriteString(req.VideoReference)
	}

	return systemInstruction, b.String()
}
