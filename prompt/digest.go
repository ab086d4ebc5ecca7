// Package prompt turns a generation request and its uploaded materials into
// the deterministic system / user instruction pair submitted to the model.
// Determinism matters: identical inputs must yield byte-identical prompts so
// generation behaviour is reproducible and testable.
package prompt

import (
	"strings"

	"github.com/lessonforge/lessonforge/core"
)

// MaxFileChars is the per-file character budget for digested uploads.
const MaxFileChars = 4000

// NoUploadContext is emitted when a request carries no uploaded materials.
const NoUploadContext = "No supplementary materials were provided."

// DigestUploads produces one textual context block from the uploaded files,
// in submission order. Each file is decoded as text best-effort (binary
// content yields degraded but harmless output, never an error) and truncated
// to MaxFileChars characters.
func DigestUploads(files []core.UploadedFile) string {
	if len(files) == 0 {
		return NoUploadContext
	}

	blocks := make([]string, 0, len(files))
	for _, f := range files {
		text := truncateChars(string(f.Data), MaxFileChars)
		blocks = append(blocks, "File: "+f.Name+"\n"+text)
	}
	return strings.Join(blocks, "\n\n")
}

// truncateChars limits s to max characters (runes, not bytes, so multi-byte
// text is never cut mid-character).
func truncateChars(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
