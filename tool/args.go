package tool

import (
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// ImageSearchArgs is the typed argument set for an image_search invocation.
// The struct tags double as the declared parameter schema.
type ImageSearchArgs struct {
	Query string `json:"query" description:"What the images should depict"`
	Count int    `json:"count,omitempty" description:"How many images to return (default 4)"`
}

// WebSearchArgs is the typed argument set for a web_search invocation.
type WebSearchArgs struct {
	Query string `json:"query" description:"Search query"`
}

// ParseImageSearchArgs extracts image_search arguments from a raw, possibly
// malformed payload. The model is untrusted input here: payloads can be
// truncated, non-JSON or carry wrongly typed fields. Extraction therefore
// goes through gjson (which never errors on garbage) with per-field
// fallbacks, so a broken payload degrades to the capability defaults
// instead of aborting the session.
func ParseImageSearchArgs(raw, defaultQuery string) ImageSearchArgs {
	args := ImageSearchArgs{Query: defaultQuery, Count: DefaultImageCount}

	if q := gjson.Get(raw, "query"); q.Exists() && q.String() != "" {
		args.Query = q.String()
	}
	if c := gjson.Get(raw, "count"); c.Exists() {
		if n := cast.ToInt(c.Value()); n > 0 {
			args.Count = n
		}
	}
	return args
}
