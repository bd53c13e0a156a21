package catalog

// MediaType identifies how a session should be rendered.
type MediaType string

const (
	// MediaTypeAudio represents an audio-only session.
	MediaTypeAudio MediaType = "audio"
	// MediaTypeVideo represents a video session.
	MediaTypeVideo MediaType = "video"
)

// Valid reports whether t is a known media type.
func (t MediaType) Valid() bool {
	return t == MediaTypeAudio || t == MediaTypeVideo
}

// MediaRecord is one streamable session from the crawled catalog.
// Records are immutable after loading and are identified by StreamURL.
type MediaRecord struct {
	Title           string    `json:"title"`
	MediaType       MediaType `json:"mediaType"`
	StreamURL       string    `json:"streamUrl"`
	Section         string    `json:"section"`
	Pack            string    `json:"pack,omitempty"`
	PackDescription string    `json:"packDescription,omitempty"`
}

// CategoryPath returns the labels to follow from the tree root to the
// node that owns this record: the section, then the pack when present.
// The builder is depth-agnostic, so deeper paths would work unchanged.
func (r MediaRecord) CategoryPath() []string {
	path := []string{r.Section}
	if r.Pack != "" {
		path = append(path, r.Pack)
	}
	return path
}
