package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// rawRecord mirrors the loosely-typed JSON entries emitted by the
// crawler. Both the session_title and title spellings occur in the wild.
type rawRecord struct {
	SessionTitle    string `json:"session_title"`
	Title           string `json:"title"`
	MediaType       string `json:"media_type"`
	CDNURL          string `json:"cdn_url"`
	Section         string `json:"section"`
	Pack            string `json:"pack"`
	PackDescription string `json:"pack_description"`
}

// DroppedRecord describes one raw entry that failed validation.
type DroppedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// LoadResult holds the validated records plus every entry that was
// skipped. A partially malformed document still yields all usable
// records; nothing short of unparseable JSON aborts the load.
type LoadResult struct {
	Records []MediaRecord
	Dropped []DroppedRecord
}

// Load parses a catalog document. Two shapes are accepted: a flat array
// of records (all_media.json) and a mapping from section name to record
// list (media_by_section.json). For the mapped shape, sections are
// processed in sorted key order so loads are deterministic; entries
// missing an explicit section inherit the map key.
func Load(r io.Reader) (LoadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read catalog document: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return LoadResult{}, fmt.Errorf("catalog document is empty")
	}

	var flat []rawRecord
	if err := json.Unmarshal(data, &flat); err == nil {
		return validateAll(flat), nil
	}

	var bySection map[string][]rawRecord
	if err := json.Unmarshal(data, &bySection); err != nil {
		return LoadResult{}, fmt.Errorf("catalog document is neither a record array nor a section mapping: %w", err)
	}

	sections := make([]string, 0, len(bySection))
	for name := range bySection {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	var all []rawRecord
	for _, name := range sections {
		for _, raw := range bySection[name] {
			if raw.Section == "" {
				raw.Section = name
			}
			all = append(all, raw)
		}
	}
	return validateAll(all), nil
}

func validateAll(raws []rawRecord) LoadResult {
	result := LoadResult{}
	for i, raw := range raws {
		rec, reason := validate(raw)
		if reason != "" {
			result.Dropped = append(result.Dropped, DroppedRecord{Index: i, Reason: reason})
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result
}

// validate converts one raw entry to a MediaRecord, or returns the
// reason it must be dropped.
func validate(raw rawRecord) (MediaRecord, string) {
	title := strings.TrimSpace(raw.SessionTitle)
	if title == "" {
		title = strings.TrimSpace(raw.Title)
	}
	if title == "" {
		return MediaRecord{}, "missing session title"
	}

	if strings.TrimSpace(raw.CDNURL) == "" {
		return MediaRecord{}, "missing cdn_url"
	}

	if strings.TrimSpace(raw.Section) == "" {
		return MediaRecord{}, "missing section"
	}

	mediaType := MediaType(strings.ToLower(strings.TrimSpace(raw.MediaType)))
	if !mediaType.Valid() {
		return MediaRecord{}, fmt.Sprintf("unknown media_type %q", raw.MediaType)
	}

	return MediaRecord{
		Title:           title,
		MediaType:       mediaType,
		StreamURL:       strings.TrimSpace(raw.CDNURL),
		Section:         strings.TrimSpace(raw.Section),
		Pack:            strings.TrimSpace(raw.Pack),
		PackDescription: strings.TrimSpace(raw.PackDescription),
	}, ""
}
