package session

import (
	"errors"

	"mindstream/internal/catalog"
)

// ErrInvalidNavigation is returned when a descent names a label that
// does not exist as a child of the current node. The path is left
// unchanged; silently ignoring the request would hide client bugs.
var ErrInvalidNavigation = errors.New("no such category at current position")

// State is an immutable snapshot of one visitor's browsing position.
// Path is the category labels from the root (empty means root) and
// ActiveURL is the stream URL of the single record currently authorized
// to render a player, or empty when none is.
type State struct {
	Path      []string `json:"path"`
	ActiveURL string   `json:"activeUrl,omitempty"`
}

// NewState returns the root state with nothing active.
func NewState() State {
	return State{Path: []string{}}
}

// Descend pushes label onto the path when the current node has a child
// with that label, clearing the active record. Descending into an
// unknown label returns ErrInvalidNavigation and the receiver
// unchanged.
func (s State) Descend(root *catalog.CategoryNode, label string) (State, error) {
	node := catalog.NodeAt(root, s.Path)
	if !node.HasChild(label) {
		return s, ErrInvalidNavigation
	}

	path := make([]string, 0, len(s.Path)+1)
	path = append(path, s.Path...)
	path = append(path, label)
	return State{Path: path}, nil
}

// AscendOne pops the last path segment, or stays at the root. The
// active record is cleared either way: ascending is a context switch
// even when it lands on the same node.
func (s State) AscendOne() State {
	if len(s.Path) == 0 {
		return State{Path: []string{}}
	}
	path := make([]string, len(s.Path)-1)
	copy(path, s.Path[:len(s.Path)-1])
	return State{Path: path}
}

// ResetToRoot clears the path and the active record.
func (s State) ResetToRoot() State {
	return NewState()
}

// Activate marks url as the single active record, implicitly
// deactivating whatever was active before.
func (s State) Activate(url string) State {
	next := s.clone()
	next.ActiveURL = url
	return next
}

// Deactivate clears the active record without moving.
func (s State) Deactivate() State {
	next := s.clone()
	next.ActiveURL = ""
	return next
}

// IsActive reports whether url is the currently active record.
func (s State) IsActive(url string) bool {
	return url != "" && s.ActiveURL == url
}

// CurrentNode resolves the state's path against root. Stale paths
// resolve to an empty synthetic node, per catalog.NodeAt.
func (s State) CurrentNode(root *catalog.CategoryNode) *catalog.CategoryNode {
	return catalog.NodeAt(root, s.Path)
}

func (s State) clone() State {
	path := make([]string, len(s.Path))
	copy(path, s.Path)
	return State{Path: path, ActiveURL: s.ActiveURL}
}
