// Package database persists the small amount of server-side state the
// catalog browser keeps: favorite sessions and recent playback history.
// Browsing position and the active player are deliberately not stored
// here; they are session-local and die with the session.
package database
