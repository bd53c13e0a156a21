// Package session tracks per-visitor browsing state: the current
// position in the category tree, the single media record authorized to
// play, and the engine-level phase of every player the visitor has
// touched.
//
// Navigation state is an immutable snapshot; transition methods return
// a new State so callers can test transitions without a running
// server. Session wraps a State together with a PlayerRegistry behind
// one mutex, and Store keeps sessions by ID with idle expiry.
package session
