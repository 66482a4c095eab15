// Package modsdump dumps every mod listed in the paginated catalog of a
// mod-sharing website to a local directory. It crawls the catalog until no
// new items appear, resolves each item's downloadable files and fetches
// them concurrently, writing each file name at most once per run.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, yaml/).
package modsdump

// LogFunc receives human-readable transcript lines during a run.
// Download workers call it concurrently.
type LogFunc func(format string, args ...any)

// Discard is a LogFunc that drops every line.
func Discard(string, ...any) {}
