// Package webclip provides a clip-to-document-store pipeline: it captures
// content from rendered web pages (a selection, the full page, the bare URL,
// or a rasterized PDF), sanitizes it, and appends it to a remote document
// management API over HTTPS.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package webclip
