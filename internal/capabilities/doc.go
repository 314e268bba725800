// Package capabilities provides a static registry of printer capability
// profiles.
//
// Profiles describe what a printer model can do: which codepages its
// ESC t tables expose, which column widths its fonts print, and which
// features (QR, cutter, buzzer) it supports. The data lives in an
// embedded YAML file; adding a printer model is an edit to
// profiles.yaml, not a code change.
//
// Printers that do not name a profile get the "default" profile, which
// lists the common codepages and assumes every feature is present.
package capabilities
