// Package report renders recorded loop incidents for people and tools.
//
// Three writers cover the output formats of the history command:
//   - SimpleWriter: human-readable text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for sharing and docs
//
// Design decision: Writers are separate from the data structures in the
// model package, so new formats can be added without touching the incident
// model. All writers implement the Writer interface and can be used
// interchangeably by the cmd layer.
package report
