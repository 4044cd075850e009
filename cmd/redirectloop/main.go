// Package main provides the entry point for the redirectloop CLI.
//
// redirectloop detects HTTP redirect loops as they happen: a redirect whose
// target resolves to the URL of the request that issued it is diagnosed
// down to the file and line of the call site, logged, and recorded for
// later inspection.
//
// Usage:
//
//	redirectloop serve
//	redirectloop history --json
//
// See --help for all available options.
package main

// main is the entry point for redirectloop.
func main() {
	Execute()
}
