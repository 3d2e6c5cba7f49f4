// Package output renders command results for the gridboot CLI.
//
// Supported formats are json (default), yaml and text. The text format
// prints one "key<TAB>value" line per top-level field.
package output
