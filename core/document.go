// Package core holds the row representation shared by the table engine, the
// default comparators and the data sources.
package core

// Document is a single schemaless row keyed by column name. It is the row
// type produced by the sqlite source and the one most callers use with the
// table engine.
type Document map[string]any

// Fielder is implemented by row types that can enumerate their own fields.
// Global search and key-based filters use it instead of reflection.
type Fielder interface {
	Fields() map[string]any
}

// Fields returns the document itself.
func (d Document) Fields() map[string]any {
	return d
}

// Get returns the value stored under key, or nil.
func (d Document) Get(key string) any {
	return d[key]
}
