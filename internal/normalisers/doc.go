// Package normalisers provides implementations of the DocumentProcessor
// interface. Each normaliser knows how to validate a format and extract
// text and metadata from it.
//
// PDF is currently the only supported upload format.
package normalisers
