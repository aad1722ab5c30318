// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Error types produced by the reader, scanner and parser.
// Scanner and parser errors carry the marked positions of the problem and
// its context; reader errors carry a raw byte offset into the input.

package yamlcore

import (
	"fmt"
	"strings"
)

// MarkedYAMLError represents an error with position information: an
// optional context (what the scanner/parser was looking for, and where)
// plus the problem itself (what went wrong, and where).
type MarkedYAMLError struct {
	// optional context
	ContextMark    Mark
	ContextMessage string

	Mark    Mark
	Message string
}

// Error returns the error message with position information.
func (e MarkedYAMLError) Error() string {
	var builder strings.Builder
	builder.WriteString("yaml: ")
	if len(e.ContextMessage) > 0 {
		fmt.Fprintf(&builder, "%s at %s: ", e.ContextMessage, e.ContextMark)
	}
	if len(e.ContextMessage) == 0 || e.ContextMark != e.Mark {
		fmt.Fprintf(&builder, "%s: ", e.Mark)
	}
	builder.WriteString(e.Message)
	return builder.String()
}

// ParserError represents an error that occurred while driving the token
// stream through the grammar: an expected-token mismatch, a duplicate
// directive, an undefined tag handle, or leftover parser state at end of
// stream.
type ParserError MarkedYAMLError

// Error returns the error message.
func (e ParserError) Error() string {
	return MarkedYAMLError(e).Error()
}

// ScannerError represents an error that occurred while tokenizing the code
// point stream: a malformed directive, an unterminated quoted scalar, a bad
// escape, an unknown tag handle, a simple-key overflow, or an indentation
// violation.
type ScannerError MarkedYAMLError

// Error returns the error message.
func (e ScannerError) Error() string {
	return MarkedYAMLError(e).Error()
}

// ReaderError represents a non-printable code point or an I/O failure on
// the underlying code point source.
type ReaderError struct {
	Name      string
	Offset    int
	CodePoint int
	Problem   string
	Err       error
}

// Error returns the error message with offset information.
func (e ReaderError) Error() string {
	prefix := "yaml: "
	if e.Name != "" {
		prefix += e.Name + ": "
	}
	if e.Err != nil {
		return fmt.Sprintf("%soffset %d: %s", prefix, e.Offset, e.Err)
	}
	return fmt.Sprintf("%soffset %d: %s (%#x)", prefix, e.Offset, e.Problem, e.CodePoint)
}

// Unwrap returns the underlying error, if any.
func (e ReaderError) Unwrap() error {
	return e.Err
}
