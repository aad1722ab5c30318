// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlcore

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkedYAMLErrorNoContext(t *testing.T) {
	err := MarkedYAMLError{
		Mark:    Mark{Index: 10, Line: 2, Column: 2},
		Message: "found unexpected end of stream",
	}
	assert.Equal(t, "yaml: line 2, column 3: found unexpected end of stream", err.Error())
}

func TestMarkedYAMLErrorWithContext(t *testing.T) {
	err := MarkedYAMLError{
		ContextMark:    Mark{Line: 1, Column: 0},
		ContextMessage: "while parsing a block mapping",
		Mark:           Mark{Line: 2, Column: 0},
		Message:        "did not find expected key",
	}
	assert.Equal(t,
		"yaml: while parsing a block mapping at line 1: line 2: did not find expected key",
		err.Error())
}

func TestMarkedYAMLErrorContextSameAsMark(t *testing.T) {
	mark := Mark{Index: 3, Line: 4, Column: 3}
	err := MarkedYAMLError{
		ContextMark:    mark,
		ContextMessage: "while scanning a simple key",
		Mark:           mark,
		Message:        "could not find expected ':'",
	}
	assert.Equal(t,
		"yaml: while scanning a simple key at line 4, column 4: could not find expected ':'",
		err.Error())
}

func TestMarkStringUnknownPosition(t *testing.T) {
	assert.Equal(t, "<unknown position>", Mark{}.String())
}

func TestParserErrorIsMarkedYAMLError(t *testing.T) {
	err := ParserError{Message: "did not find expected <document start>", Mark: Mark{Line: 2}}
	assert.Equal(t, MarkedYAMLError(err).Error(), err.Error())
}

func TestScannerErrorIsMarkedYAMLError(t *testing.T) {
	err := ScannerError{Message: "found character that cannot start any token", Mark: Mark{Line: 4}}
	assert.Equal(t, MarkedYAMLError(err).Error(), err.Error())
}

func TestReaderErrorWithProblem(t *testing.T) {
	err := ReaderError{Name: "input", Offset: 12, CodePoint: 0x07, Problem: "control characters are not allowed"}
	assert.Equal(t, "yaml: input: offset 12: control characters are not allowed (0x7)", err.Error())
}

func TestReaderErrorWrapped(t *testing.T) {
	wrapped := errors.New("disk exploded")
	err := ReaderError{Name: "input", Offset: 3, Err: wrapped}
	assert.Equal(t, "yaml: input: offset 3: disk exploded", err.Error())
	assert.ErrorIs(t, err, wrapped)
}

func TestReaderErrorUnwrapNilWhenNoWrappedErr(t *testing.T) {
	err := ReaderError{Problem: "bad"}
	assert.Nil(t, err.Unwrap())
	assert.False(t, errors.Is(err, io.EOF))
}

func TestErrorTypeString(t *testing.T) {
	cases := []struct {
		in   ErrorType
		want string
	}{
		{NO_ERROR, "no error"},
		{READER_ERROR, "reader error"},
		{SCANNER_ERROR, "scanner error"},
		{PARSER_ERROR, "parser error"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.in.String())
	}
}
