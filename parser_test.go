// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlcore

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, src string) []Event {
	t.Helper()
	parser := NewParser()
	parser.SetInputString([]byte(src))
	var events []Event
	for {
		var ev Event
		err := parser.Parse(&ev)
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		events = append(events, ev)
		if len(events) > 1000 {
			t.Fatalf("parser did not terminate for %q", src)
		}
	}
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}

func TestParseEmptyStream(t *testing.T) {
	events := parseAll(t, "")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
}

func TestParseScalarDocument(t *testing.T) {
	events := parseAll(t, "hello\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		SCALAR_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, "hello", string(events[2].Value))
	require.True(t, events[1].Implicit)
	require.True(t, events[3].Implicit)
}

func TestParseBlockMapping(t *testing.T) {
	events := parseAll(t, "a: 1\nb: 2\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		MAPPING_START_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		MAPPING_END_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, MappingStyle(BLOCK_MAPPING_STYLE), events[2].MappingStyle())
	require.Equal(t, "a", string(events[3].Value))
	require.Equal(t, "1", string(events[4].Value))
	require.Equal(t, "b", string(events[5].Value))
	require.Equal(t, "2", string(events[6].Value))
}

func TestParseBlockSequence(t *testing.T) {
	events := parseAll(t, "- 1\n- 2\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		SEQUENCE_START_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		SEQUENCE_END_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, SequenceStyle(BLOCK_SEQUENCE_STYLE), events[2].SequenceStyle())
}

func TestParseFlowSequence(t *testing.T) {
	events := parseAll(t, "[1, 2, 3]\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		SEQUENCE_START_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		SEQUENCE_END_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, SequenceStyle(FLOW_SEQUENCE_STYLE), events[2].SequenceStyle())
}

func TestParseFlowMapping(t *testing.T) {
	events := parseAll(t, "{a: 1, b: 2}\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		MAPPING_START_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		MAPPING_END_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
}

func TestParseNestedBlockMapping(t *testing.T) {
	events := parseAll(t, "a:\n  b: 1\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		MAPPING_START_EVENT,
		SCALAR_EVENT,
		MAPPING_START_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		MAPPING_END_EVENT,
		MAPPING_END_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
}

func TestParseMappingWithEmptyValue(t *testing.T) {
	events := parseAll(t, "a:\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		MAPPING_START_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		MAPPING_END_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, "a", string(events[3].Value))
	require.Empty(t, events[4].Value)
	require.True(t, events[4].Implicit)
}

func TestParseAliasEvent(t *testing.T) {
	events := parseAll(t, "a: &x 1\nb: *x\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		MAPPING_START_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		ALIAS_EVENT,
		MAPPING_END_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, "x", string(events[4].Anchor))
	require.Equal(t, "x", string(events[6].Anchor))
}

func TestParseMultiDocumentStream(t *testing.T) {
	events := parseAll(t, "---\na\n---\nb\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		SCALAR_EVENT,
		DOCUMENT_END_EVENT,
		DOCUMENT_START_EVENT,
		SCALAR_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.False(t, events[1].Implicit)
	require.False(t, events[4].Implicit)
}

func TestParseExplicitDocumentEnd(t *testing.T) {
	events := parseAll(t, "a\n...\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		SCALAR_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.False(t, events[3].Implicit)
}

func TestParseVersionDirective(t *testing.T) {
	events := parseAll(t, "%YAML 1.1\n---\nfoo\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		SCALAR_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	version := events[1].GetVersionDirective()
	require.NotNil(t, version)
	require.Equal(t, 1, version.Major())
	require.Equal(t, 1, version.Minor())
}

// A %TAG handle declared in one document remains usable in the following
// documents of the same stream.
func TestParseTagDirectiveCarryForward(t *testing.T) {
	events := parseAll(t, "%TAG !e! tag:example.com,2000:\n---\n!e!foo a\n---\n!e!foo b\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		SCALAR_EVENT,
		DOCUMENT_END_EVENT,
		DOCUMENT_START_EVENT,
		SCALAR_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, "tag:example.com,2000:foo", string(events[2].Tag))
	require.Equal(t, "tag:example.com,2000:foo", string(events[5].Tag))
}

func TestParseCommentEventPassthrough(t *testing.T) {
	parser := NewParser()
	parser.parseComments = true
	parser.SetInputString([]byte("# greeting\nkey: 1\n"))
	var events []Event
	for {
		var ev Event
		err := parser.Parse(&ev)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		events = append(events, ev)
	}
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		COMMENT_EVENT,
		DOCUMENT_START_EVENT,
		MAPPING_START_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		MAPPING_END_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, BLOCK_COMMENT, events[1].CommentKind)
}

func TestParseDuplicateYAMLDirectiveError(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("%YAML 1.1\n%YAML 1.1\n---\nfoo\n"))
	var ev Event
	var lastErr error
	for {
		lastErr = parser.Parse(&ev)
		if lastErr != nil {
			break
		}
	}
	require.Error(t, lastErr)
	require.NotEqual(t, io.EOF, lastErr)
	var parseErr ParserError
	require.ErrorAs(t, lastErr, &parseErr)
	require.Equal(t, "found duplicate %YAML directive", parseErr.Message)
}

func TestParseUndefinedTagHandleError(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("!e!foo bar\n"))
	var ev Event
	var lastErr error
	for {
		lastErr = parser.Parse(&ev)
		if lastErr != nil {
			break
		}
	}
	require.Error(t, lastErr)
	var parseErr ParserError
	require.ErrorAs(t, lastErr, &parseErr)
	require.Equal(t, "found undefined tag handle", parseErr.Message)
}

func TestParseUnexpectedTokenAfterStreamStart(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("]\n"))
	var ev Event
	var lastErr error
	for i := 0; i < 10 && lastErr == nil; i++ {
		lastErr = parser.Parse(&ev)
	}
	require.Error(t, lastErr)
	require.NotEqual(t, io.EOF, lastErr)
	var parseErr ParserError
	require.ErrorAs(t, lastErr, &parseErr)
	require.Equal(t, "did not find expected node content", parseErr.Message)
}

func TestParseTaggedScalar(t *testing.T) {
	events := parseAll(t, "!!str 42\n")
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		SCALAR_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, eventTypes(events))
	require.Equal(t, STR_TAG, string(events[2].Tag))
	require.False(t, events[2].Implicit)
}
