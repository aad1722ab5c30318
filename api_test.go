// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlcore

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestOptionSurfaceDefaults(t *testing.T) {
	parser := NewParser()
	require.True(t, parser.AllowDuplicateKeys())
	require.Equal(t, 50, parser.MaxAliasesForCollections())
	require.False(t, parser.AllowRecursiveKeys())

	parser.SetAllowDuplicateKeys(false)
	parser.SetMaxAliasesForCollections(7)
	parser.SetAllowRecursiveKeys(true)
	require.False(t, parser.AllowDuplicateKeys())
	require.Equal(t, 7, parser.MaxAliasesForCollections())
	require.True(t, parser.AllowRecursiveKeys())
}

func TestEventPullProtocol(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("key: value\n"))

	ok, err := parser.CheckEvent(STREAM_START_EVENT)
	require.NoError(t, err)
	require.True(t, ok)

	// Peeking is non-destructive: the same event comes back twice and is
	// then the one NextEvent consumes.
	ev, err := parser.PeekEvent()
	require.NoError(t, err)
	require.Equal(t, STREAM_START_EVENT, ev.Type)
	ev, err = parser.PeekEvent()
	require.NoError(t, err)
	require.Equal(t, STREAM_START_EVENT, ev.Type)

	var types []EventType
	for {
		ev, err := parser.NextEvent()
		require.NoError(t, err)
		if ev == nil {
			break
		}
		types = append(types, ev.Type)
	}
	require.Equal(t, []EventType{
		STREAM_START_EVENT,
		DOCUMENT_START_EVENT,
		MAPPING_START_EVENT,
		SCALAR_EVENT,
		SCALAR_EVENT,
		MAPPING_END_EVENT,
		DOCUMENT_END_EVENT,
		STREAM_END_EVENT,
	}, types)

	ok, err = parser.CheckEvent(STREAM_START_EVENT)
	require.NoError(t, err)
	require.False(t, ok)
}

// A peeked event must be the one a subsequent Parse call hands out, so
// consumers may mix the two surfaces.
func TestPeekEventThenParse(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("hello\n"))

	ev, err := parser.PeekEvent()
	require.NoError(t, err)
	require.Equal(t, STREAM_START_EVENT, ev.Type)

	var parsed Event
	require.NoError(t, parser.Parse(&parsed))
	require.Equal(t, STREAM_START_EVENT, parsed.Type)

	var next Event
	require.NoError(t, parser.Parse(&next))
	require.Equal(t, DOCUMENT_START_EVENT, next.Type)
}

func TestTokenPullProtocol(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("[1, 2]\n"))

	ok, err := parser.CheckToken(STREAM_START_TOKEN)
	require.NoError(t, err)
	require.True(t, ok)
	// STREAM_START is still at the head, so neither type matches.
	ok, err = parser.CheckToken(SCALAR_TOKEN, FLOW_SEQUENCE_START_TOKEN)
	require.NoError(t, err)
	require.False(t, ok)

	var got []Token
	for {
		tok, err := parser.NextToken()
		require.NoError(t, err)
		if tok == nil {
			break
		}
		got = append(got, *tok)
	}

	want := []Token{
		{Type: STREAM_START_TOKEN},
		{Type: FLOW_SEQUENCE_START_TOKEN},
		{Type: SCALAR_TOKEN, Value: []byte("1"), Style: PLAIN_SCALAR_STYLE},
		{Type: FLOW_ENTRY_TOKEN},
		{Type: SCALAR_TOKEN, Value: []byte("2"), Style: PLAIN_SCALAR_STYLE},
		{Type: FLOW_SEQUENCE_END_TOKEN},
		{Type: STREAM_END_TOKEN},
	}
	diff := cmp.Diff(want, got,
		cmpopts.IgnoreFields(Token{}, "StartMark", "EndMark"),
		cmpopts.IgnoreUnexported(Token{}))
	require.Empty(t, diff)

	tok, err := parser.PeekToken()
	require.NoError(t, err)
	require.Nil(t, tok)
}

func TestFlowNestingDepthLimit(t *testing.T) {
	parser := NewParser()
	parser.SetNestingDepthLimit(5)
	parser.SetInputString([]byte(strings.Repeat("[", 10)))

	var err error
	for err == nil {
		var ev Event
		err = parser.Parse(&ev)
	}
	require.NotEqual(t, io.EOF, err)
	require.ErrorContains(t, err, "nesting is too deep")
}

func TestBlockNestingDepthLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString(strings.Repeat(" ", i))
		b.WriteString("k:\n")
	}
	parser := NewParser()
	parser.SetNestingDepthLimit(4)
	parser.SetInputString([]byte(b.String()))

	var err error
	for err == nil {
		var ev Event
		err = parser.Parse(&ev)
	}
	require.NotEqual(t, io.EOF, err)
	require.ErrorContains(t, err, "nesting is too deep")
}
