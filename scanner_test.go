// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlcore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func scanAllWithParser(t *testing.T, parser Parser) []Token {
	t.Helper()
	var tokens []Token
	for {
		var tok Token
		require.NoError(t, parser.Scan(&tok))
		tokens = append(tokens, tok)
		if tok.Type == STREAM_END_TOKEN {
			return tokens
		}
		if len(tokens) > 1000 {
			t.Fatalf("scanner did not terminate")
		}
	}
}

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	parser := NewParser()
	parser.SetInputString([]byte(src))
	return scanAllWithParser(t, parser)
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestScanEmptyStream(t *testing.T) {
	tokens := scanAll(t, "")
	require.Equal(t, []TokenType{STREAM_START_TOKEN, STREAM_END_TOKEN}, tokenTypes(tokens))
}

func TestScanSimpleBlockMapping(t *testing.T) {
	tokens := scanAll(t, "key: value\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		BLOCK_MAPPING_START_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		SCALAR_TOKEN,
		BLOCK_END_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))

	require.Equal(t, "key", string(tokens[3].Value))
	require.Equal(t, "value", string(tokens[5].Value))
}

func TestScanBlockMappingTwoKeys(t *testing.T) {
	tokens := scanAll(t, "a: 1\nb: 2\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		BLOCK_MAPPING_START_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		SCALAR_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		SCALAR_TOKEN,
		BLOCK_END_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanBlockSequence(t *testing.T) {
	tokens := scanAll(t, "- 1\n- 2\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		BLOCK_SEQUENCE_START_TOKEN,
		BLOCK_ENTRY_TOKEN,
		SCALAR_TOKEN,
		BLOCK_ENTRY_TOKEN,
		SCALAR_TOKEN,
		BLOCK_END_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanFlowSequence(t *testing.T) {
	tokens := scanAll(t, "[1, 2]\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		FLOW_SEQUENCE_START_TOKEN,
		SCALAR_TOKEN,
		FLOW_ENTRY_TOKEN,
		SCALAR_TOKEN,
		FLOW_SEQUENCE_END_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanFlowMapping(t *testing.T) {
	tokens := scanAll(t, "{a: 1, b: 2}\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		FLOW_MAPPING_START_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		SCALAR_TOKEN,
		FLOW_ENTRY_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		SCALAR_TOKEN,
		FLOW_MAPPING_END_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanNestedBlockMapping(t *testing.T) {
	tokens := scanAll(t, "a:\n  b: 1\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		BLOCK_MAPPING_START_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		BLOCK_MAPPING_START_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		SCALAR_TOKEN,
		BLOCK_END_TOKEN,
		BLOCK_END_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanAnchorAliasAndTag(t *testing.T) {
	tokens := scanAll(t, "a: &x !!str foo\nb: *x\n")
	types := tokenTypes(tokens)
	require.Contains(t, types, ANCHOR_TOKEN)
	require.Contains(t, types, TAG_TOKEN)
	require.Contains(t, types, ALIAS_TOKEN)
}

func TestScanDocumentIndicators(t *testing.T) {
	tokens := scanAll(t, "---\na: 1\n...\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		DOCUMENT_START_TOKEN,
		BLOCK_MAPPING_START_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		SCALAR_TOKEN,
		BLOCK_END_TOKEN,
		DOCUMENT_END_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanYAMLDirective(t *testing.T) {
	tokens := scanAll(t, "%YAML 1.1\n---\nfoo\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		VERSION_DIRECTIVE_TOKEN,
		DOCUMENT_START_TOKEN,
		SCALAR_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}

func TestScanTagDirective(t *testing.T) {
	tokens := scanAll(t, "%TAG !e! tag:example.com,2000:\n---\nfoo\n")
	types := tokenTypes(tokens)
	require.Equal(t, TAG_DIRECTIVE_TOKEN, types[1])
}

func TestScanSingleQuotedScalar(t *testing.T) {
	tokens := scanAll(t, "'it''s here'\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		SCALAR_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
	require.Equal(t, "it's here", string(tokens[1].Value))
	require.Equal(t, SINGLE_QUOTED_SCALAR_STYLE, tokens[1].Style)
}

func TestScanDoubleQuotedScalarEscapes(t *testing.T) {
	tokens := scanAll(t, "\"a\\nb\"\n")
	require.Equal(t, "a\nb", string(tokens[1].Value))
	require.Equal(t, DOUBLE_QUOTED_SCALAR_STYLE, tokens[1].Style)
}

func TestScanCommentTokenDisabledByDefault(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("# hello\nkey: 1\n"))
	tokens := scanAllWithParser(t, parser)
	require.NotContains(t, tokenTypes(tokens), COMMENT_TOKEN)
}

func TestScanCommentTokenEnabled(t *testing.T) {
	parser := NewParser()
	parser.parseComments = true
	parser.SetInputString([]byte("# hello\nkey: 1\n"))
	tokens := scanAllWithParser(t, parser)
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		COMMENT_TOKEN,
		BLOCK_MAPPING_START_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		SCALAR_TOKEN,
		BLOCK_END_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
	require.Equal(t, BLOCK_COMMENT, tokens[1].CommentKind)
}

func TestScanLiteralBlockScalar(t *testing.T) {
	tokens := scanAll(t, "key: |\n  line one\n  line two\n")
	require.Equal(t, "line one\nline two\n", string(tokens[5].Value))
	require.Equal(t, LITERAL_SCALAR_STYLE, tokens[5].Style)
}

func TestScanFoldedBlockScalar(t *testing.T) {
	tokens := scanAll(t, "key: >\n  line one\n  line two\n")
	require.Equal(t, "line one line two\n", string(tokens[5].Value))
	require.Equal(t, FOLDED_SCALAR_STYLE, tokens[5].Style)
}

func TestScannerErrorOnTabIndent(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte("key:\n\tvalue\n"))
	var tok Token
	for {
		err := parser.Scan(&tok)
		if err != nil {
			var scanErr ScannerError
			require.ErrorAs(t, err, &scanErr)
			return
		}
		if tok.Type == STREAM_END_TOKEN {
			t.Fatal("expected a scanner error for a tab-indented line")
		}
	}
}

// A key longer than the 1024 code point lookahead window can never be
// resolved by a later ':' on the same line.
func TestScannerErrorOnOverlongSimpleKey(t *testing.T) {
	parser := NewParser()
	parser.SetInputString([]byte(strings.Repeat("a", 1100) + ": 1\n"))
	var tok Token
	for {
		err := parser.Scan(&tok)
		if err != nil {
			var scanErr ScannerError
			require.ErrorAs(t, err, &scanErr)
			return
		}
		if tok.Type == STREAM_END_TOKEN {
			t.Fatal("expected a scanner error for an overlong simple key")
		}
	}
}

func TestScanFlowSequenceNestedInMapping(t *testing.T) {
	tokens := scanAll(t, "a: [1, 2]\nb: 3\n")
	require.Equal(t, []TokenType{
		STREAM_START_TOKEN,
		BLOCK_MAPPING_START_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		FLOW_SEQUENCE_START_TOKEN,
		SCALAR_TOKEN,
		FLOW_ENTRY_TOKEN,
		SCALAR_TOKEN,
		FLOW_SEQUENCE_END_TOKEN,
		KEY_TOKEN,
		SCALAR_TOKEN,
		VALUE_TOKEN,
		SCALAR_TOKEN,
		BLOCK_END_TOKEN,
		STREAM_END_TOKEN,
	}, tokenTypes(tokens))
}
