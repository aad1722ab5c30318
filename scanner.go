// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// The scanner stage: turns the code point buffer produced by the reader
// into a stream of Tokens, handling YAML's indentation-sensitive block
// structure, flow collections, simple-key lookahead, and the five scalar
// styles.

package yamlcore

import (
	"fmt"
)

// Scan returns the next token in the stream, or io.EOF-shaped completion
// via a STREAM_END_TOKEN (Scan never returns an error once a
// STREAM_END_TOKEN has been produced; callers should stop calling it).
func (parser *Parser) Scan(token *Token) error {
	if parser.stream_end_produced {
		*token = Token{Type: STREAM_END_TOKEN, StartMark: parser.mark, EndMark: parser.mark}
		return nil
	}

	if !parser.token_available {
		if err := parser.fetchMoreTokens(); err != nil {
			return err
		}
	}

	*token = parser.tokens[parser.tokens_head]
	parser.tokens_head++
	parser.tokens_parsed++
	parser.token_available = false

	if token.Type == STREAM_END_TOKEN {
		parser.stream_end_produced = true
	}
	return nil
}

// peekToken returns the next token without consuming it.
func (parser *Parser) peekToken() (*Token, error) {
	if !parser.token_available {
		if err := parser.fetchMoreTokens(); err != nil {
			return nil, err
		}
	}
	return &parser.tokens[parser.tokens_head], nil
}

// skipToken consumes the token returned by the most recent peekToken.
func (parser *Parser) skipToken() {
	parser.token_available = false
	parser.tokens_parsed++
	parser.stream_end_produced = parser.tokens[parser.tokens_head].Type == STREAM_END_TOKEN
	parser.tokens_head++
}

func (parser *Parser) insertToken(pos int, token *Token) {
	if pos == len(parser.tokens)-parser.tokens_head {
		parser.tokens = append(parser.tokens, *token)
		return
	}
	parser.tokens = append(parser.tokens, Token{})
	copy(parser.tokens[parser.tokens_head+pos+1:], parser.tokens[parser.tokens_head+pos:])
	parser.tokens[parser.tokens_head+pos] = *token
}

// fetchMoreTokens drives the scanner forward until the token at the head
// of the queue is no longer itself a pending simple-key position: as long
// as the oldest unconsumed token could still turn out to be a mapping key
// (because a ':' hasn't been seen yet, or the key hasn't expired), more
// tokens must be fetched before that head token can safely be handed to
// the consumer.
func (parser *Parser) fetchMoreTokens() error {
	for {
		needMoreTokens := len(parser.tokens) == parser.tokens_head
		if !needMoreTokens {
			for i := range parser.simple_keys {
				key := &parser.simple_keys[i]
				if key.possible && key.token_number == parser.tokens_parsed {
					needMoreTokens = true
					break
				}
			}
		}
		if !needMoreTokens {
			break
		}
		if err := parser.fetchNextToken(); err != nil {
			return err
		}
	}
	parser.token_available = true
	return nil
}

// fetchNextToken scans and queues the next token, preceded by one BLOCK_END
// token for each indentation level that the current column closes (and a
// KEY or BLOCK_MAPPING_START inserted behind it when a ':' resolves a simple
// key), handling simple key expiry, indentation, and the initial
// stream-start bookkeeping.
func (parser *Parser) fetchNextToken() error {
	if !parser.stream_start_produced {
		return parser.fetchStreamStart()
	}

	if err := parser.scanToNextToken(); err != nil {
		return err
	}

	if err := parser.staleSimpleKeys(); err != nil {
		return err
	}

	if err := parser.updateBuffer(4); err != nil {
		return err
	}

	if err := parser.unwindIndent(parser.mark.Column); err != nil {
		return err
	}

	if isZeroChar(parser.buffer, parser.buffer_pos) {
		return parser.fetchStreamEnd()
	}

	switch {
	case parser.mark.Column == 0 && parser.buffer[parser.buffer_pos] == '%':
		return parser.fetchDirective()
	case parser.mark.Column == 0 && parser.hasPrefix("---") && isBlankOrZero(parser.buffer, parser.buffer_pos+3):
		return parser.fetchDocumentIndicator(DOCUMENT_START_TOKEN)
	case parser.mark.Column == 0 && parser.hasPrefix("...") && isBlankOrZero(parser.buffer, parser.buffer_pos+3):
		return parser.fetchDocumentIndicator(DOCUMENT_END_TOKEN)
	case parser.buffer[parser.buffer_pos] == '[':
		return parser.fetchFlowCollectionStart(FLOW_SEQUENCE_START_TOKEN)
	case parser.buffer[parser.buffer_pos] == '{':
		return parser.fetchFlowCollectionStart(FLOW_MAPPING_START_TOKEN)
	case parser.buffer[parser.buffer_pos] == ']':
		return parser.fetchFlowCollectionEnd(FLOW_SEQUENCE_END_TOKEN)
	case parser.buffer[parser.buffer_pos] == '}':
		return parser.fetchFlowCollectionEnd(FLOW_MAPPING_END_TOKEN)
	case parser.buffer[parser.buffer_pos] == ',':
		return parser.fetchFlowEntry()
	case parser.buffer[parser.buffer_pos] == '-' && isBlankOrZero(parser.buffer, parser.buffer_pos+1):
		return parser.fetchBlockEntry()
	case parser.buffer[parser.buffer_pos] == '?' && (parser.flow_level > 0 || isBlankOrZero(parser.buffer, parser.buffer_pos+1)):
		return parser.fetchKey()
	case parser.buffer[parser.buffer_pos] == ':' && (parser.flow_level > 0 || isBlankOrZero(parser.buffer, parser.buffer_pos+1)):
		return parser.fetchValue()
	case parser.buffer[parser.buffer_pos] == '*':
		return parser.fetchAnchor(ALIAS_TOKEN)
	case parser.buffer[parser.buffer_pos] == '&':
		return parser.fetchAnchor(ANCHOR_TOKEN)
	case parser.buffer[parser.buffer_pos] == '!':
		return parser.fetchTag()
	case parser.buffer[parser.buffer_pos] == '|' && parser.flow_level == 0:
		return parser.fetchBlockScalar(LITERAL_SCALAR_STYLE)
	case parser.buffer[parser.buffer_pos] == '>' && parser.flow_level == 0:
		return parser.fetchBlockScalar(FOLDED_SCALAR_STYLE)
	case parser.buffer[parser.buffer_pos] == '\'':
		return parser.fetchFlowScalar(SINGLE_QUOTED_SCALAR_STYLE)
	case parser.buffer[parser.buffer_pos] == '"':
		return parser.fetchFlowScalar(DOUBLE_QUOTED_SCALAR_STYLE)
	case parser.buffer[parser.buffer_pos] == '#':
		return parser.fetchComment()
	case parser.isPlainScalarStart():
		return parser.fetchPlainScalar()
	}

	return parser.setScannerError("while scanning for the next token",
		parser.mark, fmt.Sprintf("found character %#U that cannot start any token", parser.currentRune()))
}

func (parser *Parser) hasPrefix(s string) bool {
	for i := 0; i < len(s); i++ {
		if isZeroChar(parser.buffer, parser.buffer_pos+i) || parser.buffer[parser.buffer_pos+i] != s[i] {
			return false
		}
	}
	return true
}

func (parser *Parser) currentRune() rune {
	if isZeroChar(parser.buffer, parser.buffer_pos) {
		return 0
	}
	r, _ := decodeRuneAt(parser.buffer, parser.buffer_pos)
	return r
}

// isPlainScalarStart reports whether the current position may begin a
// plain scalar, per the indicator-character exclusion rules of the block
// and flow contexts.
func (parser *Parser) isPlainScalarStart() bool {
	b := parser.buffer
	i := parser.buffer_pos
	if isZeroChar(b, i) {
		return false
	}
	switch b[i] {
	case '-':
		return !isBlankOrZero(b, i+1)
	case '?', ':':
		if parser.flow_level > 0 {
			return false
		}
		return !isBlankOrZero(b, i+1)
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`', '\t':
		return false
	}
	return true
}

// forward advances the buffer position by n code points, tracking line and
// column position, and ensures lookahead stays available.
func (parser *Parser) forward(n int) {
	for ; n > 0; n-- {
		if err := parser.updateBuffer(2); err != nil {
			parser.hadError = true
			return
		}
		if isZeroChar(parser.buffer, parser.buffer_pos) {
			return
		}
		w := width(parser.buffer[parser.buffer_pos])
		if w == 0 {
			w = 1
		}
		if isLineBreak(parser.buffer, parser.buffer_pos) {
			if isCRLF(parser.buffer, parser.buffer_pos) {
				w = 2
			}
			parser.mark.Line++
			parser.mark.Column = 0
		} else {
			parser.mark.Column++
		}
		parser.mark.Index++
		parser.buffer_pos += w
		parser.unread--
	}
}

// skipLineBreak advances over a single line break (CR, LF, CRLF, NEL, LS,
// PS) if one is present at the current position.
func (parser *Parser) skipLineBreak() bool {
	if !isLineBreak(parser.buffer, parser.buffer_pos) {
		return false
	}
	parser.forward(1) // forward treats a CRLF pair as a single line-break step
	return true
}

// unwindIndent pops block-collection indents greater than column, emitting
// the matching BLOCK_END_TOKEN for each.
func (parser *Parser) unwindIndent(column int) error {
	if parser.flow_level > 0 {
		return nil
	}
	for parser.indent > column {
		parser.indent = parser.indents[len(parser.indents)-1]
		parser.indents = parser.indents[:len(parser.indents)-1]
		parser.tokens = append(parser.tokens, Token{
			Type:      BLOCK_END_TOKEN,
			StartMark: parser.mark,
			EndMark:   parser.mark,
		})
		parser.token_available = true
	}
	return nil
}

func (parser *Parser) rollIndent(column, tokenNumber int, tokenType TokenType, mark Mark) error {
	if parser.flow_level > 0 {
		return nil
	}
	if parser.indent >= column {
		return nil
	}
	if len(parser.indents) == parser.depthLimit() {
		return parser.setScannerError("while increasing indentation level", mark, "nesting is too deep")
	}
	parser.indents = append(parser.indents, parser.indent)
	parser.indent = column

	token := Token{Type: tokenType, StartMark: mark, EndMark: mark}
	if tokenNumber == -1 {
		parser.tokens = append(parser.tokens, token)
		parser.token_available = true
	} else {
		parser.insertToken(tokenNumber-parser.tokens_parsed, &token)
	}
	return nil
}

// depthLimit returns the configured nesting depth limit, falling back to
// the default for a parser constructed without NewParser.
func (parser *Parser) depthLimit() int {
	if parser.nestingDepthLimit > 0 {
		return parser.nestingDepthLimit
	}
	return defaultNestingDepthLimit
}

// staleSimpleKeys expires any possible simple key that cannot legally be
// resolved any more: required keys that moved to a new line, or keys that
// have drifted beyond the 1024 code point lookahead window.
func (parser *Parser) staleSimpleKeys() error {
	for i := range parser.simple_keys {
		key := &parser.simple_keys[i]
		if !key.possible {
			continue
		}
		if key.mark.Line != parser.mark.Line || parser.mark.Index-key.mark.Index > maxSimpleKeyLength {
			if key.required {
				return parser.setScannerError("while scanning a simple key", key.mark, "could not find expected ':'")
			}
			key.possible = false
		}
	}
	return nil
}

func (parser *Parser) simpleKeyIsPossible() bool {
	for _, key := range parser.simple_keys {
		if key.possible {
			return true
		}
	}
	return false
}

// savePossibleSimpleKey records the current position as a possible simple
// key, replacing (and validating) any key already open at this flow level.
func (parser *Parser) savePossibleSimpleKey() error {
	required := parser.flow_level == 0 && parser.indent == parser.mark.Column
	if parser.simple_key_allowed == false && required {
		return parser.setScannerError("", parser.mark, "simple key is required in this context")
	}
	if !parser.simple_key_allowed {
		return nil
	}

	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}

	parser.simple_keys[len(parser.simple_keys)-1] = SimpleKey{
		possible:     true,
		required:     required,
		token_number: parser.tokens_parsed + len(parser.tokens) - parser.tokens_head,
		mark:         parser.mark,
	}
	return nil
}

// removePossibleSimpleKey drops the simple key open at the current flow
// level, if any, erroring if it was required.
func (parser *Parser) removePossibleSimpleKey() error {
	if len(parser.simple_keys) == 0 {
		return nil
	}
	key := &parser.simple_keys[len(parser.simple_keys)-1]
	if key.possible && key.required {
		return parser.setScannerError("while scanning a simple key", key.mark, "could not find expected ':'")
	}
	key.possible = false
	return nil
}

func (parser *Parser) increaseFlowLevel() error {
	parser.simple_keys = append(parser.simple_keys, SimpleKey{})
	if parser.flow_level == parser.depthLimit() {
		return parser.setScannerError("while increasing flow level", parser.mark, "nesting is too deep")
	}
	parser.flow_level++
	return nil
}

func (parser *Parser) decreaseFlowLevel() {
	if parser.flow_level == 0 {
		return
	}
	parser.flow_level--
	parser.simple_keys = parser.simple_keys[:len(parser.simple_keys)-1]
}

// ---- stream bookkeeping ----

func (parser *Parser) fetchStreamStart() error {
	if err := parser.updateBuffer(1); err != nil {
		return err
	}
	parser.indent = -1
	parser.mark.Line = 1
	parser.simple_key_allowed = true
	parser.stream_start_produced = true
	parser.simple_keys = append(parser.simple_keys, SimpleKey{})
	parser.tokens = append(parser.tokens, Token{
		Type:      STREAM_START_TOKEN,
		StartMark: parser.mark,
		EndMark:   parser.mark,
		encoding:  parser.encoding,
	})
	parser.token_available = true
	return nil
}

func (parser *Parser) fetchStreamEnd() error {
	parser.simple_key_allowed = false
	if err := parser.unwindIndent(-1); err != nil {
		return err
	}
	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}
	parser.tokens = append(parser.tokens, Token{
		Type:      STREAM_END_TOKEN,
		StartMark: parser.mark,
		EndMark:   parser.mark,
	})
	parser.token_available = true
	return nil
}

// scanToNextToken skips whitespace, line breaks, and comments (discarding
// comments unless parseComments is set, in which case it stops at the '#'
// for fetchComment) until a token-starting character or EOF is reached.
// Tabs are skipped only in flow context or where a simple key is not
// allowed, so a tab cannot stand in for block indentation.
func (parser *Parser) scanToNextToken() error {
	for {
		if err := parser.updateBuffer(1); err != nil {
			return err
		}

		for isSpace(parser.buffer, parser.buffer_pos) ||
			((parser.flow_level > 0 || !parser.simple_key_allowed) && isTab(parser.buffer, parser.buffer_pos)) {
			parser.forward(1)
			if err := parser.updateBuffer(1); err != nil {
				return err
			}
		}

		atComment := parser.buffer_pos < len(parser.buffer) && parser.buffer[parser.buffer_pos] == '#'
		if atComment && parser.parseComments {
			return nil // let fetchMoreTokens dispatch to fetchComment
		}
		if atComment {
			for !isBreakOrZero(parser.buffer, parser.buffer_pos) {
				parser.forward(1)
				if err := parser.updateBuffer(1); err != nil {
					return err
				}
			}
		}

		if isLineBreak(parser.buffer, parser.buffer_pos) {
			if err := parser.updateBuffer(2); err != nil {
				return err
			}
			parser.skipLineBreak()
			if parser.flow_level == 0 {
				parser.simple_key_allowed = true
			}
			continue
		}

		return nil
	}
}

// ---- directives ----

func (parser *Parser) fetchDirective() error {
	if err := parser.unwindIndent(-1); err != nil {
		return err
	}
	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}
	parser.simple_key_allowed = false

	token, err := parser.scanDirective()
	if err != nil {
		return err
	}
	if token.Type == COMMENT_TOKEN && !parser.parseComments {
		return nil
	}
	parser.tokens = append(parser.tokens, *token)
	parser.token_available = true
	return nil
}

func (parser *Parser) scanDirective() (*Token, error) {
	startMark := parser.mark
	parser.forward(1) // %

	name, err := parser.scanDirectiveName(startMark)
	if err != nil {
		return nil, err
	}

	switch string(name) {
	case "YAML":
		return parser.scanVersionDirectiveValue(startMark)
	case "TAG":
		return parser.scanTagDirectiveValue(startMark)
	default:
		for !isBreakOrZero(parser.buffer, parser.buffer_pos) {
			parser.forward(1)
			if err := parser.updateBuffer(1); err != nil {
				return nil, err
			}
		}
		return &Token{Type: COMMENT_TOKEN, StartMark: startMark, EndMark: parser.mark, Value: append([]byte(nil), name...)}, nil
	}
}

func (parser *Parser) scanDirectiveName(startMark Mark) ([]byte, error) {
	var name []byte
	if err := parser.updateBuffer(1); err != nil {
		return nil, err
	}
	for isAlpha(parser.buffer, parser.buffer_pos) {
		name = append(name, parser.buffer[parser.buffer_pos])
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
	}
	if len(name) == 0 {
		return nil, parser.setScannerError("while scanning a directive", startMark, "could not find expected directive name")
	}
	if !isBlankOrZero(parser.buffer, parser.buffer_pos) {
		return nil, parser.setScannerError("while scanning a directive", startMark, "expected alphabetic or numeric character, but found something else")
	}
	return name, nil
}

func (parser *Parser) scanVersionDirectiveValue(startMark Mark) (*Token, error) {
	if err := parser.skipSpaces(); err != nil {
		return nil, err
	}
	major, err := parser.scanVersionDirectiveNumber(startMark)
	if err != nil {
		return nil, err
	}
	if parser.buffer_pos >= len(parser.buffer) || parser.buffer[parser.buffer_pos] != '.' {
		return nil, parser.setScannerError("while scanning a %YAML directive", startMark, "did not find expected digit or '.' character")
	}
	parser.forward(1)
	minor, err := parser.scanVersionDirectiveNumber(startMark)
	if err != nil {
		return nil, err
	}
	return &Token{
		Type:      VERSION_DIRECTIVE_TOKEN,
		StartMark: startMark,
		EndMark:   parser.mark,
		major:     int8(major),
		minor:     int8(minor),
	}, nil
}

func (parser *Parser) scanVersionDirectiveNumber(startMark Mark) (int, error) {
	value := 0
	length := 0
	if err := parser.updateBuffer(1); err != nil {
		return 0, err
	}
	for isDigit(parser.buffer, parser.buffer_pos) {
		length++
		if length > 9 {
			return 0, parser.setScannerError("while scanning a %YAML directive", startMark, "found extremely long version number")
		}
		value = value*10 + asDigit(parser.buffer, parser.buffer_pos)
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return 0, err
		}
	}
	if length == 0 {
		return 0, parser.setScannerError("while scanning a %YAML directive", startMark, "did not find expected version number")
	}
	return value, nil
}

func (parser *Parser) scanTagDirectiveValue(startMark Mark) (*Token, error) {
	if err := parser.skipSpaces(); err != nil {
		return nil, err
	}
	handle, err := parser.scanTagHandle(true, startMark)
	if err != nil {
		return nil, err
	}
	if err := parser.skipSpaces(); err != nil {
		return nil, err
	}
	prefix, err := parser.scanTagURI(true, nil, startMark)
	if err != nil {
		return nil, err
	}
	if err := parser.updateBuffer(1); err != nil {
		return nil, err
	}
	if !isBlankOrZero(parser.buffer, parser.buffer_pos) {
		return nil, parser.setScannerError("while scanning a %TAG directive", startMark, "did not find expected whitespace or line break")
	}
	return &Token{
		Type:      TAG_DIRECTIVE_TOKEN,
		StartMark: startMark,
		EndMark:   parser.mark,
		Value:     handle,
		suffix:    prefix,
	}, nil
}

func (parser *Parser) skipSpaces() error {
	for {
		if err := parser.updateBuffer(1); err != nil {
			return err
		}
		if !isSpace(parser.buffer, parser.buffer_pos) {
			return nil
		}
		parser.forward(1)
	}
}

// ---- document indicators, flow indicators, block entry, key/value ----

func (parser *Parser) fetchDocumentIndicator(tokenType TokenType) error {
	if err := parser.unwindIndent(-1); err != nil {
		return err
	}
	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}
	parser.simple_key_allowed = false

	startMark := parser.mark
	parser.forward(3)
	parser.tokens = append(parser.tokens, Token{Type: tokenType, StartMark: startMark, EndMark: parser.mark})
	parser.token_available = true
	return nil
}

func (parser *Parser) fetchFlowCollectionStart(tokenType TokenType) error {
	if err := parser.savePossibleSimpleKey(); err != nil {
		return err
	}
	if err := parser.increaseFlowLevel(); err != nil {
		return err
	}
	parser.simple_key_allowed = true

	startMark := parser.mark
	parser.forward(1)
	parser.tokens = append(parser.tokens, Token{Type: tokenType, StartMark: startMark, EndMark: parser.mark})
	parser.token_available = true
	return nil
}

func (parser *Parser) fetchFlowCollectionEnd(tokenType TokenType) error {
	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}
	parser.decreaseFlowLevel()
	parser.simple_key_allowed = false

	startMark := parser.mark
	parser.forward(1)
	parser.tokens = append(parser.tokens, Token{Type: tokenType, StartMark: startMark, EndMark: parser.mark})
	parser.token_available = true
	return nil
}

func (parser *Parser) fetchFlowEntry() error {
	parser.simple_key_allowed = true
	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}
	startMark := parser.mark
	parser.forward(1)
	parser.tokens = append(parser.tokens, Token{Type: FLOW_ENTRY_TOKEN, StartMark: startMark, EndMark: parser.mark})
	parser.token_available = true
	return nil
}

func (parser *Parser) fetchBlockEntry() error {
	if parser.flow_level == 0 {
		if !parser.simple_key_allowed {
			return parser.setScannerError("", parser.mark, "block sequence entries are not allowed in this context")
		}
		if err := parser.rollIndent(parser.mark.Column, -1, BLOCK_SEQUENCE_START_TOKEN, parser.mark); err != nil {
			return err
		}
	}
	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}
	parser.simple_key_allowed = true

	startMark := parser.mark
	parser.forward(1)
	parser.tokens = append(parser.tokens, Token{Type: BLOCK_ENTRY_TOKEN, StartMark: startMark, EndMark: parser.mark})
	parser.token_available = true
	return nil
}

func (parser *Parser) fetchKey() error {
	if parser.flow_level == 0 {
		if !parser.simple_key_allowed {
			return parser.setScannerError("", parser.mark, "mapping keys are not allowed in this context")
		}
		if err := parser.rollIndent(parser.mark.Column, -1, BLOCK_MAPPING_START_TOKEN, parser.mark); err != nil {
			return err
		}
	}
	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}
	parser.simple_key_allowed = parser.flow_level == 0

	startMark := parser.mark
	parser.forward(1)
	parser.tokens = append(parser.tokens, Token{Type: KEY_TOKEN, StartMark: startMark, EndMark: parser.mark})
	parser.token_available = true
	return nil
}

// fetchValue resolves a pending simple key (retroactively inserting a
// KEY_TOKEN, and a BLOCK_MAPPING_START_TOKEN if needed) or, failing that,
// treats ':' as an ordinary value indicator.
func (parser *Parser) fetchValue() error {
	if len(parser.simple_keys) > 0 && parser.simple_keys[len(parser.simple_keys)-1].possible {
		key := parser.simple_keys[len(parser.simple_keys)-1]
		parser.simple_keys[len(parser.simple_keys)-1].possible = false

		tokenNumber := key.token_number - parser.tokens_parsed
		keyToken := Token{Type: KEY_TOKEN, StartMark: key.mark, EndMark: key.mark}
		parser.insertToken(tokenNumber, &keyToken)

		if err := parser.rollIndent(key.mark.Column, key.token_number, BLOCK_MAPPING_START_TOKEN, key.mark); err != nil {
			return err
		}
		parser.simple_key_allowed = false
	} else {
		if parser.flow_level == 0 {
			if !parser.simple_key_allowed {
				return parser.setScannerError("", parser.mark, "mapping values are not allowed in this context")
			}
			if err := parser.rollIndent(parser.mark.Column, -1, BLOCK_MAPPING_START_TOKEN, parser.mark); err != nil {
				return err
			}
		}
		parser.simple_key_allowed = parser.flow_level == 0
	}

	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}

	startMark := parser.mark
	parser.forward(1)
	parser.tokens = append(parser.tokens, Token{Type: VALUE_TOKEN, StartMark: startMark, EndMark: parser.mark})
	parser.token_available = true
	return nil
}

// ---- anchors, aliases, tags ----

func (parser *Parser) fetchAnchor(tokenType TokenType) error {
	if err := parser.savePossibleSimpleKey(); err != nil {
		return err
	}
	parser.simple_key_allowed = false

	token, err := parser.scanAnchor(tokenType)
	if err != nil {
		return err
	}
	parser.tokens = append(parser.tokens, *token)
	parser.token_available = true
	return nil
}

func (parser *Parser) scanAnchor(tokenType TokenType) (*Token, error) {
	startMark := parser.mark
	parser.forward(1)
	var value []byte
	for isAnchorChar(parser.buffer, parser.buffer_pos) {
		value = append(value, parser.buffer[parser.buffer_pos:parser.buffer_pos+width(parser.buffer[parser.buffer_pos])]...)
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
	}
	if len(value) == 0 {
		return nil, parser.setScannerError("while scanning an anchor or alias", startMark, "did not find expected anchor name")
	}
	if !isBlankOrZero(parser.buffer, parser.buffer_pos) && !isFlowIndicator(parser.buffer, parser.buffer_pos) && parser.buffer_pos < len(parser.buffer) && parser.buffer[parser.buffer_pos] != ':' {
		return nil, parser.setScannerError("while scanning an anchor or alias", startMark, "did not find expected alphabetic or numeric character")
	}
	return &Token{Type: tokenType, StartMark: startMark, EndMark: parser.mark, Value: value}, nil
}

func (parser *Parser) fetchTag() error {
	if err := parser.savePossibleSimpleKey(); err != nil {
		return err
	}
	parser.simple_key_allowed = false

	token, err := parser.scanTag()
	if err != nil {
		return err
	}
	parser.tokens = append(parser.tokens, *token)
	parser.token_available = true
	return nil
}

func (parser *Parser) scanTag() (*Token, error) {
	startMark := parser.mark
	var handle, suffix []byte
	var err error

	if err = parser.updateBuffer(2); err != nil {
		return nil, err
	}
	if parser.buffer_pos+1 < len(parser.buffer) && parser.buffer[parser.buffer_pos+1] == '<' {
		parser.forward(2)
		suffix, err = parser.scanTagURI(true, nil, startMark)
		if err != nil {
			return nil, err
		}
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
		if parser.buffer_pos >= len(parser.buffer) || parser.buffer[parser.buffer_pos] != '>' {
			return nil, parser.setScannerError("while scanning a tag", startMark, "did not find the expected '>'")
		}
		parser.forward(1)
	} else {
		handle, err = parser.scanTagHandle(false, startMark)
		if err != nil {
			return nil, err
		}
		if len(handle) >= 2 && handle[0] == '!' && handle[len(handle)-1] == '!' {
			suffix, err = parser.scanTagURI(false, nil, startMark)
		} else {
			suffix, err = parser.scanTagURI(false, handle, startMark)
			handle = []byte("!")
		}
		if err != nil {
			return nil, err
		}
	}

	if err := parser.updateBuffer(1); err != nil {
		return nil, err
	}
	if !isBlankOrZero(parser.buffer, parser.buffer_pos) {
		return nil, parser.setScannerError("while scanning a tag", startMark, "did not find expected whitespace or line break")
	}

	return &Token{Type: TAG_TOKEN, StartMark: startMark, EndMark: parser.mark, Value: handle, suffix: suffix}, nil
}

func (parser *Parser) scanTagHandle(directive bool, startMark Mark) ([]byte, error) {
	if err := parser.updateBuffer(1); err != nil {
		return nil, err
	}
	if parser.buffer_pos >= len(parser.buffer) || parser.buffer[parser.buffer_pos] != '!' {
		return nil, parser.setScannerError("while scanning a tag", startMark, "did not find expected '!'")
	}
	value := []byte{'!'}
	parser.forward(1)
	if err := parser.updateBuffer(1); err != nil {
		return nil, err
	}
	for isAlpha(parser.buffer, parser.buffer_pos) {
		value = append(value, parser.buffer[parser.buffer_pos])
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
	}
	if parser.buffer_pos < len(parser.buffer) && parser.buffer[parser.buffer_pos] == '!' {
		value = append(value, '!')
		parser.forward(1)
	} else if directive && string(value) != "!" {
		return nil, parser.setScannerError("while parsing a tag directive", startMark, "did not find expected '!'")
	}
	return value, nil
}

func (parser *Parser) scanTagURI(verbatim bool, head []byte, startMark Mark) ([]byte, error) {
	value := append([]byte(nil), head...)
	if err := parser.updateBuffer(1); err != nil {
		return nil, err
	}
	for isTagURIChar(parser.buffer, parser.buffer_pos, verbatim) || (verbatim && parser.buffer_pos < len(parser.buffer) && parser.buffer[parser.buffer_pos] == ',') {
		if parser.buffer[parser.buffer_pos] == '%' {
			escaped, err := parser.scanURIEscape(startMark)
			if err != nil {
				return nil, err
			}
			value = append(value, escaped...)
			continue
		}
		value = append(value, parser.buffer[parser.buffer_pos])
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
	}
	if len(value) == 0 {
		return nil, parser.setScannerError("while parsing a tag", startMark, "did not find expected tag URI")
	}
	return value, nil
}

func (parser *Parser) scanURIEscape(startMark Mark) ([]byte, error) {
	parser.forward(1) // '%'
	if err := parser.updateBuffer(2); err != nil {
		return nil, err
	}
	if !isHex(parser.buffer, parser.buffer_pos) || !isHex(parser.buffer, parser.buffer_pos+1) {
		return nil, parser.setScannerError("while parsing a tag", startMark, "did not find URI escaped octet")
	}
	b := byte(asHex(parser.buffer, parser.buffer_pos)<<4 | asHex(parser.buffer, parser.buffer_pos+1))
	parser.forward(2)
	return []byte{b}, nil
}

// ---- comments ----

func (parser *Parser) fetchComment() error {
	startMark := parser.mark
	var value []byte
	parser.forward(1) // '#'
	for !isBreakOrZero(parser.buffer, parser.buffer_pos) {
		value = append(value, parser.buffer[parser.buffer_pos:parser.buffer_pos+width(parser.buffer[parser.buffer_pos])]...)
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return err
		}
	}
	kind := IN_LINE_COMMENT
	if startMark.Column == 0 {
		kind = BLOCK_COMMENT
	}
	parser.tokens = append(parser.tokens, Token{
		Type:        COMMENT_TOKEN,
		StartMark:   startMark,
		EndMark:     parser.mark,
		Value:       value,
		CommentKind: kind,
	})
	parser.token_available = true
	return nil
}

// ---- scalars ----

func (parser *Parser) fetchBlockScalar(style ScalarStyle) error {
	if err := parser.removePossibleSimpleKey(); err != nil {
		return err
	}
	parser.simple_key_allowed = true

	token, err := parser.scanBlockScalar(style)
	if err != nil {
		return err
	}
	parser.tokens = append(parser.tokens, *token)
	parser.token_available = true
	return nil
}

func (parser *Parser) scanBlockScalar(style ScalarStyle) (*Token, error) {
	startMark := parser.mark
	parser.forward(1) // '|' or '>'

	chomping := 0 // 0 = clip, 1 = strip, 2 = keep
	increment := 0
	if err := parser.updateBuffer(1); err != nil {
		return nil, err
	}
	if parser.buffer_pos < len(parser.buffer) && (parser.buffer[parser.buffer_pos] == '+' || parser.buffer[parser.buffer_pos] == '-') {
		if parser.buffer[parser.buffer_pos] == '+' {
			chomping = 2
		} else {
			chomping = 1
		}
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
	}
	if isDigit(parser.buffer, parser.buffer_pos) {
		increment = asDigit(parser.buffer, parser.buffer_pos)
		if increment == 0 {
			return nil, parser.setScannerError("while scanning a block scalar", startMark, "found an indentation indicator equal to 0")
		}
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
		if parser.buffer_pos < len(parser.buffer) && (parser.buffer[parser.buffer_pos] == '+' || parser.buffer[parser.buffer_pos] == '-') {
			if parser.buffer[parser.buffer_pos] == '+' {
				chomping = 2
			} else {
				chomping = 1
			}
			parser.forward(1)
		}
	}

	if err := parser.skipToEndOfLine(startMark, "while scanning a block scalar"); err != nil {
		return nil, err
	}

	var value []byte
	blockIndent := 0
	if increment > 0 {
		if parser.indent >= 0 {
			blockIndent = parser.indent + increment
		} else {
			blockIndent = increment
		}
	}

	leadingBlank := true
	trailingBlank := false
	first := true
	endMark := parser.mark

	for {
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
		for isSpace(parser.buffer, parser.buffer_pos) {
			parser.forward(1)
			if err := parser.updateBuffer(1); err != nil {
				return nil, err
			}
		}
		column := parser.mark.Column
		if blockIndent == 0 {
			if column > parser.indent || (style == FOLDED_SCALAR_STYLE && column == parser.indent+1) {
				blockIndent = column
			} else if !isBreakOrZero(parser.buffer, parser.buffer_pos) {
				break
			}
		}
		if blockIndent > 0 && column < blockIndent {
			break
		}
		if isBreakOrZero(parser.buffer, parser.buffer_pos) && blockIndent == 0 {
			if isZeroChar(parser.buffer, parser.buffer_pos) {
				break
			}
		}
		if isZeroChar(parser.buffer, parser.buffer_pos) {
			break
		}

		isBlankLine := isBreakOrZero(parser.buffer, parser.buffer_pos)
		if style == FOLDED_SCALAR_STYLE && !first && !leadingBlank && !isBlankLine {
			value = append(value, ' ')
		} else if !first {
			value = append(value, '\n')
		}

		for !isBreakOrZero(parser.buffer, parser.buffer_pos) {
			value = append(value, parser.buffer[parser.buffer_pos:parser.buffer_pos+width(parser.buffer[parser.buffer_pos])]...)
			parser.forward(1)
			if err := parser.updateBuffer(1); err != nil {
				return nil, err
			}
		}
		endMark = parser.mark
		leadingBlank = isBlankLine
		trailingBlank = isBlankLine
		first = false

		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
		if isZeroChar(parser.buffer, parser.buffer_pos) {
			break
		}
		parser.skipLineBreak()
	}
	_ = trailingBlank

	switch chomping {
	case 1:
		// strip: leave no trailing break.
	case 2:
		value = append(value, '\n')
	default:
		if len(value) > 0 {
			value = append(value, '\n')
		}
	}

	return &Token{
		Type:      SCALAR_TOKEN,
		StartMark: startMark,
		EndMark:   endMark,
		Value:     value,
		Style:     style,
	}, nil
}

func (parser *Parser) skipToEndOfLine(startMark Mark, context string) error {
	if err := parser.updateBuffer(1); err != nil {
		return err
	}
	for isBlank(parser.buffer, parser.buffer_pos) {
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return err
		}
	}
	if parser.buffer_pos < len(parser.buffer) && parser.buffer[parser.buffer_pos] == '#' {
		for !isBreakOrZero(parser.buffer, parser.buffer_pos) {
			parser.forward(1)
			if err := parser.updateBuffer(1); err != nil {
				return err
			}
		}
	}
	if !isBreakOrZero(parser.buffer, parser.buffer_pos) {
		return parser.setScannerError(context, startMark, "did not find expected comment or line break")
	}
	if !isZeroChar(parser.buffer, parser.buffer_pos) {
		parser.skipLineBreak()
	}
	return nil
}

func (parser *Parser) fetchFlowScalar(style ScalarStyle) error {
	if err := parser.savePossibleSimpleKey(); err != nil {
		return err
	}
	parser.simple_key_allowed = false

	token, err := parser.scanFlowScalar(style)
	if err != nil {
		return err
	}
	parser.tokens = append(parser.tokens, *token)
	parser.token_available = true
	return nil
}

func (parser *Parser) scanFlowScalar(style ScalarStyle) (*Token, error) {
	single := style == SINGLE_QUOTED_SCALAR_STYLE
	startMark := parser.mark
	parser.forward(1) // opening quote

	var value []byte
	for {
		if err := parser.updateBuffer(4); err != nil {
			return nil, err
		}
		if isZeroChar(parser.buffer, parser.buffer_pos) {
			return nil, parser.setScannerError("while scanning a quoted scalar", startMark, "found unexpected end of stream")
		}
		if isLineBreak(parser.buffer, parser.buffer_pos) {
			folded, err := parser.scanFlowScalarLineBreaks(startMark)
			if err != nil {
				return nil, err
			}
			value = append(value, folded...)
			continue
		}
		quote := byte('\'')
		if !single {
			quote = '"'
		}
		if parser.buffer[parser.buffer_pos] == quote {
			if single && parser.buffer_pos+1 < len(parser.buffer) && parser.buffer[parser.buffer_pos+1] == '\'' {
				value = append(value, '\'')
				parser.forward(2)
				continue
			}
			break
		}
		if !single && parser.buffer[parser.buffer_pos] == '\\' {
			if isLineBreak(parser.buffer, parser.buffer_pos+1) {
				parser.forward(1)
				if _, err := parser.scanFlowScalarLineBreaks(startMark); err != nil {
					return nil, err
				}
				continue
			}
			escaped, err := parser.scanDoubleQuotedEscape(startMark)
			if err != nil {
				return nil, err
			}
			value = append(value, escaped...)
			continue
		}
		value = append(value, parser.buffer[parser.buffer_pos:parser.buffer_pos+width(parser.buffer[parser.buffer_pos])]...)
		parser.forward(1)
	}
	parser.forward(1) // closing quote

	return &Token{Type: SCALAR_TOKEN, StartMark: startMark, EndMark: parser.mark, Value: value, Style: style}, nil
}

// scanFlowScalarLineBreaks folds one or more line breaks (plus any
// surrounding blanks) per the single/double-quoted line-folding rule: a
// single break folds to a space, more than one break folds to N-1 breaks.
func (parser *Parser) scanFlowScalarLineBreaks(startMark Mark) ([]byte, error) {
	for isSpace(parser.buffer, parser.buffer_pos) {
		parser.forward(1)
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
	}
	var breaks int
	for isLineBreak(parser.buffer, parser.buffer_pos) {
		parser.skipLineBreak()
		breaks++
		if err := parser.updateBuffer(1); err != nil {
			return nil, err
		}
		for isSpace(parser.buffer, parser.buffer_pos) {
			parser.forward(1)
			if err := parser.updateBuffer(1); err != nil {
				return nil, err
			}
		}
	}
	if breaks == 0 {
		return nil, nil
	}
	if breaks == 1 {
		return []byte{' '}, nil
	}
	out := make([]byte, breaks-1)
	for i := range out {
		out[i] = '\n'
	}
	return out, nil
}

func (parser *Parser) scanDoubleQuotedEscape(startMark Mark) ([]byte, error) {
	parser.forward(1) // backslash
	if err := parser.updateBuffer(1); err != nil {
		return nil, err
	}
	if isZeroChar(parser.buffer, parser.buffer_pos) {
		return nil, parser.setScannerError("while parsing a quoted scalar", startMark, "found unexpected end of stream")
	}
	c := parser.buffer[parser.buffer_pos]

	simple := map[byte]byte{
		'0': 0, 'a': 7, 'b': 8, 't': 9, '\t': 9, 'n': 10, 'v': 11, 'f': 12, 'r': 13,
		'e': 27, ' ': ' ', '"': '"', '\'': '\'', '\\': '\\', 'N': 0xC2, '_': 0xC2, 'L': 0, 'P': 0,
	}
	switch c {
	case '0', 'a', 'b', 't', '\t', 'n', 'v', 'f', 'r', 'e', ' ', '"', '\'', '\\':
		b := simple[c]
		parser.forward(1)
		return []byte{b}, nil
	case 'N':
		parser.forward(1)
		return []byte{0xC2, 0x85}, nil
	case '_':
		parser.forward(1)
		return []byte{0xC2, 0xA0}, nil
	case 'L':
		parser.forward(1)
		return []byte{0xE2, 0x80, 0xA8}, nil
	case 'P':
		parser.forward(1)
		return []byte{0xE2, 0x80, 0xA9}, nil
	case 'x':
		return parser.scanHexEscape(startMark, 2)
	case 'u':
		return parser.scanHexEscape(startMark, 4)
	case 'U':
		return parser.scanHexEscape(startMark, 8)
	}
	return nil, parser.setScannerError("while parsing a quoted scalar", startMark, "found unknown escape character")
}

func (parser *Parser) scanHexEscape(startMark Mark, length int) ([]byte, error) {
	parser.forward(1) // x/u/U
	if err := parser.updateBuffer(length); err != nil {
		return nil, err
	}
	var r rune
	for i := 0; i < length; i++ {
		if !isHex(parser.buffer, parser.buffer_pos) {
			return nil, parser.setScannerError("while parsing a quoted scalar", startMark, "did not find expected hexadecimal number")
		}
		r = r<<4 | rune(asHex(parser.buffer, parser.buffer_pos))
		parser.forward(1)
	}
	return []byte(string(r)), nil
}

func (parser *Parser) fetchPlainScalar() error {
	if err := parser.savePossibleSimpleKey(); err != nil {
		return err
	}
	parser.simple_key_allowed = false

	token, err := parser.scanPlainScalar()
	if err != nil {
		return err
	}
	parser.tokens = append(parser.tokens, *token)
	parser.token_available = true
	return nil
}

func (parser *Parser) scanPlainScalar() (*Token, error) {
	startMark := parser.mark
	endMark := parser.mark
	indent := parser.indent + 1

	var value []byte
	var whitespaces []byte
	leadingBreak := false

outer:
	for {
		for {
			if err := parser.updateBuffer(2); err != nil {
				return nil, err
			}
			if parser.buffer_pos < len(parser.buffer) && parser.buffer[parser.buffer_pos] == '#' && len(whitespaces) > 0 {
				break outer
			}
			if isBreakOrZero(parser.buffer, parser.buffer_pos) {
				break
			}
			if parser.buffer_pos < len(parser.buffer) && parser.buffer[parser.buffer_pos] == ':' &&
				(isBlankOrZero(parser.buffer, parser.buffer_pos+1) || (parser.flow_level > 0 && isFlowIndicator(parser.buffer, parser.buffer_pos+1))) {
				break outer
			}
			if parser.flow_level > 0 && isFlowIndicator(parser.buffer, parser.buffer_pos) {
				break outer
			}

			if isBlank(parser.buffer, parser.buffer_pos) {
				for isSpace(parser.buffer, parser.buffer_pos) {
					whitespaces = append(whitespaces, ' ')
					parser.forward(1)
					if err := parser.updateBuffer(1); err != nil {
						return nil, err
					}
				}
				continue
			}

			if len(whitespaces) > 0 {
				value = append(value, whitespaces...)
				whitespaces = nil
			}
			value = append(value, parser.buffer[parser.buffer_pos:parser.buffer_pos+width(parser.buffer[parser.buffer_pos])]...)
			parser.forward(1)
			endMark = parser.mark
		}

		// A line break folds into the scalar if the following line is
		// indented past the enclosing block and doesn't start a document
		// marker. The folded breaks are held back like trailing spaces and
		// only appended once more content follows.
		folded, err := parser.scanFlowScalarLineBreaks(startMark)
		if err != nil {
			return nil, err
		}
		if folded == nil {
			break
		}
		leadingBreak = true
		if parser.mark.Column < indent && parser.flow_level == 0 {
			break
		}
		if err := parser.updateBuffer(4); err != nil {
			return nil, err
		}
		if parser.hasPrefix("---") || parser.hasPrefix("...") {
			break
		}
		whitespaces = folded
	}

	if leadingBreak {
		parser.simple_key_allowed = true
	}

	return &Token{
		Type:      SCALAR_TOKEN,
		StartMark: startMark,
		EndMark:   endMark,
		Value:     value,
		Style:     PLAIN_SCALAR_STYLE,
	}, nil
}

func (parser *Parser) setScannerError(context string, mark Mark, problem string) error {
	parser.ErrorType = SCANNER_ERROR
	parser.hadError = true
	return ScannerError{
		ContextMessage: context,
		ContextMark:    mark,
		Message:        problem,
		Mark:           parser.mark,
	}
}

func decodeRuneAt(buf []byte, i int) (rune, int) {
	if i >= len(buf) {
		return 0, 0
	}
	w := width(buf[i])
	if w == 0 || i+w > len(buf) {
		return rune(buf[i]), 1
	}
	switch w {
	case 1:
		return rune(buf[i]), 1
	default:
		r := rune(buf[i] & (0xFF >> uint(w+1)))
		for k := 1; k < w; k++ {
			r = r<<6 | rune(buf[i+k]&0x3F)
		}
		return r, w
	}
}
